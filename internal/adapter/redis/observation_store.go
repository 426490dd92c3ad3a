package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

// ObservationStore keeps the hot observation window in a sorted set per
// session, scored by observation timestamp (unix ms). Old entries expire via
// the TTL policy owned here, never by the fusion core.
type ObservationStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

var _ domain.ObservationStore = (*ObservationStore)(nil)

func NewObservationStore(rdb *goredis.Client, ttl time.Duration) *ObservationStore {
	return &ObservationStore{rdb: rdb, ttl: ttl}
}

// storedObservation wraps the observation with a unique id so two identical
// readings never collapse into one sorted-set member.
type storedObservation struct {
	ID string                    `json:"id"`
	Ob domain.EmotionObservation `json:"observation"`
}

func (s *ObservationStore) Append(ctx context.Context, obs domain.EmotionObservation) error {
	payload, err := json.Marshal(storedObservation{ID: uuid.NewString(), Ob: obs})
	if err != nil {
		return fmt.Errorf("failed to marshal observation: %w", err)
	}

	key := observationKey(obs.SessionID)
	score := float64(obs.Timestamp.UnixMilli())

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, goredis.Z{Score: score, Member: payload})
	pipe.ZRemRangeByScore(ctx, key, "-inf", formatScore(time.Now().Add(-s.ttl).UnixMilli()))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append observation: %w", err)
	}
	return nil
}

func (s *ObservationStore) Window(ctx context.Context, sessionID uuid.UUID, from, to time.Time) ([]domain.EmotionObservation, error) {
	members, err := s.rdb.ZRangeByScore(ctx, observationKey(sessionID), &goredis.ZRangeBy{
		Min: formatScore(from.UnixMilli()),
		Max: formatScore(to.UnixMilli()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read observation window: %w", err)
	}

	observations := make([]domain.EmotionObservation, 0, len(members))
	for _, member := range members {
		var stored storedObservation
		if err := json.Unmarshal([]byte(member), &stored); err != nil {
			// Corrupt members are skipped, not fatal.
			continue
		}
		observations = append(observations, stored.Ob)
	}
	return observations, nil
}

func observationKey(sessionID uuid.UUID) string {
	return "observations:" + sessionID.String()
}

func formatScore(ms int64) string {
	return strconv.FormatInt(ms, 10)
}
