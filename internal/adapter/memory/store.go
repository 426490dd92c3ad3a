// Package memory provides in-memory implementations of the storage and
// notification interfaces, used by tests and by the degraded publisher when
// no durable backend is reachable.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

// ObservationStore keeps observations per session, newest last.
type ObservationStore struct {
	mu           sync.RWMutex
	observations map[uuid.UUID][]domain.EmotionObservation
}

var _ domain.ObservationStore = (*ObservationStore)(nil)

func NewObservationStore() *ObservationStore {
	return &ObservationStore{observations: make(map[uuid.UUID][]domain.EmotionObservation)}
}

func (s *ObservationStore) Append(_ context.Context, obs domain.EmotionObservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations[obs.SessionID] = append(s.observations[obs.SessionID], obs)
	return nil
}

func (s *ObservationStore) Window(_ context.Context, sessionID uuid.UUID, from, to time.Time) ([]domain.EmotionObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.EmotionObservation
	for _, obs := range s.observations[sessionID] {
		if obs.Timestamp.Before(from) || obs.Timestamp.After(to) {
			continue
		}
		out = append(out, obs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// ResultStore is an append-only in-memory fusion result log. Doubles as the
// degraded-mode journal, bounded per session to keep memory flat.
type ResultStore struct {
	mu         sync.RWMutex
	results    map[uuid.UUID][]domain.FusionResult
	maxPerSess int
}

var _ domain.ResultStore = (*ResultStore)(nil)

const defaultMaxPerSession = 1000

func NewResultStore() *ResultStore {
	return &ResultStore{
		results:    make(map[uuid.UUID][]domain.FusionResult),
		maxPerSess: defaultMaxPerSession,
	}
}

func (s *ResultStore) Append(_ context.Context, result domain.FusionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.results[result.SessionID], result)
	if len(log) > s.maxPerSess {
		log = log[len(log)-s.maxPerSess:]
	}
	s.results[result.SessionID] = log
	return nil
}

// History returns up to limit results, newest first.
func (s *ResultStore) History(_ context.Context, sessionID uuid.UUID, limit int) ([]domain.FusionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.results[sessionID]
	ordered := make([]domain.FusionResult, len(log))
	copy(ordered, log)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Timestamp.After(ordered[j].Timestamp) })

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered, nil
}

// AlertSink records published alerts for inspection in tests and as the
// degraded-mode notification target.
type AlertSink struct {
	mu     sync.Mutex
	alerts []domain.Alert
	err    error
}

var _ domain.AlertPublisher = (*AlertSink)(nil)

func NewAlertSink() *AlertSink {
	return &AlertSink{}
}

// FailWith makes subsequent publishes return err.
func (s *AlertSink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *AlertSink) PublishAlert(_ context.Context, alert domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.alerts = append(s.alerts, alert)
	return nil
}

// Alerts returns a copy of all recorded alerts.
func (s *AlertSink) Alerts() []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]domain.Alert, len(s.alerts))
	copy(cp, s.alerts)
	return cp
}
