package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DianaTao/MindBridge-sub000/internal/adapter/memory"
	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	apperrors "github.com/DianaTao/MindBridge-sub000/internal/errors"
)

type flakyResultStore struct {
	mu       sync.Mutex
	failures int
	appends  int
	stored   []domain.FusionResult
}

func (s *flakyResultStore) Append(_ context.Context, result domain.FusionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends++
	if s.appends <= s.failures {
		return errors.New("transient write failure")
	}
	s.stored = append(s.stored, result)
	return nil
}

func (s *flakyResultStore) History(_ context.Context, _ uuid.UUID, _ int) ([]domain.FusionResult, error) {
	return nil, nil
}

func (s *flakyResultStore) Appends() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appends
}

func resultWithRisk(level domain.RiskLevel) domain.FusionResult {
	return domain.FusionResult{
		ID:             uuid.New(),
		SessionID:      uuid.New(),
		UserID:         uuid.New(),
		PrimaryEmotion: domain.EmotionAngry,
		RiskLevel:      level,
		RiskScore:      4.5,
		Timestamp:      time.Now().UTC(),
	}
}

func TestPublish_PersistsAndAlerts(t *testing.T) {
	store := memory.NewResultStore()
	alerts := memory.NewAlertSink()
	p := New(store, alerts)

	result := resultWithRisk(domain.RiskHigh)
	require.NoError(t, p.Publish(context.Background(), result))

	history, err := store.History(context.Background(), result.SessionID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, result, history[0])

	published := alerts.Alerts()
	require.Len(t, published, 1)
	assert.Equal(t, result.SessionID, published[0].SessionID)
	assert.Equal(t, domain.RiskHigh, published[0].RiskLevel)
}

func TestPublish_NoAlertBelowThreshold(t *testing.T) {
	alerts := memory.NewAlertSink()
	p := New(memory.NewResultStore(), alerts)

	for _, level := range []domain.RiskLevel{domain.RiskLow, domain.RiskMedium} {
		require.NoError(t, p.Publish(context.Background(), resultWithRisk(level)))
	}
	assert.Empty(t, alerts.Alerts())
}

func TestPublish_RetriesTransientFailures(t *testing.T) {
	store := &flakyResultStore{failures: 2}
	p := New(store, memory.NewAlertSink())

	require.NoError(t, p.Publish(context.Background(), resultWithRisk(domain.RiskLow)))
	assert.Equal(t, 3, store.Appends())
}

func TestPublish_ExhaustedRetriesFatal(t *testing.T) {
	store := &flakyResultStore{failures: 10}
	p := New(store, memory.NewAlertSink())

	err := p.Publish(context.Background(), resultWithRisk(domain.RiskLow))

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypePersistence))
	assert.Equal(t, 3, store.Appends())
}

func TestPublish_AlertFailureNonFatal(t *testing.T) {
	store := memory.NewResultStore()
	alerts := memory.NewAlertSink()
	alerts.FailWith(errors.New("channel gone"))
	p := New(store, alerts)

	result := resultWithRisk(domain.RiskCritical)
	require.NoError(t, p.Publish(context.Background(), result))

	// The result stays persisted despite the failed alert.
	history, err := store.History(context.Background(), result.SessionID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDegraded_JournalsAndAlerts(t *testing.T) {
	journal := memory.NewResultStore()
	alerts := memory.NewAlertSink()
	d := NewDegraded(journal, alerts)

	result := resultWithRisk(domain.RiskHigh)
	require.NoError(t, d.Publish(context.Background(), result))

	history, err := journal.History(context.Background(), result.SessionID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Len(t, alerts.Alerts(), 1)
}

func TestDegraded_AlertFailureNonFatal(t *testing.T) {
	alerts := memory.NewAlertSink()
	alerts.FailWith(errors.New("channel gone"))
	d := NewDegraded(memory.NewResultStore(), alerts)

	assert.NoError(t, d.Publish(context.Background(), resultWithRisk(domain.RiskCritical)))
}
