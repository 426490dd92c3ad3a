package httpserver

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	"github.com/DianaTao/MindBridge-sub000/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	ingestObservationFn func(ctx context.Context, obs domain.EmotionObservation) error
	runFusionFn         func(ctx context.Context, sessionID, userID uuid.UUID) (*domain.FusionResult, error)
	historyFn           func(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.FusionResult, error)
}

func (m *mockAppService) IngestObservation(ctx context.Context, obs domain.EmotionObservation) error {
	if m.ingestObservationFn != nil {
		return m.ingestObservationFn(ctx, obs)
	}
	return nil
}

func (m *mockAppService) RunFusion(ctx context.Context, sessionID, userID uuid.UUID) (*domain.FusionResult, error) {
	if m.runFusionFn != nil {
		return m.runFusionFn(ctx, sessionID, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) History(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.FusionResult, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, sessionID, limit)
	}
	return nil, nil
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:              "test",
		Port:                "0",
		IngestRatePerSecond: 1000,
		IngestBurst:         1000,
	}

	srv := NewServer(cfg, app, nil)
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) { s.healthChecks = checks }
}
