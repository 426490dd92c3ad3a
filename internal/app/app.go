// Package app is the application service tying ingestion, fusion triggering
// and history reads together behind the transport layer.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	apperrors "github.com/DianaTao/MindBridge-sub000/internal/errors"
	"github.com/DianaTao/MindBridge-sub000/internal/metrics"
)

// fuseTimeout bounds the detached fusion run launched by auto-triggering.
// Separate from the run budget: this covers scheduling slack as well.
const fuseTimeout = 45 * time.Second

type App struct {
	observations domain.ObservationStore
	results      domain.ResultStore
	fusion       domain.FusionService
	clock        clockwork.Clock

	// fuseOnIngest launches a fusion run after every accepted observation.
	fuseOnIngest bool

	// background tracks detached fusion runs so Shutdown can wait for them.
	background chan struct{}
}

func New(
	observations domain.ObservationStore,
	results domain.ResultStore,
	fusion domain.FusionService,
	clock clockwork.Clock,
	fuseOnIngest bool,
) *App {
	return &App{
		observations: observations,
		results:      results,
		fusion:       fusion,
		clock:        clock,
		fuseOnIngest: fuseOnIngest,
		background:   make(chan struct{}, 256),
	}
}

// IngestObservation validates and stores one observation, then optionally
// launches a fusion run for its session. The run is detached: ingestion
// latency never includes fusion latency.
func (a *App) IngestObservation(ctx context.Context, obs domain.EmotionObservation) error {
	if err := obs.Validate(); err != nil {
		metrics.ObservationsRejected.WithLabelValues("invalid").Inc()
		return apperrors.ValidationError(err.Error())
	}

	if err := a.observations.Append(ctx, obs); err != nil {
		metrics.ObservationsRejected.WithLabelValues("store_error").Inc()
		return apperrors.PersistenceError("failed to store observation", err).
			WithContext("session_id", obs.SessionID.String())
	}
	metrics.ObservationsIngested.WithLabelValues(string(obs.Modality)).Inc()

	if a.fuseOnIngest {
		a.triggerAsync(domain.TriggerEvent{
			SessionID: obs.SessionID,
			UserID:    obs.UserID,
			Modality:  obs.Modality,
			Timestamp: a.clock.Now(),
		})
	}
	return nil
}

// RunFusion executes a fusion run synchronously for an explicit trigger.
// A nil result with nil error means the trigger was debounced.
func (a *App) RunFusion(ctx context.Context, sessionID, userID uuid.UUID) (*domain.FusionResult, error) {
	return a.fusion.Run(ctx, domain.TriggerEvent{
		SessionID: sessionID,
		UserID:    userID,
		Timestamp: a.clock.Now(),
	})
}

// History returns recent fusion results for a session, newest first.
func (a *App) History(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.FusionResult, error) {
	results, err := a.results.History(ctx, sessionID, limit)
	if err != nil {
		return nil, apperrors.PersistenceError("failed to read result history", err).
			WithContext("session_id", sessionID.String())
	}
	return results, nil
}

// triggerAsync launches a detached fusion run. Slot acquisition is
// non-blocking: under overload the trigger is dropped and the next
// observation re-triggers the session anyway.
func (a *App) triggerAsync(trigger domain.TriggerEvent) {
	select {
	case a.background <- struct{}{}:
	default:
		slog.Warn("Fusion trigger dropped, too many runs in flight", "session_id", trigger.SessionID)
		return
	}

	go func() {
		defer func() { <-a.background }()

		ctx, cancel := context.WithTimeout(context.Background(), fuseTimeout)
		defer cancel()

		if _, err := a.fusion.Run(ctx, trigger); err != nil {
			slog.Error("Auto-triggered fusion run failed", "session_id", trigger.SessionID, "error", err)
		}
	}()
}

// Shutdown waits for in-flight detached fusion runs to drain, up to ctx.
func (a *App) Shutdown(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if len(a.background) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
