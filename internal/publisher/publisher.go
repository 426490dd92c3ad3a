// Package publisher persists finished fusion results and emits alerts. The
// primary publisher is backed by the durable result store; the degraded
// variant honors the same contract with an in-memory journal so callers and
// tests exercise a single code path.
package publisher

import (
	"context"
	"log/slog"
	"time"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	apperrors "github.com/DianaTao/MindBridge-sub000/internal/errors"
	"github.com/DianaTao/MindBridge-sub000/internal/metrics"
	"github.com/DianaTao/MindBridge-sub000/internal/platform/retry"
)

const (
	persistMaxAttempts    = 3
	persistInitialBackoff = 100 * time.Millisecond
)

// Publisher appends results to the durable store with bounded retries and
// emits an alert when the risk level requires one. Persistence failures after
// retries are fatal for the run; alert delivery failures are logged only.
type Publisher struct {
	results domain.ResultStore
	alerts  domain.AlertPublisher
	policy  retry.Policy
}

var _ domain.ResultPublisher = (*Publisher)(nil)

func New(results domain.ResultStore, alerts domain.AlertPublisher) *Publisher {
	return &Publisher{
		results: results,
		alerts:  alerts,
		policy: retry.Policy{
			MaxAttempts:      persistMaxAttempts,
			InitialBackoff:   persistInitialBackoff,
			RateLimitBackoff: persistInitialBackoff,
			OnRetry: func(attempt int, err error, backoff time.Duration) {
				slog.Warn("Result persistence retry", "attempt", attempt, "backoff", backoff, "error", err)
			},
		},
	}
}

// Publish appends the result, then emits an alert if needed. The alert is
// strictly after persistence: a delivery failure never rolls back the
// already-written result.
func (p *Publisher) Publish(ctx context.Context, result domain.FusionResult) error {
	classify := func(err error) retry.Action {
		if ctx.Err() != nil {
			return retry.Stop
		}
		return retry.Retry
	}

	err := retry.DoVoid(ctx, p.policy, classify, func() error {
		return p.results.Append(ctx, result)
	})
	if err != nil {
		return apperrors.PersistenceError("failed to persist fusion result", err).
			WithContext("session_id", result.SessionID.String()).
			WithContext("result_id", result.ID.String())
	}
	metrics.ResultsPersisted.WithLabelValues("postgres").Inc()

	p.emitAlert(ctx, result)
	return nil
}

func (p *Publisher) emitAlert(ctx context.Context, result domain.FusionResult) {
	if !result.RiskLevel.RequiresAlert() {
		return
	}

	alert := domain.Alert{
		SessionID:      result.SessionID,
		UserID:         result.UserID,
		RiskLevel:      result.RiskLevel,
		RiskScore:      result.RiskScore,
		PrimaryEmotion: result.PrimaryEmotion,
		Timestamp:      result.Timestamp,
	}

	if err := p.alerts.PublishAlert(ctx, alert); err != nil {
		metrics.AlertDeliveryFailures.Inc()
		delivery := apperrors.AlertDeliveryError("failed to publish alert", err).
			WithContext("session_id", result.SessionID.String()).
			WithContext("risk_level", string(result.RiskLevel))
		slog.Warn("Alert delivery failed", "error", delivery)
		return
	}
	metrics.AlertsPublished.WithLabelValues(string(result.RiskLevel)).Inc()
}

// Degraded is the ResultPublisher used when no durable store is reachable.
// Results land in a bounded in-memory journal and are logged; alerts still
// go out through the alert publisher.
type Degraded struct {
	journal domain.ResultStore
	alerts  domain.AlertPublisher
}

var _ domain.ResultPublisher = (*Degraded)(nil)

func NewDegraded(journal domain.ResultStore, alerts domain.AlertPublisher) *Degraded {
	return &Degraded{journal: journal, alerts: alerts}
}

func (d *Degraded) Publish(ctx context.Context, result domain.FusionResult) error {
	if err := d.journal.Append(ctx, result); err != nil {
		return apperrors.PersistenceError("degraded journal append failed", err)
	}
	metrics.ResultsPersisted.WithLabelValues("degraded").Inc()
	slog.Warn("Result persisted in degraded mode",
		"session_id", result.SessionID,
		"result_id", result.ID,
		"risk_level", result.RiskLevel,
	)

	if result.RiskLevel.RequiresAlert() {
		alert := domain.Alert{
			SessionID:      result.SessionID,
			UserID:         result.UserID,
			RiskLevel:      result.RiskLevel,
			RiskScore:      result.RiskScore,
			PrimaryEmotion: result.PrimaryEmotion,
			Timestamp:      result.Timestamp,
		}
		if err := d.alerts.PublishAlert(ctx, alert); err != nil {
			metrics.AlertDeliveryFailures.Inc()
			slog.Warn("Alert delivery failed in degraded mode", "session_id", result.SessionID, "error", err)
		} else {
			metrics.AlertsPublished.WithLabelValues(string(result.RiskLevel)).Inc()
		}
	}
	return nil
}
