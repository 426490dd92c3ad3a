package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ObservationStore provides append and windowed range reads of raw
// observations. Expiry of old observations is owned by the store.
type ObservationStore interface {
	Append(ctx context.Context, obs EmotionObservation) error
	Window(ctx context.Context, sessionID uuid.UUID, from, to time.Time) ([]EmotionObservation, error)
}

// ResultStore is the append-only FusionResult log. Results are never updated
// in place.
type ResultStore interface {
	Append(ctx context.Context, result FusionResult) error
	History(ctx context.Context, sessionID uuid.UUID, limit int) ([]FusionResult, error)
}

// ResultPublisher persists a finished fusion result and emits an alert when
// the risk level requires one. Implementations include the primary
// store-backed publisher and a degraded in-memory variant; both honor the
// same contract so callers and tests exercise one code path.
type ResultPublisher interface {
	Publish(ctx context.Context, result FusionResult) error
}

// AlertPublisher delivers alerts to the notification collaborator. Delivery
// failures are non-fatal to the fusion run.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert Alert) error
}

// Enhancer cross-validates an algorithmic result against recent history. An
// error (timeout, malformed response, out-of-vocabulary emotion) means the
// run keeps the un-enhanced result.
type Enhancer interface {
	Enhance(ctx context.Context, result FusionResult, history []FusionResult) (*Enhancement, error)
}

// TriggerDebouncer optionally collapses near-simultaneous triggers for one
// session. The default configuration keeps it disabled: the pipeline is
// at-least-once by design.
type TriggerDebouncer interface {
	Allow(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// FusionService runs the full pipeline for one trigger event.
type FusionService interface {
	Run(ctx context.Context, trigger TriggerEvent) (*FusionResult, error)
}
