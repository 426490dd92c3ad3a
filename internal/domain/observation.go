package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EmotionObservation is one reading from one modality analyzer. Observations
// are immutable once written; this service only ever reads them.
type EmotionObservation struct {
	SessionID      uuid.UUID `json:"session_id"`
	UserID         uuid.UUID `json:"user_id"`
	Modality       Modality  `json:"modality"`
	PrimaryEmotion Emotion   `json:"primary_emotion"`
	Confidence     float64   `json:"confidence"`
	Stability      float64   `json:"stability"`
	Timestamp      time.Time `json:"timestamp"`
}

// Validate checks field ranges and vocabulary membership. It is called at the
// ingestion boundary; the fusion core assumes observations are already valid.
func (o EmotionObservation) Validate() error {
	if o.SessionID == uuid.Nil {
		return fmt.Errorf("session_id is required")
	}
	if _, err := ParseModality(string(o.Modality)); err != nil {
		return err
	}
	if !o.PrimaryEmotion.IsValid() {
		return fmt.Errorf("primary_emotion %q is not in the vocabulary", o.PrimaryEmotion)
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		return fmt.Errorf("confidence %.3f outside [0,1]", o.Confidence)
	}
	if o.Stability < 0 || o.Stability > 1 {
		return fmt.Errorf("stability %.3f outside [0,1]", o.Stability)
	}
	if o.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	return nil
}

// ModalitySummary reduces one modality's observations within the aggregation
// window. Ephemeral: derived per fusion run, never persisted.
type ModalitySummary struct {
	Modality       Modality
	PrimaryEmotion Emotion
	Confidence     float64
	Stability      float64
	SampleCount    int
}

// FusionWeights maps modality to its normalized fusion weight. Weights of
// present modalities sum to 1.0 (within 1e-6); absent modalities carry 0.
type FusionWeights map[Modality]float64

// TriggerEvent starts a fusion run for a session. Arrival of a new
// observation or an explicit API call both produce one.
type TriggerEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	Modality  Modality  `json:"modality,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
