package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validObservation() EmotionObservation {
	return EmotionObservation{
		SessionID:      uuid.New(),
		UserID:         uuid.New(),
		Modality:       ModalityVideo,
		PrimaryEmotion: EmotionHappy,
		Confidence:     0.8,
		Stability:      0.9,
		Timestamp:      time.Now(),
	}
}

func TestObservationValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*EmotionObservation)
		wantErr bool
	}{
		{"valid", func(*EmotionObservation) {}, false},
		{"nil session", func(o *EmotionObservation) { o.SessionID = uuid.Nil }, true},
		{"unknown modality", func(o *EmotionObservation) { o.Modality = "thermal" }, true},
		{"unknown emotion", func(o *EmotionObservation) { o.PrimaryEmotion = "ecstatic" }, true},
		{"confidence below zero", func(o *EmotionObservation) { o.Confidence = -0.1 }, true},
		{"confidence above one", func(o *EmotionObservation) { o.Confidence = 1.1 }, true},
		{"stability above one", func(o *EmotionObservation) { o.Stability = 1.5 }, true},
		{"zero timestamp", func(o *EmotionObservation) { o.Timestamp = time.Time{} }, true},
		{"boundary confidences", func(o *EmotionObservation) { o.Confidence, o.Stability = 0, 1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := validObservation()
			tt.mutate(&obs)
			err := obs.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseEmotion(t *testing.T) {
	e, err := ParseEmotion("happy")
	assert.NoError(t, err)
	assert.Equal(t, EmotionHappy, e)

	_, err = ParseEmotion("melancholy")
	assert.Error(t, err)
}

func TestIsHighRisk(t *testing.T) {
	for _, e := range []Emotion{EmotionAngry, EmotionFear, EmotionStressed, EmotionSad, EmotionDisgusted} {
		assert.True(t, e.IsHighRisk(), "%s", e)
	}
	for _, e := range []Emotion{EmotionHappy, EmotionCalm, EmotionNeutral, EmotionSurprised} {
		assert.False(t, e.IsHighRisk(), "%s", e)
	}
}

func TestModalityPriority(t *testing.T) {
	assert.Less(t, ModalityVideo.Priority(), ModalityAudio.Priority())
	assert.Less(t, ModalityAudio.Priority(), ModalityText.Priority())
}

func TestRiskLevelRequiresAlert(t *testing.T) {
	assert.False(t, RiskLow.RequiresAlert())
	assert.False(t, RiskMedium.RequiresAlert())
	assert.True(t, RiskHigh.RequiresAlert())
	assert.True(t, RiskCritical.RequiresAlert())
}
