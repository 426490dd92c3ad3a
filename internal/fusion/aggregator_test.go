package fusion

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

func obs(modality domain.Modality, emotion domain.Emotion, confidence float64, at time.Time) domain.EmotionObservation {
	return domain.EmotionObservation{
		SessionID:      uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		UserID:         uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Modality:       modality,
		PrimaryEmotion: emotion,
		Confidence:     confidence,
		Stability:      0.9,
		Timestamp:      at,
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestAggregate_GroupsByModality(t *testing.T) {
	now := time.Now()
	summaries := Aggregate([]domain.EmotionObservation{
		obs(domain.ModalityVideo, domain.EmotionHappy, 0.8, now),
		obs(domain.ModalityVideo, domain.EmotionHappy, 0.6, now.Add(time.Second)),
		obs(domain.ModalityAudio, domain.EmotionCalm, 0.7, now),
	})

	require.Len(t, summaries, 2)
	// Summaries follow fixed modality order: video before audio.
	video, audio := summaries[0], summaries[1]
	assert.Equal(t, domain.ModalityVideo, video.Modality)
	assert.Equal(t, domain.EmotionHappy, video.PrimaryEmotion)
	assert.InDelta(t, 0.7, video.Confidence, 1e-9)
	assert.Equal(t, 2, video.SampleCount)

	assert.Equal(t, domain.ModalityAudio, audio.Modality)
	assert.Equal(t, 1, audio.SampleCount)
}

func TestAggregate_DiscardsInvalid(t *testing.T) {
	now := time.Now()
	bad := obs(domain.ModalityText, domain.EmotionSad, 0.5, now)
	bad.Confidence = 1.7

	summaries := Aggregate([]domain.EmotionObservation{
		bad,
		obs(domain.ModalityAudio, domain.EmotionNeutral, 0.6, now),
	})

	require.Len(t, summaries, 1)
	assert.Equal(t, domain.ModalityAudio, summaries[0].Modality)
}

func TestAggregate_DominantLabelByConfidenceMass(t *testing.T) {
	now := time.Now()
	summaries := Aggregate([]domain.EmotionObservation{
		obs(domain.ModalityVideo, domain.EmotionSad, 0.9, now),
		obs(domain.ModalityVideo, domain.EmotionHappy, 0.4, now.Add(time.Second)),
		obs(domain.ModalityVideo, domain.EmotionHappy, 0.4, now.Add(2*time.Second)),
	})

	require.Len(t, summaries, 1)
	// sad mass 0.9 beats happy mass 0.8
	assert.Equal(t, domain.EmotionSad, summaries[0].PrimaryEmotion)
}

func TestAggregate_DominantLabelTieGoesToMostRecent(t *testing.T) {
	now := time.Now()
	summaries := Aggregate([]domain.EmotionObservation{
		obs(domain.ModalityVideo, domain.EmotionSad, 0.5, now),
		obs(domain.ModalityVideo, domain.EmotionHappy, 0.5, now.Add(time.Second)),
	})

	require.Len(t, summaries, 1)
	assert.Equal(t, domain.EmotionHappy, summaries[0].PrimaryEmotion)
}

func TestStability(t *testing.T) {
	tests := []struct {
		name           string
		distinctLabels int
		sampleCount    int
		want           float64
	}{
		{"single sample", 1, 1, 1.0},
		{"uniform labels", 1, 5, 1.0},
		{"two labels in five", 2, 5, 0.75},
		{"full churn", 5, 5, 0.0},
		{"more labels than slack", 3, 2, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, stability(tt.distinctLabels, tt.sampleCount), 1e-9)
		})
	}
}
