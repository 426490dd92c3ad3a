package fusion

import (
	"log/slog"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	"github.com/DianaTao/MindBridge-sub000/internal/metrics"
)

// Aggregate reduces the observations of one window to at most one summary per
// modality. Invalid observations are discarded and logged; they never abort
// the run. An empty window yields an empty slice and the engine falls back to
// the neutral baseline.
func Aggregate(observations []domain.EmotionObservation) []domain.ModalitySummary {
	byModality := make(map[domain.Modality][]domain.EmotionObservation, len(domain.Modalities))
	for _, obs := range observations {
		if err := obs.Validate(); err != nil {
			slog.Warn("Discarding invalid observation",
				"session_id", obs.SessionID,
				"modality", obs.Modality,
				"error", err,
			)
			metrics.ObservationsRejected.WithLabelValues("invalid_window_read").Inc()
			continue
		}
		byModality[obs.Modality] = append(byModality[obs.Modality], obs)
	}

	summaries := make([]domain.ModalitySummary, 0, len(byModality))
	for _, modality := range domain.Modalities {
		group := byModality[modality]
		if len(group) == 0 {
			continue
		}
		summaries = append(summaries, summarize(modality, group))
	}
	return summaries
}

func summarize(modality domain.Modality, group []domain.EmotionObservation) domain.ModalitySummary {
	var confidenceSum float64
	labels := make(map[domain.Emotion]float64, len(group))
	for _, obs := range group {
		confidenceSum += obs.Confidence
		labels[obs.PrimaryEmotion] += obs.Confidence
	}

	return domain.ModalitySummary{
		Modality:       modality,
		PrimaryEmotion: dominantLabel(labels, group),
		Confidence:     confidenceSum / float64(len(group)),
		Stability:      stability(len(labels), len(group)),
		SampleCount:    len(group),
	}
}

// dominantLabel picks the emotion with the largest confidence mass; ties go
// to the most recently observed label.
func dominantLabel(labels map[domain.Emotion]float64, group []domain.EmotionObservation) domain.Emotion {
	var best domain.Emotion
	bestMass := -1.0
	// Walk newest-first so a tie resolves to the most recent label.
	for i := len(group) - 1; i >= 0; i-- {
		label := group[i].PrimaryEmotion
		if mass := labels[label]; mass > bestMass {
			best = label
			bestMass = mass
		}
	}
	return best
}

// stability is 1 - (distinct_labels-1)/max(samples-1, 1): more label churn in
// the window means lower stability, clamped to [0,1].
func stability(distinctLabels, sampleCount int) float64 {
	denom := sampleCount - 1
	if denom < 1 {
		denom = 1
	}
	s := 1 - float64(distinctLabels-1)/float64(denom)
	return clamp(s, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
