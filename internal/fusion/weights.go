package fusion

import (
	"math"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

// ComputeWeights converts modality summaries into normalized fusion weights:
// raw = base[m] * sqrt(confidence*stability), then normalized so present
// modalities sum to 1. Absent modalities carry no entry. If every raw weight
// is zero the present modalities share equal weight. No modalities at all
// yields an empty map and the engine emits the baseline result.
func ComputeWeights(summaries []domain.ModalitySummary, base map[domain.Modality]float64) domain.FusionWeights {
	weights := make(domain.FusionWeights, len(summaries))
	if len(summaries) == 0 {
		return weights
	}

	var total float64
	for _, s := range summaries {
		raw := base[s.Modality] * math.Sqrt(s.Confidence*s.Stability)
		weights[s.Modality] = raw
		total += raw
	}

	if total <= 0 {
		equal := 1.0 / float64(len(summaries))
		for _, s := range summaries {
			weights[s.Modality] = equal
		}
		return weights
	}

	for m, raw := range weights {
		weights[m] = raw / total
	}
	return weights
}
