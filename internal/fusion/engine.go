package fusion

import (
	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

// Baseline values reported when no modality has observations in the window.
const (
	baselineConfidence = 0.3
	baselineIntensity  = 3.0
)

// FusedEmotion is the output of the fusion stage, before temporal and risk
// analysis.
type FusedEmotion struct {
	PrimaryEmotion domain.Emotion
	Confidence     float64
	Intensity      float64
	Weights        domain.FusionWeights
	// AgreementCount is the number of present modalities reporting the
	// winning emotion.
	AgreementCount int
	// PresentCount is the number of modalities with observations.
	PresentCount int
	// Baseline marks the no-data fallback result.
	Baseline bool
}

// Fuse combines weighted modality summaries into one unified emotion. Scores
// accumulate per vocabulary entry; ties break on highest individual modality
// confidence, then on fixed modality priority (video > audio > text).
func Fuse(summaries []domain.ModalitySummary, weights domain.FusionWeights) FusedEmotion {
	if len(summaries) == 0 {
		return FusedEmotion{
			PrimaryEmotion: domain.EmotionNeutral,
			Confidence:     baselineConfidence,
			Intensity:      baselineIntensity,
			Weights:        weights,
			Baseline:       true,
		}
	}

	scores := make(map[domain.Emotion]float64, len(summaries))
	for _, s := range summaries {
		scores[s.PrimaryEmotion] += weights[s.Modality]
	}

	winner := pickWinner(scores, summaries)

	var confidence float64
	agreement := 0
	for _, s := range summaries {
		confidence += weights[s.Modality] * s.Confidence
		if s.PrimaryEmotion == winner {
			agreement++
		}
	}

	// Intensity: confidence on a 0-10 scale plus +1 per additional agreeing
	// modality, capped at 10.
	intensity := confidence * 10
	if agreement > 1 {
		intensity += float64(agreement - 1)
	}
	if intensity > 10 {
		intensity = 10
	}

	return FusedEmotion{
		PrimaryEmotion: winner,
		Confidence:     confidence,
		Intensity:      intensity,
		Weights:        weights,
		AgreementCount: agreement,
		PresentCount:   len(summaries),
	}
}

func pickWinner(scores map[domain.Emotion]float64, summaries []domain.ModalitySummary) domain.Emotion {
	var winner domain.Emotion
	var winnerScore float64
	first := true

	for _, e := range domain.EmotionVocabulary {
		score, present := scores[e]
		if !present {
			continue
		}
		if first || score > winnerScore {
			winner, winnerScore, first = e, score, false
			continue
		}
		if score == winnerScore && beats(e, winner, summaries) {
			winner = e
		}
	}
	return winner
}

// beats resolves a score tie: the emotion backed by the highest individual
// modality confidence wins; a further tie falls back to modality priority.
func beats(challenger, incumbent domain.Emotion, summaries []domain.ModalitySummary) bool {
	chConf, chPrio := bestBacker(challenger, summaries)
	inConf, inPrio := bestBacker(incumbent, summaries)
	if chConf != inConf {
		return chConf > inConf
	}
	return chPrio < inPrio
}

func bestBacker(e domain.Emotion, summaries []domain.ModalitySummary) (confidence float64, priority int) {
	priority = len(domain.Modalities)
	for _, s := range summaries {
		if s.PrimaryEmotion != e {
			continue
		}
		if s.Confidence > confidence {
			confidence = s.Confidence
		}
		if p := s.Modality.Priority(); p < priority {
			priority = p
		}
	}
	return confidence, priority
}
