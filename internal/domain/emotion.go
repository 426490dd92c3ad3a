package domain

import "fmt"

// Emotion is one label from the fixed vocabulary. Any other string is
// rejected at the ingestion boundary.
type Emotion string

const (
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
	EmotionSurprised Emotion = "surprised"
	EmotionFear      Emotion = "fear"
	EmotionDisgusted Emotion = "disgusted"
	EmotionCalm      Emotion = "calm"
	EmotionStressed  Emotion = "stressed"
	EmotionNeutral   Emotion = "neutral"
)

// EmotionVocabulary lists every accepted emotion label.
var EmotionVocabulary = []Emotion{
	EmotionHappy, EmotionSad, EmotionAngry, EmotionSurprised, EmotionFear,
	EmotionDisgusted, EmotionCalm, EmotionStressed, EmotionNeutral,
}

var emotionSet = func() map[Emotion]struct{} {
	m := make(map[Emotion]struct{}, len(EmotionVocabulary))
	for _, e := range EmotionVocabulary {
		m[e] = struct{}{}
	}
	return m
}()

// ParseEmotion validates a raw label against the vocabulary.
func ParseEmotion(s string) (Emotion, error) {
	e := Emotion(s)
	if _, ok := emotionSet[e]; !ok {
		return "", fmt.Errorf("unknown emotion %q", s)
	}
	return e, nil
}

// IsValid reports whether the emotion belongs to the vocabulary.
func (e Emotion) IsValid() bool {
	_, ok := emotionSet[e]
	return ok
}

// highRiskEmotions drive the severity weight in risk scoring.
var highRiskEmotions = map[Emotion]struct{}{
	EmotionAngry:     {},
	EmotionFear:      {},
	EmotionStressed:  {},
	EmotionSad:       {},
	EmotionDisgusted: {},
}

// IsHighRisk reports whether the emotion belongs to the high-risk set.
func (e Emotion) IsHighRisk() bool {
	_, ok := highRiskEmotions[e]
	return ok
}

// Modality is one of the three independent emotion-sensing channels.
type Modality string

const (
	ModalityVideo Modality = "video"
	ModalityAudio Modality = "audio"
	ModalityText  Modality = "text"
)

// Modalities lists all channels in tie-break priority order (video wins over
// audio, audio over text).
var Modalities = []Modality{ModalityVideo, ModalityAudio, ModalityText}

// ParseModality validates a raw modality string.
func ParseModality(s string) (Modality, error) {
	switch m := Modality(s); m {
	case ModalityVideo, ModalityAudio, ModalityText:
		return m, nil
	default:
		return "", fmt.Errorf("unknown modality %q", s)
	}
}

// Priority returns the tie-break rank of the modality (lower wins).
func (m Modality) Priority() int {
	for i, mod := range Modalities {
		if mod == m {
			return i
		}
	}
	return len(Modalities)
}

// RiskLevel is the categorical risk classification of a fusion result.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RequiresAlert reports whether results at this level must emit an alert.
func (r RiskLevel) RequiresAlert() bool {
	return r == RiskHigh || r == RiskCritical
}

// Trend is the directional change of a session's emotional trajectory.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)
