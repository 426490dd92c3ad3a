package fusion

import (
	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

// RiskInput carries everything the deterministic risk scorer looks at.
type RiskInput struct {
	PrimaryEmotion domain.Emotion
	Intensity      float64
	Confidence     float64
	AgreementCount int
	PresentCount   int
	Trend          domain.Trend
	Baseline       bool
}

// RiskAssessment is the scored output.
type RiskAssessment struct {
	Score float64
	Level domain.RiskLevel
}

const severityWeight = 1.5

// AssessRisk computes the additive risk score and maps it to a level.
// Holding emotion, confidence and agreement fixed, the score never decreases
// as intensity increases. A baseline (no-data) run is always low risk, and
// emotions outside the high-risk set classify as low regardless of score:
// strong cross-modal agreement on a positive emotion is not a concerning
// state even though its numeric score carries the agreement bonus.
func AssessRisk(in RiskInput, thresholds RiskThresholds) RiskAssessment {
	if in.Baseline {
		return RiskAssessment{Score: 0, Level: domain.RiskLow}
	}

	var score float64

	if in.PrimaryEmotion.IsHighRisk() {
		score += severityWeight
	}

	switch {
	case in.Intensity >= 8:
		score += 1.5
	case in.Intensity >= 6:
		score += 0.5
	}

	switch {
	case in.Confidence >= 0.8:
		score += 0.5
	case in.Confidence >= 0.6:
		score += 0.25
	}

	if in.PresentCount > 1 && in.AgreementCount == in.PresentCount {
		score += 1.0
	}

	if in.Trend == domain.TrendDeclining {
		score += 0.5
	}

	level := domain.RiskLow
	if in.PrimaryEmotion.IsHighRisk() {
		switch {
		case score >= thresholds.Critical:
			level = domain.RiskCritical
		case score >= thresholds.High:
			level = domain.RiskHigh
		case score >= thresholds.Medium:
			level = domain.RiskMedium
		}
	}

	return RiskAssessment{Score: score, Level: level}
}
