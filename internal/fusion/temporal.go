package fusion

import (
	"math"
	"sort"
	"time"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

// minTrendPoints is the minimum history size for a directional trend.
const minTrendPoints = 3

// emotionValence maps each emotion to a signed wellbeing delta on a 0-100
// scale centered at 50. Positive emotions push up, negative push down; the
// magnitude is weighted by result confidence.
var emotionValence = map[domain.Emotion]float64{
	domain.EmotionHappy:     30,
	domain.EmotionCalm:      20,
	domain.EmotionSurprised: 5,
	domain.EmotionNeutral:   0,
	domain.EmotionDisgusted: -15,
	domain.EmotionStressed:  -20,
	domain.EmotionSad:       -25,
	domain.EmotionFear:      -30,
	domain.EmotionAngry:     -30,
}

// TemporalAnalysis is the trend/volatility output for one session history.
type TemporalAnalysis struct {
	Trend      domain.Trend
	Volatility float64
}

// AnalyzeTrend compares the first and second half of the session's recent
// fusion results (oldest first, split by time). A second-half mean more than
// epsilon above the first-half mean is improving, more than epsilon below is
// declining, otherwise stable. Fewer than three points is insufficient data.
// Volatility is the standard deviation of the per-result wellbeing scores.
func AnalyzeTrend(history []domain.FusionResult, epsilon float64) TemporalAnalysis {
	scores := wellbeingScores(history)

	analysis := TemporalAnalysis{
		Trend:      domain.TrendInsufficientData,
		Volatility: stddev(scores),
	}
	if len(scores) < minTrendPoints {
		return analysis
	}

	mid := len(scores) / 2
	firstMean := mean(scores[:mid])
	secondMean := mean(scores[mid:])

	switch diff := secondMean - firstMean; {
	case diff > epsilon:
		analysis.Trend = domain.TrendImproving
	case diff < -epsilon:
		analysis.Trend = domain.TrendDeclining
	default:
		analysis.Trend = domain.TrendStable
	}
	return analysis
}

// WellbeingScore maps one result to a 0-100 wellbeing value.
func WellbeingScore(emotion domain.Emotion, confidence float64) float64 {
	score := 50 + emotionValence[emotion]*confidence
	return clamp(score, 0, 100)
}

func wellbeingScores(history []domain.FusionResult) []float64 {
	// History arrives newest-first from the store; trend analysis needs
	// chronological order.
	ordered := make([]domain.FusionResult, len(history))
	copy(ordered, history)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	scores := make([]float64, len(ordered))
	for i, r := range ordered {
		scores[i] = WellbeingScore(r.PrimaryEmotion, r.Confidence)
	}
	return scores
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// windowBounds returns the [from, to] range of one aggregation window ending
// at now.
func windowBounds(now time.Time, window time.Duration) (time.Time, time.Time) {
	return now.Add(-window), now
}
