package fusion

import (
	"time"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

// RiskThresholds map a numeric risk score to a categorical level. Values are
// calibration defaults, not load-bearing constants.
type RiskThresholds struct {
	Medium   float64
	High     float64
	Critical float64
}

// Params carries the tunable knobs of the pipeline. Constructed once from the
// application config; the pipeline never reads ambient state.
type Params struct {
	BaseWeights       map[domain.Modality]float64
	AggregationWindow time.Duration
	HistoryLimit      int
	TrendEpsilon      float64
	RiskThresholds    RiskThresholds
}

// DefaultParams returns the original calibration.
func DefaultParams() Params {
	return Params{
		BaseWeights: map[domain.Modality]float64{
			domain.ModalityAudio: 0.40,
			domain.ModalityVideo: 0.35,
			domain.ModalityText:  0.25,
		},
		AggregationWindow: 5 * time.Minute,
		HistoryLimit:      10,
		TrendEpsilon:      5,
		RiskThresholds:    RiskThresholds{Medium: 2.5, High: 4.0, Critical: 5.0},
	}
}
