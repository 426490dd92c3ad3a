package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recommendations are the tiered action lists attached to a fusion result.
// Generation is deterministic: identical (risk level, emotion) inputs yield
// identical lists.
type Recommendations struct {
	Immediate []string  `json:"immediate"`
	ShortTerm []string  `json:"short_term"`
	LongTerm  []string  `json:"long_term"`
	Priority  RiskLevel `json:"priority"`
}

// FusionResult is the unit of output of one fusion run. Results are
// append-only: concurrent runs for the same session each write their own
// result and consumers treat the stream as a timestamp-ordered log.
type FusionResult struct {
	ID              uuid.UUID       `json:"id"`
	SessionID       uuid.UUID       `json:"session_id"`
	UserID          uuid.UUID       `json:"user_id"`
	PrimaryEmotion  Emotion         `json:"primary_emotion"`
	Confidence      float64         `json:"confidence"`
	Intensity       float64         `json:"intensity"`
	WeightsUsed     FusionWeights   `json:"weights_used"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	RiskScore       float64         `json:"risk_score"`
	Trend           Trend           `json:"trend"`
	Volatility      float64         `json:"volatility"`
	Recommendations Recommendations `json:"recommendations"`
	Enhanced        bool            `json:"enhanced"`
	Timestamp       time.Time       `json:"timestamp"`
}

// Alert is the message published when a result crosses the alert threshold.
type Alert struct {
	SessionID      uuid.UUID `json:"session_id"`
	UserID         uuid.UUID `json:"user_id"`
	RiskLevel      RiskLevel `json:"risk_level"`
	RiskScore      float64   `json:"risk_score"`
	PrimaryEmotion Emotion   `json:"primary_emotion"`
	Timestamp      time.Time `json:"timestamp"`
}

// Enhancement is the validated response of the LLM cross-validation call.
type Enhancement struct {
	ValidatedEmotion     Emotion
	ConfidenceAdjustment float64
	Reasoning            string
}
