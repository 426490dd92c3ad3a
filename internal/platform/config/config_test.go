package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		RedisURL:              "redis://localhost:6379",
		BaseWeightAudio:       0.40,
		BaseWeightVideo:       0.35,
		BaseWeightText:        0.25,
		AggregationWindow:     5 * time.Minute,
		HistoryLimit:          10,
		RiskThresholdMedium:   2.5,
		RiskThresholdHigh:     4.0,
		RiskThresholdCritical: 5.0,
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validate(validConfig()))
}

func TestValidate_RedisRequired(t *testing.T) {
	cfg := validConfig()
	cfg.RedisURL = ""

	err := validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestValidate_WeightsPositive(t *testing.T) {
	cfg := validConfig()
	cfg.BaseWeightVideo = 0

	err := validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BASE_WEIGHT_VIDEO")
}

func TestValidate_ThresholdOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.RiskThresholdHigh = 2.0 // below medium

	err := validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly increasing")
}

func TestValidate_EnhancerNeedsKey(t *testing.T) {
	cfg := validConfig()
	cfg.EnhancerEnabled = true

	err := validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestValidate_HistoryLimit(t *testing.T) {
	cfg := validConfig()
	cfg.HistoryLimit = 0

	require.Error(t, validate(cfg))
}
