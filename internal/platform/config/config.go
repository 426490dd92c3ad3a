package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config is the explicit configuration object passed into constructors at
// startup. The fusion core never reads environment variables itself.
type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"` // empty selects the degraded in-memory publisher

	// Fusion weighting. Defaults mirror the original calibration but are
	// configurable, not load-bearing constants.
	BaseWeightAudio float64 `env:"BASE_WEIGHT_AUDIO" default:"0.40"`
	BaseWeightVideo float64 `env:"BASE_WEIGHT_VIDEO" default:"0.35"`
	BaseWeightText  float64 `env:"BASE_WEIGHT_TEXT" default:"0.25"`

	AggregationWindow time.Duration `env:"AGGREGATION_WINDOW" default:"5m"`
	ObservationTTL    time.Duration `env:"OBSERVATION_TTL" default:"30m"`
	HistoryLimit      int           `env:"HISTORY_LIMIT" default:"10"`
	TrendEpsilon      float64       `env:"TREND_EPSILON" default:"5"`

	RiskThresholdMedium   float64 `env:"RISK_THRESHOLD_MEDIUM" default:"2.5"`
	RiskThresholdHigh     float64 `env:"RISK_THRESHOLD_HIGH" default:"4.0"`
	RiskThresholdCritical float64 `env:"RISK_THRESHOLD_CRITICAL" default:"5.0"`

	EnhancerEnabled bool          `env:"ENHANCER_ENABLED" default:"false"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	OpenAIModel     string        `env:"OPENAI_MODEL" default:"gpt-4o-mini"`
	EnhancerTimeout time.Duration `env:"ENHANCER_TIMEOUT" default:"5s"`

	// RunBudget bounds the wall clock of one fusion run end to end.
	RunBudget time.Duration `env:"RUN_BUDGET" default:"30s"`

	// FuseOnIngest launches a fusion run whenever an observation arrives.
	FuseOnIngest bool `env:"FUSE_ON_INGEST" default:"true"`

	// TriggerDebounce collapses triggers for one session arriving within the
	// interval. Zero disables it and keeps at-least-once semantics.
	TriggerDebounce time.Duration `env:"TRIGGER_DEBOUNCE" default:"0s"`

	IngestRatePerSecond float64 `env:"INGEST_RATE_PER_SECOND" default:"50"`
	IngestBurst         int     `env:"INGEST_BURST" default:"100"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	for name, w := range map[string]float64{
		"BASE_WEIGHT_AUDIO": cfg.BaseWeightAudio,
		"BASE_WEIGHT_VIDEO": cfg.BaseWeightVideo,
		"BASE_WEIGHT_TEXT":  cfg.BaseWeightText,
	} {
		if w <= 0 {
			return fmt.Errorf("%s must be positive, got %g", name, w)
		}
	}

	if cfg.RiskThresholdMedium >= cfg.RiskThresholdHigh || cfg.RiskThresholdHigh >= cfg.RiskThresholdCritical {
		return fmt.Errorf("risk thresholds must be strictly increasing: medium=%g high=%g critical=%g",
			cfg.RiskThresholdMedium, cfg.RiskThresholdHigh, cfg.RiskThresholdCritical)
	}

	if cfg.AggregationWindow <= 0 {
		return fmt.Errorf("AGGREGATION_WINDOW must be positive")
	}
	if cfg.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be at least 1")
	}

	if cfg.EnhancerEnabled && cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when ENHANCER_ENABLED is set")
	}

	return nil
}
