package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fusion Pipeline Metrics
var (
	// FusionRunsTotal tracks fusion runs by outcome (completed/baseline/failed)
	FusionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fusion_runs_total",
			Help: "Total fusion runs by outcome (completed/baseline/failed)",
		},
		[]string{"outcome"},
	)

	// FusionRunDuration tracks end-to-end fusion run latency
	FusionRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fusion_run_duration_seconds",
			Help:    "End-to-end fusion run duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// FusionRiskLevels tracks produced results by risk level
	FusionRiskLevels = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fusion_risk_levels_total",
			Help: "Fusion results produced by risk level",
		},
		[]string{"risk_level"},
	)

	// ModalitiesPresent tracks how many modalities contributed per run
	ModalitiesPresent = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fusion_modalities_present",
			Help:    "Number of modalities present per fusion run",
			Buckets: []float64{0, 1, 2, 3},
		},
	)
)

// Ingestion Metrics
var (
	// ObservationsIngested tracks accepted observations by modality
	ObservationsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "observations_ingested_total",
			Help: "Total observations accepted by modality",
		},
		[]string{"modality"},
	)

	// ObservationsRejected tracks observations discarded at validation
	ObservationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "observations_rejected_total",
			Help: "Total observations rejected at the ingestion boundary by reason",
		},
		[]string{"reason"},
	)

	// TriggersDebounced tracks fusion triggers collapsed by the debouncer
	TriggersDebounced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fusion_triggers_debounced_total",
			Help: "Total fusion triggers collapsed by the debouncer",
		},
	)
)

// Enhancement Metrics
var (
	// EnhancementsTotal tracks LLM enhancement attempts by result
	// (applied/skipped/invalid/timeout/error)
	EnhancementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enhancements_total",
			Help: "LLM enhancement attempts by result (applied/skipped/invalid/timeout/error)",
		},
		[]string{"result"},
	)

	// EnhancementDuration tracks LLM enhancement call latency
	EnhancementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enhancement_duration_seconds",
			Help:    "LLM enhancement call duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2, 3, 5, 10},
		},
	)
)

// Publisher Metrics
var (
	// ResultsPersisted tracks persisted fusion results by backend (postgres/degraded)
	ResultsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "results_persisted_total",
			Help: "Fusion results persisted by backend (postgres/degraded)",
		},
		[]string{"backend"},
	)

	// AlertsPublished tracks emitted alerts by risk level
	AlertsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_published_total",
			Help: "Alerts published by risk level",
		},
		[]string{"risk_level"},
	)

	// AlertDeliveryFailures tracks alert publish failures (non-fatal)
	AlertDeliveryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_delivery_failures_total",
			Help: "Total alert delivery failures (logged, non-fatal)",
		},
	)
)

// Redis Operations Metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Database Metrics
var (
	// DBQueryDuration tracks database query duration by query name
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBErrorsTotal tracks database errors by query name
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total database errors by query",
		},
		[]string{"query"},
	)
)

// HTTP Request Metrics
// Note: http_requests_total and http_request_duration_seconds are provided by
// the echoprometheus middleware; http_errors_total by internal/errors.
