package fusion

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	apperrors "github.com/DianaTao/MindBridge-sub000/internal/errors"
	"github.com/DianaTao/MindBridge-sub000/internal/metrics"
	"github.com/DianaTao/MindBridge-sub000/internal/platform/correlation"
)

const (
	// minHistoryForEnhancement gates the LLM cross-validation call.
	minHistoryForEnhancement = 3

	// strongDisagreementAdjustment is the confidence discount at which the
	// enhancer's disagreement overrides the algorithmic primary emotion.
	strongDisagreementAdjustment = -0.1
)

// Service runs the full fusion pipeline for one trigger event. Runs for
// different sessions are fully independent; concurrent runs for the same
// session each append their own result (at-least-once by design).
type Service struct {
	observations domain.ObservationStore
	results      domain.ResultStore
	publisher    domain.ResultPublisher
	enhancer     domain.Enhancer         // nil disables enhancement
	debouncer    domain.TriggerDebouncer // nil disables debouncing
	clock        clockwork.Clock
	params       Params

	runBudget       time.Duration
	enhancerTimeout time.Duration
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithEnhancer enables LLM cross-validation.
func WithEnhancer(e domain.Enhancer, timeout time.Duration) Option {
	return func(s *Service) {
		s.enhancer = e
		s.enhancerTimeout = timeout
	}
}

// WithDebouncer collapses near-simultaneous triggers per session.
func WithDebouncer(d domain.TriggerDebouncer) Option {
	return func(s *Service) { s.debouncer = d }
}

// WithRunBudget bounds the wall clock of one run.
func WithRunBudget(budget time.Duration) Option {
	return func(s *Service) { s.runBudget = budget }
}

func NewService(
	observations domain.ObservationStore,
	results domain.ResultStore,
	publisher domain.ResultPublisher,
	clock clockwork.Clock,
	params Params,
	opts ...Option,
) *Service {
	s := &Service{
		observations:    observations,
		results:         results,
		publisher:       publisher,
		clock:           clock,
		params:          params,
		runBudget:       30 * time.Second,
		enhancerTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one fusion run. It returns (nil, nil) when the debouncer
// swallowed the trigger. A persistence failure is the only fatal outcome;
// everything else degrades to a valid result.
func (s *Service) Run(ctx context.Context, trigger domain.TriggerEvent) (*domain.FusionResult, error) {
	ctx = correlation.WithRunID(ctx, correlation.NewRunID())
	ctx, cancel := context.WithTimeout(ctx, s.runBudget)
	defer cancel()

	started := s.clock.Now()
	defer func() {
		metrics.FusionRunDuration.Observe(s.clock.Since(started).Seconds())
	}()

	if s.debouncer != nil {
		allowed, err := s.debouncer.Allow(ctx, trigger.SessionID)
		if err != nil {
			// A broken debouncer must not suppress fusion runs.
			slog.WarnContext(ctx, "Trigger debounce check failed, proceeding", "session_id", trigger.SessionID, "error", err)
		} else if !allowed {
			metrics.TriggersDebounced.Inc()
			slog.DebugContext(ctx, "Trigger debounced", "session_id", trigger.SessionID)
			return nil, nil
		}
	}

	result, err := s.runPipeline(ctx, trigger)
	if err != nil {
		metrics.FusionRunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	outcome := "completed"
	if len(result.WeightsUsed) == 0 {
		outcome = "baseline"
	}
	metrics.FusionRunsTotal.WithLabelValues(outcome).Inc()
	metrics.FusionRiskLevels.WithLabelValues(string(result.RiskLevel)).Inc()

	slog.InfoContext(ctx, "Fusion run completed",
		"session_id", result.SessionID,
		"primary_emotion", result.PrimaryEmotion,
		"confidence", result.Confidence,
		"risk_level", result.RiskLevel,
		"trend", result.Trend,
		"enhanced", result.Enhanced,
	)
	return result, nil
}

func (s *Service) runPipeline(ctx context.Context, trigger domain.TriggerEvent) (*domain.FusionResult, error) {
	now := s.clock.Now()
	from, to := windowBounds(now, s.params.AggregationWindow)

	observations, err := s.observations.Window(ctx, trigger.SessionID, from, to)
	if err != nil {
		return nil, apperrors.InternalError("failed to read observation window", err).
			WithContext("session_id", trigger.SessionID.String())
	}

	summaries := Aggregate(observations)
	metrics.ModalitiesPresent.Observe(float64(len(summaries)))

	weights := ComputeWeights(summaries, s.params.BaseWeights)
	fused := Fuse(summaries, weights)

	history, err := s.results.History(ctx, trigger.SessionID, s.params.HistoryLimit)
	if err != nil {
		// Trend analysis degrades to insufficient_data rather than failing
		// the run.
		slog.WarnContext(ctx, "History read failed, continuing without trend", "session_id", trigger.SessionID, "error", err)
		history = nil
	}

	temporal := AnalyzeTrend(history, s.params.TrendEpsilon)

	risk := AssessRisk(RiskInput{
		PrimaryEmotion: fused.PrimaryEmotion,
		Intensity:      fused.Intensity,
		Confidence:     fused.Confidence,
		AgreementCount: fused.AgreementCount,
		PresentCount:   fused.PresentCount,
		Trend:          temporal.Trend,
		Baseline:       fused.Baseline,
	}, s.params.RiskThresholds)

	result := domain.FusionResult{
		ID:              uuid.New(),
		SessionID:       trigger.SessionID,
		UserID:          trigger.UserID,
		PrimaryEmotion:  fused.PrimaryEmotion,
		Confidence:      fused.Confidence,
		Intensity:       fused.Intensity,
		WeightsUsed:     weights,
		RiskLevel:       risk.Level,
		RiskScore:       risk.Score,
		Trend:           temporal.Trend,
		Volatility:      temporal.Volatility,
		Recommendations: Recommend(risk.Level, fused.PrimaryEmotion),
		Timestamp:       now,
	}

	result = s.maybeEnhance(ctx, result, history)

	if err := s.publisher.Publish(ctx, result); err != nil {
		return nil, err
	}
	return &result, nil
}

// maybeEnhance runs the optional LLM cross-validation. Any failure keeps the
// algorithmic result unchanged with enhanced=false; enhancement errors never
// propagate out of the run.
func (s *Service) maybeEnhance(ctx context.Context, result domain.FusionResult, history []domain.FusionResult) domain.FusionResult {
	if s.enhancer == nil {
		return result
	}
	if len(history) < minHistoryForEnhancement {
		metrics.EnhancementsTotal.WithLabelValues("skipped").Inc()
		return result
	}

	callCtx, cancel := context.WithTimeout(ctx, s.enhancerTimeout)
	defer cancel()

	started := s.clock.Now()
	enhancement, err := s.enhancer.Enhance(callCtx, result, history)
	metrics.EnhancementDuration.Observe(s.clock.Since(started).Seconds())

	if err != nil {
		outcome := "error"
		if callCtx.Err() != nil {
			outcome = "timeout"
		}
		metrics.EnhancementsTotal.WithLabelValues(outcome).Inc()
		slog.WarnContext(ctx, "Enhancement discarded", "session_id", result.SessionID, "error", err)
		return result
	}

	enhanced, ok := applyEnhancement(result, *enhancement)
	if !ok {
		metrics.EnhancementsTotal.WithLabelValues("invalid").Inc()
		slog.WarnContext(ctx, "Enhancement rejected by validation", "session_id", result.SessionID)
		return result
	}

	metrics.EnhancementsTotal.WithLabelValues("applied").Inc()
	return enhanced
}

// applyEnhancement folds a validated enhancement into the result. The
// confidence adjustment is clamped into [0,1]. The primary emotion is only
// overridden when the enhancer disagrees AND discounts the algorithmic
// confidence by at least 0.1 — mild disagreement adjusts confidence without
// relabeling. An out-of-range adjustment or out-of-vocabulary emotion
// invalidates the whole enhancement.
func applyEnhancement(result domain.FusionResult, enh domain.Enhancement) (domain.FusionResult, bool) {
	if !enh.ValidatedEmotion.IsValid() {
		return result, false
	}
	if enh.ConfidenceAdjustment < -0.2 || enh.ConfidenceAdjustment > 0.2 {
		return result, false
	}

	result.Confidence = clamp(result.Confidence+enh.ConfidenceAdjustment, 0, 1)
	if enh.ValidatedEmotion != result.PrimaryEmotion && enh.ConfidenceAdjustment <= strongDisagreementAdjustment {
		result.PrimaryEmotion = enh.ValidatedEmotion
	}
	result.Enhanced = true
	return result, true
}
