package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	"github.com/DianaTao/MindBridge-sub000/internal/metrics"
)

// ResultRepository is the durable append-only fusion result log.
type ResultRepository struct {
	pool *pgxpool.Pool
}

var _ domain.ResultStore = (*ResultRepository)(nil)

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

func (r *ResultRepository) Append(ctx context.Context, result domain.FusionResult) error {
	weights, err := json.Marshal(result.WeightsUsed)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	recommendations, err := json.Marshal(result.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	timer := prometheus.NewTimer(metrics.DBQueryDuration.WithLabelValues("append_result"))
	defer timer.ObserveDuration()

	_, err = r.pool.Exec(ctx, `
		INSERT INTO fusion_results (
			id, session_id, user_id, primary_emotion, confidence, intensity,
			weights_used, risk_level, risk_score, trend, volatility,
			recommendations, enhanced, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		result.ID, result.SessionID, result.UserID,
		string(result.PrimaryEmotion), result.Confidence, result.Intensity,
		weights, string(result.RiskLevel), result.RiskScore,
		string(result.Trend), result.Volatility,
		recommendations, result.Enhanced, result.Timestamp,
	)
	if err != nil {
		metrics.DBErrorsTotal.WithLabelValues("append_result").Inc()
		return fmt.Errorf("failed to insert fusion result: %w", err)
	}
	return nil
}

func (r *ResultRepository) History(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.FusionResult, error) {
	timer := prometheus.NewTimer(metrics.DBQueryDuration.WithLabelValues("result_history"))
	defer timer.ObserveDuration()

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, user_id, primary_emotion, confidence, intensity,
		       weights_used, risk_level, risk_score, trend, volatility,
		       recommendations, enhanced, created_at
		FROM fusion_results
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		metrics.DBErrorsTotal.WithLabelValues("result_history").Inc()
		return nil, fmt.Errorf("failed to query result history: %w", err)
	}
	defer rows.Close()

	var results []domain.FusionResult
	for rows.Next() {
		var (
			result          domain.FusionResult
			emotion         string
			riskLevel       string
			trend           string
			weights         []byte
			recommendations []byte
		)
		if err := rows.Scan(
			&result.ID, &result.SessionID, &result.UserID,
			&emotion, &result.Confidence, &result.Intensity,
			&weights, &riskLevel, &result.RiskScore,
			&trend, &result.Volatility,
			&recommendations, &result.Enhanced, &result.Timestamp,
		); err != nil {
			metrics.DBErrorsTotal.WithLabelValues("result_history").Inc()
			return nil, fmt.Errorf("failed to scan fusion result: %w", err)
		}
		result.PrimaryEmotion = domain.Emotion(emotion)
		result.RiskLevel = domain.RiskLevel(riskLevel)
		result.Trend = domain.Trend(trend)
		if err := json.Unmarshal(weights, &result.WeightsUsed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
		}
		if err := json.Unmarshal(recommendations, &result.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		metrics.DBErrorsTotal.WithLabelValues("result_history").Inc()
		return nil, fmt.Errorf("failed to read result history rows: %w", err)
	}
	return results, nil
}

// PruneOlderThan deletes results past the retention horizon. Called from a
// maintenance ticker, not from the fusion pipeline.
func (r *ResultRepository) PruneOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBQueryDuration.WithLabelValues("prune_results"))
	defer timer.ObserveDuration()

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM fusion_results WHERE created_at < $1`,
		time.Now().Add(-age),
	)
	if err != nil {
		metrics.DBErrorsTotal.WithLabelValues("prune_results").Inc()
		return 0, fmt.Errorf("failed to prune fusion results: %w", err)
	}
	return tag.RowsAffected(), nil
}
