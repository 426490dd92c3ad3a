package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

func TestRecommend_Deterministic(t *testing.T) {
	first := Recommend(domain.RiskHigh, domain.EmotionSad)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Recommend(domain.RiskHigh, domain.EmotionSad))
	}
}

func TestRecommend_AllLevelsNonEmpty(t *testing.T) {
	for _, level := range []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh, domain.RiskCritical} {
		recs := Recommend(level, domain.EmotionNeutral)
		assert.NotEmpty(t, recs.Immediate, "level %s", level)
		assert.NotEmpty(t, recs.ShortTerm, "level %s", level)
		assert.NotEmpty(t, recs.LongTerm, "level %s", level)
		assert.Equal(t, level, recs.Priority)
	}
}

func TestRecommend_EmotionOverridePrepended(t *testing.T) {
	recs := Recommend(domain.RiskMedium, domain.EmotionSad)

	require.GreaterOrEqual(t, len(recs.Immediate), 3)
	assert.Equal(t, "Reach out to someone you trust", recs.Immediate[0])
	// Base actions still follow the override.
	assert.Contains(t, recs.Immediate, "Take a short break")
}

func TestRecommend_NoOverrideAtLowRisk(t *testing.T) {
	plain := Recommend(domain.RiskLow, domain.EmotionNeutral)
	sad := Recommend(domain.RiskLow, domain.EmotionSad)

	assert.Equal(t, plain.Immediate, sad.Immediate)
}

func TestRecommend_ReturnsCopies(t *testing.T) {
	recs := Recommend(domain.RiskMedium, domain.EmotionStressed)
	recs.Immediate[0] = "mutated"

	fresh := Recommend(domain.RiskMedium, domain.EmotionStressed)
	assert.NotEqual(t, "mutated", fresh.Immediate[0])
}

func TestTableVersion(t *testing.T) {
	assert.Equal(t, "2024-06", TableVersion())
}
