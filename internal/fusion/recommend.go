package fusion

import (
	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

// recommendationTableVersion identifies the static lookup table below.
// Bump it whenever the action lists change so downstream consumers can tell
// result generations apart.
const recommendationTableVersion = "2024-06"

type actionSet struct {
	immediate []string
	shortTerm []string
	longTerm  []string
}

// baseActions holds one row per risk level.
var baseActions = map[domain.RiskLevel]actionSet{
	domain.RiskLow: {
		immediate: []string{"Keep up your current routine"},
		shortTerm: []string{"Check in with yourself later today"},
		longTerm:  []string{"Maintain regular sleep and exercise habits"},
	},
	domain.RiskMedium: {
		immediate: []string{"Take a short break", "Try a 2-minute breathing exercise"},
		shortTerm: []string{"Plan a calming activity for today", "Reduce workload where possible"},
		longTerm:  []string{"Build a daily mindfulness practice", "Review recurring stressors"},
	},
	domain.RiskHigh: {
		immediate: []string{"Pause current activity", "Use a grounding technique (5-4-3-2-1)"},
		shortTerm: []string{"Reach out to a trusted friend or family member", "Schedule downtime within 24 hours"},
		longTerm:  []string{"Consider talking to a counselor", "Track emotional patterns across sessions"},
	},
	domain.RiskCritical: {
		immediate: []string{"Stop and move to a safe, quiet environment", "Contact your support person now"},
		shortTerm: []string{"Arrange a same-week appointment with a mental health professional"},
		longTerm:  []string{"Establish a crisis plan with professional guidance"},
	},
}

// emotionOverrides refine the immediate actions for specific emotions at
// medium risk and above.
var emotionOverrides = map[domain.Emotion][]string{
	domain.EmotionSad:      {"Reach out to someone you trust", "Step outside for daylight if you can"},
	domain.EmotionAngry:    {"Step away from the trigger", "Slow exhale breathing for 90 seconds"},
	domain.EmotionStressed: {"Write down the top stressor", "Drop one non-essential task today"},
	domain.EmotionFear:     {"Name the fear out loud or on paper", "Use a grounding technique (5-4-3-2-1)"},
}

// Recommend maps (risk level, primary emotion) to tiered action lists. The
// lookup is fully deterministic: no randomized selection, identical inputs
// always produce identical output.
func Recommend(level domain.RiskLevel, emotion domain.Emotion) domain.Recommendations {
	row, ok := baseActions[level]
	if !ok {
		row = baseActions[domain.RiskLow]
	}

	immediate := row.immediate
	if level != domain.RiskLow {
		if override, ok := emotionOverrides[emotion]; ok {
			merged := make([]string, 0, len(override)+len(row.immediate))
			merged = append(merged, override...)
			merged = append(merged, row.immediate...)
			immediate = merged
		}
	}

	return domain.Recommendations{
		Immediate: copyList(immediate),
		ShortTerm: copyList(row.shortTerm),
		LongTerm:  copyList(row.longTerm),
		Priority:  level,
	}
}

// TableVersion exposes the recommendation table version.
func TableVersion() string {
	return recommendationTableVersion
}

func copyList(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}
