package alert

import (
	"testing"

	"github.com/pulsewatch/internal/models"
	"github.com/stretchr/testify/assert"
)

func floatp(f float64) *float64 { return &f }

func TestEvaluateCondition(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		condition models.Condition
		threshold float64
		compare   *float64
		want      bool
	}{
		{"greater than true", 10, models.ConditionGreaterThan, 5, nil, true},
		{"greater than equal boundary", 5, models.ConditionGreaterThan, 5, nil, false},
		{"less than true", 3, models.ConditionLessThan, 5, nil, true},
		{"less than false", 7, models.ConditionLessThan, 5, nil, false},
		{"equals true", 5, models.ConditionEquals, 5, nil, true},
		{"equals false", 5.1, models.ConditionEquals, 5, nil, false},
		{"not equals true", 5.1, models.ConditionNotEquals, 5, nil, true},
		{"not equals false", 5, models.ConditionNotEquals, 5, nil, false},
		{"gte boundary", 5, models.ConditionGreaterThanOrEqual, 5, nil, true},
		{"gte below", 4.9, models.ConditionGreaterThanOrEqual, 5, nil, false},
		{"lte boundary", 5, models.ConditionLessThanOrEqual, 5, nil, true},
		{"lte above", 5.1, models.ConditionLessThanOrEqual, 5, nil, false},
		{"pct increase 50% over 40% threshold", 150, models.ConditionPercentageIncrease, 40, floatp(100), true},
		{"pct increase below threshold", 120, models.ConditionPercentageIncrease, 40, floatp(100), false},
		{"pct increase exact threshold", 140, models.ConditionPercentageIncrease, 40, floatp(100), true},
		{"pct increase nil compare", 150, models.ConditionPercentageIncrease, 40, nil, false},
		{"pct increase zero compare", 150, models.ConditionPercentageIncrease, 40, floatp(0), false},
		{"pct decrease 50% over 40% threshold", 50, models.ConditionPercentageDecrease, 40, floatp(100), true},
		{"pct decrease below threshold", 80, models.ConditionPercentageDecrease, 40, floatp(100), false},
		{"pct decrease nil compare", 10, models.ConditionPercentageDecrease, 40, nil, false},
		{"pct decrease zero compare", 0, models.ConditionPercentageDecrease, 40, floatp(0), false},
		{"anomaly never triggers", 1e9, models.ConditionAnomaly, 0, nil, false},
		{"unknown condition never triggers", 100, models.Condition("BOGUS"), 0, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCondition(tt.value, tt.condition, tt.threshold, tt.compare)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGreaterThanComplementsLessThanOrEqual(t *testing.T) {
	values := []float64{-10, -0.5, 0, 0.5, 5, 5.0001, 100, 1e9}
	thresholds := []float64{-1, 0, 5, 99.9}

	for _, value := range values {
		for _, threshold := range thresholds {
			gt := EvaluateCondition(value, models.ConditionGreaterThan, threshold, nil)
			lte := EvaluateCondition(value, models.ConditionLessThanOrEqual, threshold, nil)
			assert.NotEqual(t, gt, lte, "value=%v threshold=%v", value, threshold)
		}
	}
}

func TestValidCondition(t *testing.T) {
	assert.True(t, ValidCondition(models.ConditionGreaterThan))
	assert.True(t, ValidCondition(models.ConditionAnomaly))
	assert.False(t, ValidCondition(models.Condition("NOPE")))
}
