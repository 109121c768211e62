package alert

import (
	"math"
	"testing"

	"github.com/pulsewatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRule() models.AlertRule {
	return models.AlertRule{
		Name:        "Failed Payments Spike",
		MetricType:  models.MetricFailedPayments,
		Condition:   models.ConditionGreaterThan,
		Threshold:   5,
		TimeWindow:  60,
		Aggregation: models.AggregationCount,
		Severity:    models.SeverityCritical,
	}
}

func TestValidateRule(t *testing.T) {
	rule := validRule()
	assert.NoError(t, ValidateRule(&rule))
}

func TestValidateRuleRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.AlertRule)
		field  string
	}{
		{"missing name", func(r *models.AlertRule) { r.Name = "" }, "name"},
		{"missing metric type", func(r *models.AlertRule) { r.MetricType = "" }, "metric_type"},
		{"unknown condition", func(r *models.AlertRule) { r.Condition = "SOMETIMES" }, "condition"},
		{"unknown aggregation", func(r *models.AlertRule) { r.Aggregation = "MEDIAN" }, "aggregation"},
		{"unknown severity", func(r *models.AlertRule) { r.Severity = "MILD" }, "severity"},
		{"zero window", func(r *models.AlertRule) { r.TimeWindow = 0 }, "time_window"},
		{"negative window", func(r *models.AlertRule) { r.TimeWindow = -5 }, "time_window"},
		{"NaN threshold", func(r *models.AlertRule) { r.Threshold = math.NaN() }, "threshold"},
		{"infinite threshold", func(r *models.AlertRule) { r.Threshold = math.Inf(1) }, "threshold"},
		{"percentage without baseline", func(r *models.AlertRule) {
			r.Condition = models.ConditionPercentageIncrease
			r.CompareValue = nil
		}, "compare_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validRule()
			tt.mutate(&rule)
			err := ValidateRule(&rule)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestValidateRulePercentageWithBaseline(t *testing.T) {
	rule := validRule()
	rule.Condition = models.ConditionPercentageDecrease
	rule.CompareValue = floatp(100)
	assert.NoError(t, ValidateRule(&rule))
}
