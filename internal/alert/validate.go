package alert

import (
	"math"

	"github.com/pulsewatch/internal/models"
)

func validSeverity(severity models.Severity) bool {
	switch severity {
	case models.SeverityInfo, models.SeverityWarning, models.SeverityCritical:
		return true
	default:
		return false
	}
}

// ValidateRule checks a rule definition before it is accepted. The
// evaluator additionally guards at runtime (a percentage rule that lost its
// compare value just never triggers), but malformed definitions are
// rejected up front.
func ValidateRule(rule *models.AlertRule) error {
	if rule.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if rule.MetricType == "" {
		return &ValidationError{Field: "metric_type", Reason: "is required"}
	}
	if !ValidCondition(rule.Condition) {
		return &ValidationError{Field: "condition", Reason: "is not a known condition"}
	}
	if !ValidAggregation(rule.Aggregation) {
		return &ValidationError{Field: "aggregation", Reason: "is not a known aggregation"}
	}
	if !validSeverity(rule.Severity) {
		return &ValidationError{Field: "severity", Reason: "must be INFO, WARNING or CRITICAL"}
	}
	if rule.TimeWindow <= 0 {
		return &ValidationError{Field: "time_window", Reason: "must be positive"}
	}
	if math.IsNaN(rule.Threshold) || math.IsInf(rule.Threshold, 0) {
		return &ValidationError{Field: "threshold", Reason: "must be a finite number"}
	}
	if rule.Condition.IsPercentage() && rule.CompareValue == nil {
		return &ValidationError{Field: "compare_value", Reason: "is required for percentage conditions"}
	}
	return nil
}
