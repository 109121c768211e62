package alert

import "github.com/pulsewatch/internal/models"

// Predicate decides whether an aggregated value meets a threshold
// condition. compare is only consulted by the percentage conditions.
type Predicate func(value, threshold float64, compare *float64) bool

// predicates is the condition dispatch table. New conditions are added here
// without touching the evaluator's control flow.
var predicates = map[models.Condition]Predicate{
	models.ConditionGreaterThan: func(value, threshold float64, _ *float64) bool {
		return value > threshold
	},
	models.ConditionLessThan: func(value, threshold float64, _ *float64) bool {
		return value < threshold
	},
	models.ConditionEquals: func(value, threshold float64, _ *float64) bool {
		return value == threshold
	},
	models.ConditionNotEquals: func(value, threshold float64, _ *float64) bool {
		return value != threshold
	},
	models.ConditionGreaterThanOrEqual: func(value, threshold float64, _ *float64) bool {
		return value >= threshold
	},
	models.ConditionLessThanOrEqual: func(value, threshold float64, _ *float64) bool {
		return value <= threshold
	},
	models.ConditionPercentageIncrease: func(value, threshold float64, compare *float64) bool {
		if compare == nil || *compare == 0 {
			return false
		}
		return ((value-*compare)/(*compare))*100 >= threshold
	},
	models.ConditionPercentageDecrease: func(value, threshold float64, compare *float64) bool {
		if compare == nil || *compare == 0 {
			return false
		}
		return ((*compare-value)/(*compare))*100 >= threshold
	},
	// ANOMALY is declared in the type system but has no detection method
	// yet. It deliberately never triggers; do not replace this with a
	// heuristic without specifying one.
	models.ConditionAnomaly: func(_, _ float64, _ *float64) bool {
		return false
	},
}

// EvaluateCondition reports whether value meets the condition against
// threshold. Unknown conditions never trigger.
func EvaluateCondition(value float64, condition models.Condition, threshold float64, compare *float64) bool {
	predicate, ok := predicates[condition]
	if !ok {
		return false
	}
	return predicate(value, threshold, compare)
}

// ValidCondition reports whether the condition key is known.
func ValidCondition(condition models.Condition) bool {
	_, ok := predicates[condition]
	return ok
}
