package alert

import (
	"github.com/pulsewatch/internal/metrics"
	"github.com/pulsewatch/internal/models"
)

// ResolveAggregation picks the scalar the rule's aggregation kind refers to
// out of the raw components. Total over all inputs: unknown kinds and
// missing min/max resolve to 0.
func ResolveAggregation(aggregation models.Aggregation, components metrics.Components) float64 {
	switch aggregation {
	case models.AggregationSum:
		return components.Sum
	case models.AggregationAvg:
		return components.Avg
	case models.AggregationCount, models.AggregationDistinctCount:
		return components.Count
	case models.AggregationMin:
		if components.Min != nil {
			return *components.Min
		}
		return 0
	case models.AggregationMax:
		if components.Max != nil {
			return *components.Max
		}
		return 0
	default:
		return 0
	}
}

// ValidAggregation reports whether the aggregation key is known.
func ValidAggregation(aggregation models.Aggregation) bool {
	switch aggregation {
	case models.AggregationSum, models.AggregationAvg, models.AggregationCount,
		models.AggregationMin, models.AggregationMax, models.AggregationDistinctCount:
		return true
	default:
		return false
	}
}
