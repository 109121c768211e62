package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/pulsewatch/internal/models"
	"gorm.io/gorm"
)

// Query keys honored by the event-backed fetchers. Anything else in a
// rule's metric query is ignored rather than rejected.
var eventFilterColumns = map[string]string{
	"source":    "source",
	"entity_id": "entity_id",
}

type componentsRow struct {
	Sum   float64
	Avg   float64
	Count float64
	Min   *float64
	Max   *float64
}

// NewStoreSource builds a Source with fetchers for the built-in business
// metrics, each aggregating metric_events rows over the window.
func NewStoreSource(db *gorm.DB) *Source {
	source := NewSource()
	source.Register(models.MetricNewUsers, eventFetcher(db, models.MetricNewUsers, false))
	// Active users are counted once per distinct entity, however many
	// events they produced in the window.
	source.Register(models.MetricActiveUsers, eventFetcher(db, models.MetricActiveUsers, true))
	source.Register(models.MetricRevenue, eventFetcher(db, models.MetricRevenue, false))
	source.Register(models.MetricFailedPayments, eventFetcher(db, models.MetricFailedPayments, false))
	source.Register(models.MetricNewSubscriptions, eventFetcher(db, models.MetricNewSubscriptions, false))
	source.Register(models.MetricCanceledSubscriptions, eventFetcher(db, models.MetricCanceledSubscriptions, false))
	return source
}

func eventFetcher(db *gorm.DB, metricType string, distinct bool) Fetcher {
	return func(ctx context.Context, query map[string]interface{}, window time.Duration) (Components, error) {
		countExpr := "COUNT(*)"
		if distinct {
			countExpr = "COUNT(DISTINCT entity_id)"
		}

		q := db.WithContext(ctx).Model(&models.MetricEvent{}).
			Select(fmt.Sprintf(
				"COALESCE(SUM(value), 0) as sum, COALESCE(AVG(value), 0) as avg, %s as count, MIN(value) as min, MAX(value) as max",
				countExpr)).
			Where("metric_type = ?", metricType).
			Where("occurred_at >= ?", time.Now().Add(-window))

		for key, value := range query {
			if column, ok := eventFilterColumns[key]; ok {
				q = q.Where(column+" = ?", value)
			}
		}

		var row componentsRow
		if err := q.Scan(&row).Error; err != nil {
			return Components{}, fmt.Errorf("failed to aggregate %s: %v", metricType, err)
		}

		return Components{
			Sum:   row.Sum,
			Avg:   row.Avg,
			Count: row.Count,
			Min:   row.Min,
			Max:   row.Max,
		}, nil
	}
}
