package alert

import (
	"fmt"

	"github.com/pulsewatch/internal/models"
	"github.com/pulsewatch/internal/store"
	"gorm.io/datatypes"
)

// CreateDefaultRules seeds a starter set of rules on an empty database.
func CreateDefaultRules(rules store.Rules) error {
	defaults := []models.AlertRule{
		{
			Name:        "Failed Payments Spike",
			Description: "More than 5 failed payments in the last hour",
			MetricType:  models.MetricFailedPayments,
			Condition:   models.ConditionGreaterThan,
			Threshold:   5,
			TimeWindow:  60,
			Aggregation: models.AggregationCount,
			Severity:    models.SeverityCritical,
			Channels:    datatypes.NewJSONSlice([]string{"email"}),
			IsActive:    true,
		},
		{
			Name:         "Revenue Drop",
			Description:  "Hourly revenue dropped 30% against the configured baseline",
			MetricType:   models.MetricRevenue,
			Condition:    models.ConditionPercentageDecrease,
			Threshold:    30,
			CompareValue: floatPtr(1000),
			TimeWindow:   60,
			Aggregation:  models.AggregationSum,
			Severity:     models.SeverityWarning,
			Channels:     datatypes.NewJSONSlice([]string{"email"}),
			IsActive:     true,
		},
		{
			Name:        "No New Signups",
			Description: "No new users registered in the last 6 hours",
			MetricType:  models.MetricNewUsers,
			Condition:   models.ConditionEquals,
			Threshold:   0,
			TimeWindow:  360,
			Aggregation: models.AggregationCount,
			Severity:    models.SeverityInfo,
			Channels:    datatypes.NewJSONSlice([]string{"email"}),
			IsActive:    true,
		},
		{
			Name:        "Subscription Churn",
			Description: "More than 10 canceled subscriptions in a day",
			MetricType:  models.MetricCanceledSubscriptions,
			Condition:   models.ConditionGreaterThan,
			Threshold:   10,
			TimeWindow:  1440,
			Aggregation: models.AggregationCount,
			Severity:    models.SeverityWarning,
			Channels:    datatypes.NewJSONSlice([]string{"email"}),
			IsActive:    true,
		},
	}

	for i := range defaults {
		if err := rules.Create(&defaults[i]); err != nil {
			return fmt.Errorf("failed to create default rule %s: %v", defaults[i].Name, err)
		}
	}

	return nil
}

func floatPtr(f float64) *float64 {
	return &f
}
