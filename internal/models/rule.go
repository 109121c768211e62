package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Condition string

const (
	ConditionGreaterThan        Condition = "GREATER_THAN"
	ConditionLessThan           Condition = "LESS_THAN"
	ConditionEquals             Condition = "EQUALS"
	ConditionNotEquals          Condition = "NOT_EQUALS"
	ConditionGreaterThanOrEqual Condition = "GREATER_THAN_OR_EQUAL"
	ConditionLessThanOrEqual    Condition = "LESS_THAN_OR_EQUAL"
	ConditionPercentageIncrease Condition = "PERCENTAGE_INCREASE"
	ConditionPercentageDecrease Condition = "PERCENTAGE_DECREASE"
	ConditionAnomaly            Condition = "ANOMALY"
)

// IsPercentage reports whether the condition compares a relative delta
// against CompareValue rather than the raw value against Threshold.
func (c Condition) IsPercentage() bool {
	return c == ConditionPercentageIncrease || c == ConditionPercentageDecrease
}

type Aggregation string

const (
	AggregationSum           Aggregation = "SUM"
	AggregationAvg           Aggregation = "AVG"
	AggregationCount         Aggregation = "COUNT"
	AggregationMin           Aggregation = "MIN"
	AggregationMax           Aggregation = "MAX"
	AggregationDistinctCount Aggregation = "DISTINCT_COUNT"
)

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

type AlertRule struct {
	gorm.Model
	Name            string                      `json:"name" gorm:"uniqueIndex;not null"`
	Description     string                      `json:"description"`
	MetricType      string                      `json:"metric_type" gorm:"not null"`
	MetricQuery     datatypes.JSONMap           `json:"metric_query"`
	Condition       Condition                   `json:"condition" gorm:"not null"`
	Threshold       float64                     `json:"threshold" gorm:"not null"`
	CompareValue    *float64                    `json:"compare_value"`
	TimeWindow      int                         `json:"time_window" gorm:"not null"` // In minutes
	Aggregation     Aggregation                 `json:"aggregation" gorm:"not null"`
	Severity        Severity                    `json:"severity" gorm:"not null"`
	Channels        datatypes.JSONSlice[string] `json:"channels"`
	Recipients      datatypes.JSONSlice[string] `json:"recipients"`
	WebhookURL      string                      `json:"webhook_url"`
	IsActive        bool                        `json:"is_active" gorm:"default:true"`
	IsMuted         bool                        `json:"is_muted" gorm:"default:false"`
	MutedUntil      *time.Time                  `json:"muted_until"` // nil while muted = indefinite
	LastCheckedAt   *time.Time                  `json:"last_checked_at"`
	LastTriggeredAt *time.Time                  `json:"last_triggered_at"`
	TriggerCount    int                         `json:"trigger_count" gorm:"default:0"`
	CreatedByID     uint                        `json:"created_by_id" gorm:"index"`
}

// Window returns the rule's evaluation window as a duration.
func (r *AlertRule) Window() time.Duration {
	return time.Duration(r.TimeWindow) * time.Minute
}
