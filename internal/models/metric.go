package models

import (
	"time"

	"gorm.io/gorm"
)

// Well-known metric type keys. The metrics registry is open: anything
// registered there can be referenced by a rule, these are the ones the
// server seeds fetchers for.
const (
	MetricNewUsers              = "new_users"
	MetricActiveUsers           = "active_users"
	MetricRevenue               = "revenue"
	MetricFailedPayments        = "failed_payments"
	MetricNewSubscriptions      = "new_subscriptions"
	MetricCanceledSubscriptions = "canceled_subscriptions"
)

// MetricEvent is one raw observation fed through the ingest endpoint.
// Rule evaluation aggregates these over the rule's time window.
type MetricEvent struct {
	gorm.Model
	MetricType string    `json:"metric_type" gorm:"index;not null"`
	EntityID   string    `json:"entity_id" gorm:"index"` // e.g. user id, used for distinct counts
	Source     string    `json:"source" gorm:"index"`
	Value      float64   `json:"value"`
	OccurredAt time.Time `json:"occurred_at" gorm:"index;not null"`
}
