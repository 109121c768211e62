package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AlertStatus string

const (
	AlertStatusTriggered    AlertStatus = "TRIGGERED"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
)

// Alert is one materialized firing of a rule. Rows are append-only: a fresh
// firing always creates a new row, state only moves forward through
// TRIGGERED -> ACKNOWLEDGED -> RESOLVED (or TRIGGERED -> RESOLVED).
type Alert struct {
	gorm.Model
	RuleID             uint              `json:"rule_id" gorm:"index;not null"`
	RuleName           string            `json:"rule_name"`
	Description        string            `json:"description"`
	Severity           Severity          `json:"severity" gorm:"index"`
	MetricValue        float64           `json:"metric_value"`
	Threshold          float64           `json:"threshold"` // snapshot, later rule edits don't rewrite history
	Status             AlertStatus       `json:"status" gorm:"index"`
	TriggeredAt        time.Time         `json:"triggered_at" gorm:"index"`
	NotifiedAt         *time.Time        `json:"notified_at"`
	NotificationStatus datatypes.JSONMap `json:"notification_status"`
	AcknowledgedByID   *uint             `json:"acknowledged_by_id"`
	AcknowledgedAt     *time.Time        `json:"acknowledged_at"`
	Resolution         string            `json:"resolution,omitempty"`
	ResolvedAt         *time.Time        `json:"resolved_at"`
}

// SeverityCount is one bucket of the alert stats breakdown.
type SeverityCount struct {
	Severity Severity `json:"severity"`
	Count    int64    `json:"count"`
}

type AlertStats struct {
	TotalAlerts        int64           `json:"totalAlerts"`
	TriggeredAlerts    int64           `json:"triggeredAlerts"`
	AcknowledgedAlerts int64           `json:"acknowledgedAlerts"`
	ResolvedAlerts     int64           `json:"resolvedAlerts"`
	AlertsBySeverity   []SeverityCount `json:"alertsBySeverity"`
	AlertsLast24Hours  int64           `json:"alertsLast24Hours"`
}
