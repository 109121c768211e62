package models

import "gorm.io/gorm"

// AuditLog records a configuration change made through the HTTP boundary.
// The alerting engine itself never writes these.
type AuditLog struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"index"`
	Action   string `json:"action" gorm:"not null"` // e.g. "rule.create", "alert.resolve"
	Entity   string `json:"entity"`
	EntityID uint   `json:"entity_id"`
	Detail   string `json:"detail"`
}
