// Package store defines the repository contracts the alerting engine is
// built against, plus the gorm-backed production implementation and an
// in-memory implementation used by tests.
package store

import (
	"errors"
	"time"

	"github.com/pulsewatch/internal/models"
)

// ErrNotFound is returned when a rule or alert id does not exist.
var ErrNotFound = errors.New("record not found")

type RuleFilter struct {
	CreatedByID *uint
	Active      *bool
}

type Rules interface {
	Create(rule *models.AlertRule) error
	Save(rule *models.AlertRule) error
	Delete(id uint) error
	Get(id uint) (*models.AlertRule, error)
	List(filter RuleFilter) ([]models.AlertRule, error)

	// ListEligible returns rules that are active and either unmuted or past
	// their mute expiry. A muted rule whose MutedUntil has passed is
	// eligible without an explicit unmute write.
	ListEligible(now time.Time) ([]models.AlertRule, error)

	// MarkChecked stamps last_checked_at; called for every attempted
	// evaluation, triggered or not.
	MarkChecked(id uint, now time.Time) error

	// MarkTriggered atomically increments trigger_count and stamps
	// last_triggered_at, safe under parallel evaluation.
	MarkTriggered(id uint, now time.Time) error

	SetMuted(id uint, muted bool, until *time.Time) error
}

type AlertFilter struct {
	Status   models.AlertStatus
	Severity models.Severity
	RuleID   uint
	From     *time.Time
	To       *time.Time
}

type Alerts interface {
	Create(alert *models.Alert) error
	Save(alert *models.Alert) error
	Get(id uint) (*models.Alert, error)
	List(filter AlertFilter) ([]models.Alert, error)
	Stats(now time.Time) (*models.AlertStats, error)
}
