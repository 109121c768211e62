package alert

import (
	"context"
	"log"
	"time"

	"github.com/pulsewatch/internal/models"
	"github.com/pulsewatch/internal/store"
	"gorm.io/datatypes"
)

// Dispatcher fans a freshly triggered alert out to the rule's channels. It
// never fails: per-channel outcomes come back in the status map.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert *models.Alert, rule *models.AlertRule) map[string]string
}

// Lifecycle owns alert creation and the TRIGGERED -> ACKNOWLEDGED ->
// RESOLVED state machine.
type Lifecycle struct {
	rules      store.Rules
	alerts     store.Alerts
	dispatcher Dispatcher
	now        func() time.Time
}

func NewLifecycle(rules store.Rules, alerts store.Alerts, dispatcher Dispatcher) *Lifecycle {
	return &Lifecycle{
		rules:      rules,
		alerts:     alerts,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Trigger materializes a new alert for a positive rule evaluation,
// bumps the rule's trigger bookkeeping, and dispatches notifications.
// The alert row is committed before any notification is attempted, so a
// failing channel can never roll back alert creation.
func (l *Lifecycle) Trigger(ctx context.Context, rule *models.AlertRule, metricValue float64) (*models.Alert, error) {
	now := l.now()
	alert := &models.Alert{
		RuleID:      rule.ID,
		RuleName:    rule.Name,
		Description: rule.Description,
		Severity:    rule.Severity,
		MetricValue: metricValue,
		Threshold:   rule.Threshold,
		Status:      models.AlertStatusTriggered,
		TriggeredAt: now,
	}

	if err := l.alerts.Create(alert); err != nil {
		return nil, err
	}

	if err := l.rules.MarkTriggered(rule.ID, now); err != nil {
		log.Printf("Failed to update trigger bookkeeping for rule %d: %v", rule.ID, err)
	}

	status := l.dispatcher.Dispatch(ctx, alert, rule)

	notified := l.now()
	alert.NotifiedAt = &notified
	alert.NotificationStatus = make(datatypes.JSONMap, len(status))
	for key, outcome := range status {
		alert.NotificationStatus[key] = outcome
	}
	if err := l.alerts.Save(alert); err != nil {
		// The alert row already exists; losing the status map is not
		// worth failing the trigger over.
		log.Printf("Failed to persist notification status for alert %d: %v", alert.ID, err)
	}

	return alert, nil
}

// Acknowledge moves a TRIGGERED alert to ACKNOWLEDGED.
func (l *Lifecycle) Acknowledge(alertID uint, userID uint) (*models.Alert, error) {
	alert, err := l.alerts.Get(alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status != models.AlertStatusTriggered {
		return nil, &InvalidStateError{AlertID: alertID, From: alert.Status, Op: "acknowledge"}
	}

	now := l.now()
	alert.Status = models.AlertStatusAcknowledged
	alert.AcknowledgedByID = &userID
	alert.AcknowledgedAt = &now

	if err := l.alerts.Save(alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Resolve moves a TRIGGERED or ACKNOWLEDGED alert to RESOLVED. RESOLVED is
// terminal; resolved alerts are never reopened, a fresh firing creates a
// new row instead.
func (l *Lifecycle) Resolve(alertID uint, resolution string) (*models.Alert, error) {
	alert, err := l.alerts.Get(alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status == models.AlertStatusResolved {
		return nil, &InvalidStateError{AlertID: alertID, From: alert.Status, Op: "resolve"}
	}

	now := l.now()
	alert.Status = models.AlertStatusResolved
	alert.Resolution = resolution
	alert.ResolvedAt = &now

	if err := l.alerts.Save(alert); err != nil {
		return nil, err
	}
	return alert, nil
}
