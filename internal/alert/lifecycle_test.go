package alert

import (
	"context"
	"testing"
	"time"

	"github.com/pulsewatch/internal/models"
	"github.com/pulsewatch/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// stubDispatcher returns a canned status map and records what it was asked
// to send.
type stubDispatcher struct {
	status     map[string]string
	dispatched []*models.Alert
}

func (d *stubDispatcher) Dispatch(_ context.Context, alert *models.Alert, _ *models.AlertRule) map[string]string {
	d.dispatched = append(d.dispatched, alert)
	if d.status == nil {
		return map[string]string{}
	}
	return d.status
}

func newTestLifecycle(t *testing.T, dispatcher Dispatcher) (*Lifecycle, *store.MemoryRules, *store.MemoryAlerts) {
	t.Helper()
	rules := store.NewMemoryRules()
	alerts := store.NewMemoryAlerts()
	return NewLifecycle(rules, alerts, dispatcher), rules, alerts
}

func seedRule(t *testing.T, rules *store.MemoryRules) *models.AlertRule {
	t.Helper()
	rule := &models.AlertRule{
		Name:        "Failed Payments Spike",
		MetricType:  models.MetricFailedPayments,
		Condition:   models.ConditionGreaterThan,
		Threshold:   5,
		TimeWindow:  60,
		Aggregation: models.AggregationCount,
		Severity:    models.SeverityCritical,
		Channels:    datatypes.NewJSONSlice([]string{"webhook"}),
		IsActive:    true,
	}
	require.NoError(t, rules.Create(rule))
	return rule
}

func TestTriggerCreatesAlertAndBookkeeping(t *testing.T) {
	dispatcher := &stubDispatcher{status: map[string]string{"webhook": "sent"}}
	lifecycle, rules, alerts := newTestLifecycle(t, dispatcher)
	rule := seedRule(t, rules)

	alert, err := lifecycle.Trigger(context.Background(), rule, 7)
	require.NoError(t, err)

	assert.Equal(t, models.AlertStatusTriggered, alert.Status)
	assert.Equal(t, 7.0, alert.MetricValue)
	assert.Equal(t, 5.0, alert.Threshold)
	assert.Equal(t, rule.ID, alert.RuleID)
	assert.NotNil(t, alert.NotifiedAt)
	assert.Equal(t, "sent", alert.NotificationStatus["webhook"])

	// rule bookkeeping updated
	updated, err := rules.Get(rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TriggerCount)
	assert.NotNil(t, updated.LastTriggeredAt)

	// alert persisted with its status map
	stored, err := alerts.Get(alert.ID)
	require.NoError(t, err)
	assert.Equal(t, "sent", stored.NotificationStatus["webhook"])
	assert.Len(t, dispatcher.dispatched, 1)
}

func TestTriggerSurvivesTotalNotificationFailure(t *testing.T) {
	dispatcher := &stubDispatcher{status: map[string]string{"webhook": "failed", "email:ops@example.com": "failed"}}
	lifecycle, rules, alerts := newTestLifecycle(t, dispatcher)
	rule := seedRule(t, rules)

	alert, err := lifecycle.Trigger(context.Background(), rule, 9)
	require.NoError(t, err)

	stored, err := alerts.Get(alert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusTriggered, stored.Status)
	assert.Equal(t, "failed", stored.NotificationStatus["webhook"])
	assert.Equal(t, "failed", stored.NotificationStatus["email:ops@example.com"])
}

func TestAcknowledgeThenResolve(t *testing.T) {
	lifecycle, rules, _ := newTestLifecycle(t, &stubDispatcher{})
	rule := seedRule(t, rules)

	alert, err := lifecycle.Trigger(context.Background(), rule, 7)
	require.NoError(t, err)

	acked, err := lifecycle.Acknowledge(alert.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusAcknowledged, acked.Status)
	require.NotNil(t, acked.AcknowledgedByID)
	assert.Equal(t, uint(42), *acked.AcknowledgedByID)
	assert.NotNil(t, acked.AcknowledgedAt)

	resolved, err := lifecycle.Resolve(alert.ID, "payment provider recovered")
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, resolved.Status)
	assert.Equal(t, "payment provider recovered", resolved.Resolution)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestResolveDirectlyFromTriggered(t *testing.T) {
	lifecycle, rules, _ := newTestLifecycle(t, &stubDispatcher{})
	rule := seedRule(t, rules)

	alert, err := lifecycle.Trigger(context.Background(), rule, 7)
	require.NoError(t, err)

	resolved, err := lifecycle.Resolve(alert.ID, "false alarm")
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, resolved.Status)
}

func TestIllegalTransitions(t *testing.T) {
	lifecycle, rules, alerts := newTestLifecycle(t, &stubDispatcher{})
	rule := seedRule(t, rules)

	alert, err := lifecycle.Trigger(context.Background(), rule, 7)
	require.NoError(t, err)

	_, err = lifecycle.Resolve(alert.ID, "done")
	require.NoError(t, err)

	// acknowledge a resolved alert
	_, err = lifecycle.Acknowledge(alert.ID, 42)
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.AlertStatusResolved, stateErr.From)

	// resolve it again
	_, err = lifecycle.Resolve(alert.ID, "again")
	require.ErrorAs(t, err, &stateErr)

	// status never moved backward
	stored, err := alerts.Get(alert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, stored.Status)
}

func TestAcknowledgeTwiceFails(t *testing.T) {
	lifecycle, rules, _ := newTestLifecycle(t, &stubDispatcher{})
	rule := seedRule(t, rules)

	alert, err := lifecycle.Trigger(context.Background(), rule, 7)
	require.NoError(t, err)

	_, err = lifecycle.Acknowledge(alert.ID, 1)
	require.NoError(t, err)

	_, err = lifecycle.Acknowledge(alert.ID, 2)
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestLifecycleUnknownAlert(t *testing.T) {
	lifecycle, _, _ := newTestLifecycle(t, &stubDispatcher{})

	_, err := lifecycle.Acknowledge(12345, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = lifecycle.Resolve(12345, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFreshFiringCreatesNewAlert(t *testing.T) {
	lifecycle, rules, alerts := newTestLifecycle(t, &stubDispatcher{})
	rule := seedRule(t, rules)

	first, err := lifecycle.Trigger(context.Background(), rule, 7)
	require.NoError(t, err)
	_, err = lifecycle.Resolve(first.ID, "fixed")
	require.NoError(t, err)

	second, err := lifecycle.Trigger(context.Background(), rule, 8)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	all, err := alerts.List(store.AlertFilter{RuleID: rule.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	stored, err := alerts.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, stored.Status)
}

func TestTriggerTimestampsUseClock(t *testing.T) {
	lifecycle, rules, _ := newTestLifecycle(t, &stubDispatcher{})
	rule := seedRule(t, rules)

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lifecycle.now = func() time.Time { return fixed }

	alert, err := lifecycle.Trigger(context.Background(), rule, 7)
	require.NoError(t, err)
	assert.Equal(t, fixed, alert.TriggeredAt)
}
