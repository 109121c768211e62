package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pulsewatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeChannel struct {
	key     string
	results []Result
	panics  bool
	sends   int
}

func (c *fakeChannel) Key() string { return c.key }

func (c *fakeChannel) Send(_ context.Context, _ *models.Alert, _ *models.AlertRule) []Result {
	c.sends++
	if c.panics {
		panic("transport blew up")
	}
	return c.results
}

func testAlert() (*models.Alert, *models.AlertRule) {
	rule := &models.AlertRule{
		Name:        "Failed Payments Spike",
		Description: "too many failed payments",
		Severity:    models.SeverityCritical,
		Threshold:   5,
		Channels:    datatypes.NewJSONSlice([]string{"webhook", "email"}),
		Recipients:  datatypes.NewJSONSlice([]string{"ops@example.com"}),
	}
	rule.ID = 3
	alert := &models.Alert{
		RuleID:      rule.ID,
		RuleName:    rule.Name,
		Severity:    rule.Severity,
		MetricValue: 7,
		Threshold:   5,
		Status:      models.AlertStatusTriggered,
		TriggeredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	alert.ID = 11
	return alert, rule
}

func TestDispatchIsolatesFailures(t *testing.T) {
	alert, rule := testAlert()

	good := &fakeChannel{key: "webhook", results: []Result{{Key: "webhook", Outcome: OutcomeSent}}}
	bad := &fakeChannel{key: "email", results: []Result{{Key: "email:ops@example.com", Outcome: OutcomeFailed}}}

	dispatcher := NewDispatcher(good, bad)
	status := dispatcher.Dispatch(context.Background(), alert, rule)

	assert.Equal(t, map[string]string{
		"webhook":               OutcomeSent,
		"email:ops@example.com": OutcomeFailed,
	}, status)
	assert.Equal(t, 1, good.sends)
	assert.Equal(t, 1, bad.sends)
}

func TestDispatchRecoversPanickingChannel(t *testing.T) {
	alert, rule := testAlert()

	good := &fakeChannel{key: "webhook", results: []Result{{Key: "webhook", Outcome: OutcomeSent}}}
	panicky := &fakeChannel{key: "email", panics: true}

	dispatcher := NewDispatcher(good, panicky)
	status := dispatcher.Dispatch(context.Background(), alert, rule)

	assert.Equal(t, OutcomeSent, status["webhook"])
	assert.Equal(t, OutcomeFailed, status["email"])
}

func TestDispatchSkipsUnknownChannels(t *testing.T) {
	alert, rule := testAlert()
	rule.Channels = datatypes.NewJSONSlice([]string{"pager", "webhook"})

	good := &fakeChannel{key: "webhook", results: []Result{{Key: "webhook", Outcome: OutcomeSent}}}

	dispatcher := NewDispatcher(good)
	status := dispatcher.Dispatch(context.Background(), alert, rule)

	assert.Equal(t, map[string]string{"webhook": OutcomeSent}, status)
}

func TestDispatchOnlyConfiguredChannels(t *testing.T) {
	alert, rule := testAlert()
	rule.Channels = datatypes.NewJSONSlice([]string{"email"})

	webhook := &fakeChannel{key: "webhook", results: []Result{{Key: "webhook", Outcome: OutcomeSent}}}
	email := &fakeChannel{key: "email", results: []Result{{Key: "email:ops@example.com", Outcome: OutcomeSent}}}

	dispatcher := NewDispatcher(webhook, email)
	dispatcher.Dispatch(context.Background(), alert, rule)

	assert.Zero(t, webhook.sends)
	assert.Equal(t, 1, email.sends)
}

func TestWebhookChannelPostsEnvelope(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	alert, rule := testAlert()
	rule.WebhookURL = server.URL

	channel := NewWebhookChannel(5 * time.Second)
	results := channel.Send(context.Background(), alert, rule)

	require.Equal(t, []Result{{Key: "webhook", Outcome: OutcomeSent}}, results)
	assert.Equal(t, "alert", body["type"])
	payload := body["alert"].(map[string]interface{})
	assert.Equal(t, float64(11), payload["id"])
	assert.Equal(t, "Failed Payments Spike", payload["ruleName"])
	assert.Equal(t, "too many failed payments", payload["description"])
	assert.Equal(t, "CRITICAL", payload["severity"])
	assert.Equal(t, 7.0, payload["metricValue"])
	assert.Equal(t, 5.0, payload["threshold"])
	assert.Equal(t, "2026-03-01T12:00:00Z", payload["triggeredAt"])
}

func TestWebhookChannelServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	alert, rule := testAlert()
	rule.WebhookURL = server.URL

	channel := NewWebhookChannel(5 * time.Second)
	results := channel.Send(context.Background(), alert, rule)

	assert.Equal(t, []Result{{Key: "webhook", Outcome: OutcomeFailed}}, results)
}

func TestWebhookChannelWithoutURL(t *testing.T) {
	alert, rule := testAlert()
	rule.WebhookURL = ""

	channel := NewWebhookChannel(5 * time.Second)
	assert.Nil(t, channel.Send(context.Background(), alert, rule))
}

func TestEmailBodySurfacesAlertFields(t *testing.T) {
	alert, rule := testAlert()
	body := emailBody(alert, rule)

	assert.Contains(t, body, "Failed Payments Spike")
	assert.Contains(t, body, "too many failed payments")
	assert.Contains(t, body, "7.00")
	assert.Contains(t, body, "5.00")
	assert.Contains(t, body, "2026-03-01T12:00:00Z")
}

func TestEmailBodyOmitsEmptyDescription(t *testing.T) {
	alert, rule := testAlert()
	rule.Description = ""
	body := emailBody(alert, rule)

	assert.NotContains(t, body, "Description:")
}
