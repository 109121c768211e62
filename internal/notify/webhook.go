package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pulsewatch/internal/models"
)

// webhookEnvelope is the wire shape posted to a rule's webhook URL. Field
// names are part of the contract with downstream consumers.
type webhookEnvelope struct {
	Type  string       `json:"type"`
	Alert webhookAlert `json:"alert"`
}

type webhookAlert struct {
	ID          uint      `json:"id"`
	RuleName    string    `json:"ruleName"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	MetricValue float64   `json:"metricValue"`
	Threshold   float64   `json:"threshold"`
	TriggeredAt time.Time `json:"triggeredAt"`
}

// WebhookChannel POSTs a JSON envelope to the rule's webhook URL.
type WebhookChannel struct {
	client *http.Client
}

func NewWebhookChannel(timeout time.Duration) *WebhookChannel {
	return &WebhookChannel{client: &http.Client{Timeout: timeout}}
}

func (c *WebhookChannel) Key() string { return "webhook" }

func (c *WebhookChannel) Send(ctx context.Context, alert *models.Alert, rule *models.AlertRule) []Result {
	if rule.WebhookURL == "" {
		return nil
	}

	outcome := OutcomeSent
	if err := c.post(ctx, rule.WebhookURL, alert, rule); err != nil {
		log.Printf("Failed to deliver alert %d webhook: %v", alert.ID, err)
		outcome = OutcomeFailed
	}
	return []Result{{Key: "webhook", Outcome: outcome}}
}

func (c *WebhookChannel) post(ctx context.Context, url string, alert *models.Alert, rule *models.AlertRule) error {
	envelope := webhookEnvelope{
		Type: "alert",
		Alert: webhookAlert{
			ID:          alert.ID,
			RuleName:    rule.Name,
			Description: rule.Description,
			Severity:    string(rule.Severity),
			MetricValue: alert.MetricValue,
			Threshold:   alert.Threshold,
			TriggeredAt: alert.TriggeredAt,
		},
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
