package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pulsewatch/internal/models"
	"gopkg.in/gomail.v2"
)

// EmailChannel delivers alerts over SMTP, one message per recipient so a
// bad address only fails its own entry in the status map.
type EmailChannel struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailChannel(host string, port int, from, password string) *EmailChannel {
	return &EmailChannel{
		dialer: gomail.NewDialer(host, port, from, password),
		from:   from,
	}
}

func (c *EmailChannel) Key() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, alert *models.Alert, rule *models.AlertRule) []Result {
	results := make([]Result, 0, len(rule.Recipients))
	for _, recipient := range rule.Recipients {
		outcome := OutcomeSent
		if err := c.sendTo(recipient, alert, rule); err != nil {
			log.Printf("Failed to email alert %d to %s: %v", alert.ID, recipient, err)
			outcome = OutcomeFailed
		}
		results = append(results, Result{Key: "email:" + recipient, Outcome: outcome})
	}
	return results
}

func (c *EmailChannel) sendTo(recipient string, alert *models.Alert, rule *models.AlertRule) error {
	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", fmt.Sprintf("[%s] Alert: %s", rule.Severity, rule.Name))
	m.SetBody("text/plain", emailBody(alert, rule))
	return c.dialer.DialAndSend(m)
}

func emailBody(alert *models.Alert, rule *models.AlertRule) string {
	body := fmt.Sprintf("Rule: %s\n", rule.Name)
	if rule.Description != "" {
		body += fmt.Sprintf("Description: %s\n", rule.Description)
	}
	body += fmt.Sprintf("Metric Value: %.2f\nThreshold: %.2f\nTriggered At: %s\n",
		alert.MetricValue,
		alert.Threshold,
		alert.TriggeredAt.Format(time.RFC3339))
	return body
}
