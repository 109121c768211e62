package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pulsewatch/internal/models"
	"github.com/slack-go/slack"
)

// SlackChannel posts alerts to a Slack channel as colored attachments.
type SlackChannel struct {
	client  *slack.Client
	channel string
}

func NewSlackChannel(token, channel string) *SlackChannel {
	return &SlackChannel{
		client:  slack.New(token),
		channel: channel,
	}
}

func (c *SlackChannel) Key() string { return "slack" }

func (c *SlackChannel) Send(ctx context.Context, alert *models.Alert, rule *models.AlertRule) []Result {
	attachment := slack.Attachment{
		Color: severityColor(rule.Severity),
		Title: fmt.Sprintf("Alert: %s", rule.Name),
		Text:  rule.Description,
		Fields: []slack.AttachmentField{
			{
				Title: "Severity",
				Value: string(rule.Severity),
				Short: true,
			},
			{
				Title: "Metric",
				Value: rule.MetricType,
				Short: true,
			},
			{
				Title: "Value",
				Value: fmt.Sprintf("%.2f", alert.MetricValue),
				Short: true,
			},
			{
				Title: "Threshold",
				Value: fmt.Sprintf("%.2f", alert.Threshold),
				Short: true,
			},
			{
				Title: "Triggered",
				Value: alert.TriggeredAt.Format(time.RFC3339),
				Short: true,
			},
		},
		Footer: "PulseWatch Alert",
	}

	outcome := OutcomeSent
	_, _, err := c.client.PostMessageContext(ctx, c.channel, slack.MsgOptionAttachments(attachment))
	if err != nil {
		log.Printf("Failed to post alert %d to slack: %v", alert.ID, err)
		outcome = OutcomeFailed
	}
	return []Result{{Key: "slack", Outcome: outcome}}
}

func severityColor(severity models.Severity) string {
	switch severity {
	case models.SeverityCritical:
		return "#FF0000"
	case models.SeverityWarning:
		return "#FFA500"
	case models.SeverityInfo:
		return "#36a64f"
	default:
		return "#808080"
	}
}
