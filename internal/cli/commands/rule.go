package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/pulsewatch/internal/api/client"
	"github.com/pulsewatch/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/datatypes"
)

func NewRuleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rule",
		Short:   "Alert rule management commands",
		Aliases: []string{"rules", "r"},
	}

	cmd.AddCommand(newRuleListCommand())
	cmd.AddCommand(newRuleCreateCommand())
	cmd.AddCommand(newRuleDeleteCommand())
	cmd.AddCommand(newRuleMuteCommand())
	cmd.AddCommand(newRuleUnmuteCommand())

	return cmd
}

func newRuleListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List alert rules",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			rules, err := c.ListRules()
			if err != nil {
				return fmt.Errorf("failed to list rules: %v", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMETRIC\tCONDITION\tTHRESHOLD\tWINDOW\tSEVERITY\tACTIVE\tMUTED\tTRIGGERS")

			for _, rule := range rules {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%dm\t%s\t%t\t%t\t%d\n",
					rule.ID,
					rule.Name,
					rule.MetricType,
					rule.Condition,
					rule.Threshold,
					rule.TimeWindow,
					rule.Severity,
					rule.IsActive,
					rule.IsMuted,
					rule.TriggerCount,
				)
			}

			return w.Flush()
		},
	}
}

func newRuleCreateCommand() *cobra.Command {
	var (
		name        string
		description string
		metricType  string
		condition   string
		threshold   float64
		compare     float64
		window      int
		aggregation string
		severity    string
		channels    []string
		recipients  []string
		webhookURL  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an alert rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			rule := &models.AlertRule{
				Name:        name,
				Description: description,
				MetricType:  metricType,
				Condition:   models.Condition(condition),
				Threshold:   threshold,
				TimeWindow:  window,
				Aggregation: models.Aggregation(aggregation),
				Severity:    models.Severity(severity),
				Channels:    datatypes.NewJSONSlice(channels),
				Recipients:  datatypes.NewJSONSlice(recipients),
				WebhookURL:  webhookURL,
				IsActive:    true,
			}
			if cmd.Flags().Changed("compare-value") {
				rule.CompareValue = &compare
			}

			created, err := c.CreateRule(rule)
			if err != nil {
				return fmt.Errorf("failed to create rule: %v", err)
			}

			fmt.Printf("Created rule %d (%s)\n", created.ID, created.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Rule name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Rule description")
	cmd.Flags().StringVar(&metricType, "metric", "", "Metric type, e.g. failed_payments (required)")
	cmd.Flags().StringVar(&condition, "condition", "GREATER_THAN", "Condition (GREATER_THAN, LESS_THAN, ...)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Threshold value")
	cmd.Flags().Float64Var(&compare, "compare-value", 0, "Baseline for percentage conditions")
	cmd.Flags().IntVar(&window, "window", 60, "Evaluation window in minutes")
	cmd.Flags().StringVar(&aggregation, "aggregation", "COUNT", "Aggregation (SUM, AVG, COUNT, MIN, MAX, DISTINCT_COUNT)")
	cmd.Flags().StringVar(&severity, "severity", "WARNING", "Severity (INFO, WARNING, CRITICAL)")
	cmd.Flags().StringSliceVar(&channels, "channel", nil, "Notification channels (email, webhook, slack)")
	cmd.Flags().StringSliceVar(&recipients, "recipient", nil, "Email recipients")
	cmd.Flags().StringVar(&webhookURL, "webhook-url", "", "Webhook URL")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("metric")

	return cmd
}

func newRuleDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [rule_id]",
		Short: "Delete an alert rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			if err := c.DeleteRule(id); err != nil {
				return fmt.Errorf("failed to delete rule: %v", err)
			}

			fmt.Printf("Deleted rule %d\n", id)
			return nil
		},
	}
}

func newRuleMuteCommand() *cobra.Command {
	var durationMinutes int

	cmd := &cobra.Command{
		Use:   "mute [rule_id]",
		Short: "Mute a rule, optionally for a duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			var duration *int
			if cmd.Flags().Changed("for") {
				duration = &durationMinutes
			}

			if err := c.MuteRule(id, duration); err != nil {
				return fmt.Errorf("failed to mute rule: %v", err)
			}

			if duration != nil {
				fmt.Printf("Muted rule %d for %d minutes\n", id, *duration)
			} else {
				fmt.Printf("Muted rule %d until unmuted\n", id)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&durationMinutes, "for", 0, "Mute duration in minutes (omit for indefinite)")

	return cmd
}

func newRuleUnmuteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unmute [rule_id]",
		Short: "Unmute a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			if err := c.UnmuteRule(id); err != nil {
				return fmt.Errorf("failed to unmute rule: %v", err)
			}

			fmt.Printf("Unmuted rule %d\n", id)
			return nil
		},
	}
}

func parseRuleID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid rule id: %s", arg)
	}
	return uint(id), nil
}
