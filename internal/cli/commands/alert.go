package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pulsewatch/internal/api/client"
	"github.com/spf13/cobra"
)

func NewAlertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alert",
		Short:   "Alert management commands",
		Aliases: []string{"alerts", "a"},
	}

	cmd.AddCommand(newAlertListCommand())
	cmd.AddCommand(newAlertAcknowledgeCommand())
	cmd.AddCommand(newAlertResolveCommand())
	cmd.AddCommand(newAlertStatsCommand())

	return cmd
}

func newAlertListCommand() *cobra.Command {
	var (
		status   string
		severity string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List alerts",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			alerts, err := c.ListAlerts(status, severity)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %v", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tRULE\tSEVERITY\tVALUE\tTHRESHOLD\tSTATUS\tTRIGGERED")

			for _, alert := range alerts {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%s\t%s\n",
					alert.ID,
					alert.RuleName,
					alert.Severity,
					alert.MetricValue,
					alert.Threshold,
					alert.Status,
					alert.TriggeredAt.Format(time.RFC3339),
				)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (TRIGGERED/ACKNOWLEDGED/RESOLVED)")
	cmd.Flags().StringVar(&severity, "severity", "", "Filter by severity (INFO/WARNING/CRITICAL)")

	return cmd
}

func newAlertAcknowledgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "acknowledge [alert_id]",
		Short:   "Acknowledge an alert",
		Aliases: []string{"ack"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRuleID(args[0])
			if err != nil {
				return fmt.Errorf("invalid alert id: %s", args[0])
			}

			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			if err := c.AcknowledgeAlert(id); err != nil {
				return fmt.Errorf("failed to acknowledge alert: %v", err)
			}

			fmt.Printf("Acknowledged alert %d\n", id)
			return nil
		},
	}
}

func newAlertResolveCommand() *cobra.Command {
	var resolution string

	cmd := &cobra.Command{
		Use:   "resolve [alert_id]",
		Short: "Resolve an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRuleID(args[0])
			if err != nil {
				return fmt.Errorf("invalid alert id: %s", args[0])
			}

			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			if err := c.ResolveAlert(id, resolution); err != nil {
				return fmt.Errorf("failed to resolve alert: %v", err)
			}

			fmt.Printf("Resolved alert %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", "", "Resolution note")

	return cmd
}

func newAlertStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show alert statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %v", err)
			}

			stats, err := c.GetAlertStats()
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %v", err)
			}

			fmt.Printf("Total:        %d\n", stats.TotalAlerts)
			fmt.Printf("Triggered:    %d\n", stats.TriggeredAlerts)
			fmt.Printf("Acknowledged: %d\n", stats.AcknowledgedAlerts)
			fmt.Printf("Resolved:     %d\n", stats.ResolvedAlerts)
			fmt.Printf("Last 24h:     %d\n", stats.AlertsLast24Hours)
			for _, bucket := range stats.AlertsBySeverity {
				fmt.Printf("  %s: %d\n", bucket.Severity, bucket.Count)
			}
			return nil
		},
	}
}
