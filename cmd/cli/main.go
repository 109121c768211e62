package main

import (
	"fmt"
	"os"

	"github.com/pulsewatch/internal/cli/commands"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pulsewatch",
	Short: "PulseWatch CLI - business metric alerting",
	Long: `PulseWatch CLI is a command-line tool for managing metric alert rules
and the alerts they produce: listing, creating, muting rules and
acknowledging or resolving fired alerts.`,
}

func init() {
	rootCmd.AddCommand(commands.NewRuleCommand())
	rootCmd.AddCommand(commands.NewAlertCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
