// Package cli wires the cobra command tree.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "dynobench",
	Short:   "DynamoDB range query latency benchmark",
	Version: version,
	Long: `Dynobench drives repeated DynamoDB range queries against a table at a
controlled request rate and bounded concurrency, measures per-query
latency, and reports percentile latencies and achieved throughput.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(runCmd)
}
