package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "carrymon",
	Short: "Carry spread monitor for shares and their listed futures",
	Long: `carrymon tracks carry spreads between shares and their listed futures
and between futures on the same underlying, storing annualized yield
snapshots as an append-only time series.

Usage:
  go run ./cmd/carrymon [command]

Examples:
  go run ./cmd/carrymon migrate
  go run ./cmd/carrymon capture
  go run ./cmd/carrymon scheduler
  go run ./cmd/carrymon api
  go run ./cmd/carrymon report`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}
