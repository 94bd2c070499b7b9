package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avdeenko/carrymon/internal/capture"
	"github.com/avdeenko/carrymon/internal/quote"
	"github.com/avdeenko/carrymon/internal/store"
	"github.com/avdeenko/carrymon/internal/universe"
	"github.com/avdeenko/carrymon/pkg/config"
	"github.com/avdeenko/carrymon/pkg/database"
	"github.com/avdeenko/carrymon/pkg/logger"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Run one capture pass over the configured universe",
	Long: `Fetches bid/offer quotes for every share and future in the universe
file, computes share/future and future/future carry spreads and appends the
snapshots to the store.

Example:
  go run ./cmd/carrymon capture
  go run ./cmd/carrymon capture --workers 4`,
	RunE: runCapture,
}

var captureWorkers int

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().IntVar(&captureWorkers, "workers", 0, "concurrent universe entries (default from config)")
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	entries, err := universe.Load(cfg.Universe.Path, log)
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}

	workers := cfg.Capture.Workers
	if captureWorkers > 0 {
		workers = captureWorkers
	}

	capturer := capture.New(
		quote.NewClient(cfg, log),
		store.NewSpreadRepository(db.Pool),
		store.NewFutureSpreadRepository(db.Pool),
		log,
	)

	result, err := capturer.Run(cmd.Context(), entries, workers)
	if err != nil {
		return fmt.Errorf("capture pass: %w", err)
	}

	fmt.Printf("Capture pass done: %d spreads, %d future spreads (%d quote failures, %d invalid pairs)\n",
		result.SpreadRecords, result.FutureSpreadAdded, result.QuoteFailures, result.InvalidPairs)
	return nil
}

// migrateCmd creates the record tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the record tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := store.Migrate(context.Background(), db.Pool); err != nil {
			return err
		}

		fmt.Println("Tables created")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
