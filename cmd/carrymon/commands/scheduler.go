package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avdeenko/carrymon/internal/capture"
	"github.com/avdeenko/carrymon/internal/quote"
	"github.com/avdeenko/carrymon/internal/scheduler"
	"github.com/avdeenko/carrymon/internal/store"
	"github.com/avdeenko/carrymon/internal/universe"
	"github.com/avdeenko/carrymon/pkg/config"
	"github.com/avdeenko/carrymon/pkg/database"
	"github.com/avdeenko/carrymon/pkg/logger"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run capture passes on a cron schedule",
	Long: `Runs the capture pass periodically per CAPTURE_SCHEDULE (cron
expression with a seconds field, default every 5 minutes).

Example:
  go run ./cmd/carrymon scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
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

	capturer := capture.New(
		quote.NewClient(cfg, log),
		store.NewSpreadRepository(db.Pool),
		store.NewFutureSpreadRepository(db.Pool),
		log,
	)

	sched := scheduler.New(log)
	job := scheduler.NewCaptureJob(capturer, entries, cfg.Capture.Schedule, cfg.Capture.Workers)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add capture job: %w", err)
	}

	sched.Start()
	fmt.Printf("Scheduler running (schedule %q). Press Ctrl+C to stop\n", cfg.Capture.Schedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
