package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avdeenko/carrymon/internal/api"
	"github.com/avdeenko/carrymon/internal/api/handlers"
	"github.com/avdeenko/carrymon/internal/store"
	"github.com/avdeenko/carrymon/pkg/cache"
	"github.com/avdeenko/carrymon/pkg/config"
	"github.com/avdeenko/carrymon/pkg/database"
	"github.com/avdeenko/carrymon/pkg/logger"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the query API server",
	Long: `Serves the read-only query surface over the record tables.

Endpoints:
  GET /health
  GET /api/spreads/latest    - latest share/future view (filter/sort/page)
  GET /api/spreads/history   - raw share/future time series
  GET /api/spreads/top       - top-5 by sell-side yield
  GET /api/futures/latest    - latest future/future view
  GET /api/futures/history   - raw future/future time series
  GET /api/futures/top       - top-5 by bid-side yield
  GET /api/expirations       - distinct expiration suffixes per table
  GET /api/futures/codes     - distinct future codes

Example:
  go run ./cmd/carrymon api
  go run ./cmd/carrymon api --port 8085`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	viewCache, err := cache.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer viewCache.Close()

	spreadRepo := store.NewSpreadRepository(db.Pool)
	futureRepo := store.NewFutureSpreadRepository(db.Pool)

	router := api.NewRouter(
		handlers.NewSpreadHandler(spreadRepo, viewCache, log),
		handlers.NewFutureSpreadHandler(futureRepo, viewCache, log),
		handlers.NewMetaHandler(spreadRepo, futureRepo, log),
		log,
	)

	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
