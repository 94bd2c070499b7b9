// Package store persists spread records in PostgreSQL. Both tables are
// append-only time series: inserts only, no updates or deletes, sequence ids
// assigned by the database.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the record tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS spreads (
			id BIGSERIAL PRIMARY KEY,
			capture_time TIMESTAMPTZ NOT NULL,
			share_code TEXT NOT NULL,
			future_code TEXT NOT NULL,
			bid_share DOUBLE PRECISION NOT NULL,
			offer_share DOUBLE PRECISION NOT NULL,
			bid_future DOUBLE PRECISION NOT NULL,
			offer_future DOUBLE PRECISION NOT NULL,
			lot_size_future DOUBLE PRECISION NOT NULL,
			days_to_expiration INTEGER NOT NULL,
			sell_spread_annualized_pct DOUBLE PRECISION NOT NULL,
			buy_spread_annualized_pct DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_spreads_key_time
			ON spreads (share_code, future_code, capture_time)`,
		`CREATE TABLE IF NOT EXISTS future_spreads (
			id BIGSERIAL PRIMARY KEY,
			capture_time TIMESTAMPTZ NOT NULL,
			near_future_code TEXT NOT NULL,
			far_future_code TEXT NOT NULL,
			spread_bid DOUBLE PRECISION NOT NULL,
			spread_offer DOUBLE PRECISION NOT NULL,
			spread_bid_annualized_pct DOUBLE PRECISION NOT NULL,
			spread_offer_annualized_pct DOUBLE PRECISION NOT NULL,
			far_days_to_expiration INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_future_spreads_key_time
			ON future_spreads (near_future_code, far_future_code, capture_time)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
