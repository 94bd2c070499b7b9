package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avdeenko/carrymon/internal/contracts"
)

// FutureSpreadRepository implements contracts.FutureSpreadRepository on
// PostgreSQL. Expiration filters match the far leg, the convention every
// consumer of this table uses.
type FutureSpreadRepository struct {
	pool *pgxpool.Pool
}

// NewFutureSpreadRepository creates a new future/future spread repository.
func NewFutureSpreadRepository(pool *pgxpool.Pool) *FutureSpreadRepository {
	return &FutureSpreadRepository{pool: pool}
}

// Append persists one record and fills in its store-assigned id.
func (r *FutureSpreadRepository) Append(ctx context.Context, rec *contracts.FutureFutureSpread) error {
	query := `
		INSERT INTO future_spreads (
			capture_time, near_future_code, far_future_code,
			spread_bid, spread_offer,
			spread_bid_annualized_pct, spread_offer_annualized_pct,
			far_days_to_expiration
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		rec.CaptureTime, rec.NearCode, rec.FarCode,
		rec.SpreadBid, rec.SpreadOffer,
		rec.SpreadBidYieldPct, rec.SpreadOfferYieldPct,
		rec.FarExpDays,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("append future spread %s/%s: %w", rec.NearCode, rec.FarCode, err)
	}
	return nil
}

// Scan returns records in insertion order with the filter pushed down.
func (r *FutureSpreadRepository) Scan(ctx context.Context, filter contracts.ScanFilter) ([]*contracts.FutureFutureSpread, error) {
	query := `
		SELECT id, capture_time, near_future_code, far_future_code,
			spread_bid, spread_offer,
			spread_bid_annualized_pct, spread_offer_annualized_pct,
			far_days_to_expiration
		FROM future_spreads
		WHERE 1=1
	`
	nearCol := "near_future_code"
	query, args := appendFilter(query, nil, filter, "far_future_code", &nearCol)
	query += " ORDER BY capture_time, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan future spreads: %w", err)
	}
	defer rows.Close()

	var records []*contracts.FutureFutureSpread
	for rows.Next() {
		var rec contracts.FutureFutureSpread
		if err := rows.Scan(
			&rec.ID, &rec.CaptureTime, &rec.NearCode, &rec.FarCode,
			&rec.SpreadBid, &rec.SpreadOffer,
			&rec.SpreadBidYieldPct, &rec.SpreadOfferYieldPct,
			&rec.FarExpDays,
		); err != nil {
			return nil, fmt.Errorf("scan future spreads: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan future spreads: %w", err)
	}
	return records, nil
}

// Expirations returns the distinct far-leg expiration suffixes.
func (r *FutureSpreadRepository) Expirations(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT far_future_code FROM future_spreads ORDER BY far_future_code`)
	if err != nil {
		return nil, fmt.Errorf("distinct far future codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("distinct far future codes: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expirationSuffixes(codes), nil
}
