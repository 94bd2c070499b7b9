package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avdeenko/carrymon/internal/contracts"
)

// SpreadRepository implements contracts.SpreadRepository on PostgreSQL.
type SpreadRepository struct {
	pool *pgxpool.Pool
}

// NewSpreadRepository creates a new share/future spread repository.
func NewSpreadRepository(pool *pgxpool.Pool) *SpreadRepository {
	return &SpreadRepository{pool: pool}
}

// Append persists one record and fills in its store-assigned id.
func (r *SpreadRepository) Append(ctx context.Context, rec *contracts.ShareFutureSpread) error {
	query := `
		INSERT INTO spreads (
			capture_time, share_code, future_code,
			bid_share, offer_share, bid_future, offer_future,
			lot_size_future, days_to_expiration,
			sell_spread_annualized_pct, buy_spread_annualized_pct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		rec.CaptureTime, rec.ShareCode, rec.FutureCode,
		rec.BidShare, rec.OfferShare, rec.BidFuture, rec.OfferFuture,
		rec.LotSize, rec.ExpDays,
		rec.SellYieldPct, rec.BuyYieldPct,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("append spread %s/%s: %w", rec.ShareCode, rec.FutureCode, err)
	}
	return nil
}

// Scan returns records in insertion order with the filter pushed down.
func (r *SpreadRepository) Scan(ctx context.Context, filter contracts.ScanFilter) ([]*contracts.ShareFutureSpread, error) {
	query := `
		SELECT id, capture_time, share_code, future_code,
			bid_share, offer_share, bid_future, offer_future,
			lot_size_future, days_to_expiration,
			sell_spread_annualized_pct, buy_spread_annualized_pct
		FROM spreads
		WHERE 1=1
	`
	query, args := appendFilter(query, nil, filter, "future_code", nil)
	query += " ORDER BY capture_time, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan spreads: %w", err)
	}
	defer rows.Close()

	var records []*contracts.ShareFutureSpread
	for rows.Next() {
		var rec contracts.ShareFutureSpread
		if err := rows.Scan(
			&rec.ID, &rec.CaptureTime, &rec.ShareCode, &rec.FutureCode,
			&rec.BidShare, &rec.OfferShare, &rec.BidFuture, &rec.OfferFuture,
			&rec.LotSize, &rec.ExpDays,
			&rec.SellYieldPct, &rec.BuyYieldPct,
		); err != nil {
			return nil, fmt.Errorf("scan spreads: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan spreads: %w", err)
	}
	return records, nil
}

// Expirations returns the distinct expiration suffixes present in the table.
func (r *SpreadRepository) Expirations(ctx context.Context) ([]string, error) {
	codes, err := r.FutureCodes(ctx)
	if err != nil {
		return nil, err
	}
	return expirationSuffixes(codes), nil
}

// FutureCodes returns every distinct future code, sorted.
func (r *SpreadRepository) FutureCodes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT future_code FROM spreads ORDER BY future_code`)
	if err != nil {
		return nil, fmt.Errorf("distinct future codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("distinct future codes: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// appendFilter pushes a ScanFilter into the WHERE clause. codeCol is the
// column matched by expiration suffixes and the allow-list; extraCodeCol,
// when set, widens the allow-list match to a second column.
func appendFilter(query string, args []any, filter contracts.ScanFilter, codeCol string, extraCodeCol *string) (string, []any) {
	if len(filter.Expirations) > 0 {
		var likes []string
		for _, exp := range filter.Expirations {
			args = append(args, "%-"+exp)
			likes = append(likes, fmt.Sprintf("%s LIKE $%d", codeCol, len(args)))
		}
		query += " AND (" + strings.Join(likes, " OR ") + ")"
	}

	if len(filter.Codes) > 0 {
		args = append(args, filter.Codes)
		cond := fmt.Sprintf("%s = ANY($%d)", codeCol, len(args))
		if extraCodeCol != nil {
			cond = fmt.Sprintf("(%s OR %s = ANY($%d))", cond, *extraCodeCol, len(args))
		}
		query += " AND " + cond
	}

	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND capture_time >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND capture_time <= $%d", len(args))
	}

	return query, args
}

func expirationSuffixes(codes []string) []string {
	seen := make(map[string]struct{})
	var suffixes []string
	for _, code := range codes {
		suffix := contracts.ExpirationSuffix(code)
		if suffix == "" {
			continue
		}
		if _, ok := seen[suffix]; !ok {
			seen[suffix] = struct{}{}
			suffixes = append(suffixes, suffix)
		}
	}
	sort.Strings(suffixes)
	return suffixes
}
