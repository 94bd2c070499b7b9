package contracts

import (
	"context"
	"time"
)

// QuotePort fetches one bid/offer snapshot per instrument from the external
// provider. Implementations must return an error wrapping ErrQuoteUnavailable
// for unknown or unreachable instruments.
type QuotePort interface {
	GetQuote(ctx context.Context, code string) (*Quote, error)
}

// ScanFilter narrows a table scan. Zero values mean "no bound"; filters are
// pushed down to the store where possible.
type ScanFilter struct {
	// Expirations keeps records whose future code ends with "-<suffix>"
	// for any of the listed suffixes.
	Expirations []string

	// Codes is an explicit instrument allow-list (future code for
	// share/future records, near or far code for future/future records).
	Codes []string

	// Time range bounds, inclusive.
	From time.Time
	To   time.Time
}

// SpreadRepository is the append-only store for share/future records.
// Append never overwrites; Scan returns records in insertion order
// (capture time, then store-assigned id).
type SpreadRepository interface {
	Append(ctx context.Context, rec *ShareFutureSpread) error
	Scan(ctx context.Context, filter ScanFilter) ([]*ShareFutureSpread, error)
	Expirations(ctx context.Context) ([]string, error)
	FutureCodes(ctx context.Context) ([]string, error)
}

// FutureSpreadRepository is the append-only store for future/future records.
type FutureSpreadRepository interface {
	Append(ctx context.Context, rec *FutureFutureSpread) error
	Scan(ctx context.Context, filter ScanFilter) ([]*FutureFutureSpread, error)
	Expirations(ctx context.Context) ([]string, error)
}
