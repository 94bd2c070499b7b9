package query

import (
	"context"
	"math"

	"github.com/avdeenko/carrymon/internal/contracts"
)

// ReportSize is the row count of the operational top report.
const ReportSize = 5

// ViewParams is the canonical query shape for a latest-value view:
// instrument-pattern filter -> latest-per-key -> metric range on the latest
// values -> sort -> paginate. The zero value means no filtering at all:
// unset Min/Max are unbounded, not [0, 0].
type ViewParams struct {
	Expirations []string
	Codes       []string
	Metric      string
	Min         float64
	Max         float64
	Ascending   bool
	Offset      int
	Limit       int
}

// bounds resolves the metric range. Both bounds zero means the caller never
// set them, so the range is unbounded; a one-sided zero stays a real bound.
func (p ViewParams) bounds() (float64, float64) {
	if p.Min == 0 && p.Max == 0 {
		return math.Inf(-1), math.Inf(1)
	}
	return p.Min, p.Max
}

// LatestShareFutures runs the canonical view over the share/future table.
// An empty result is a valid answer, never an error.
func LatestShareFutures(ctx context.Context, repo contracts.SpreadRepository, p ViewParams) ([]*contracts.ShareFutureSpread, error) {
	records, err := repo.Scan(ctx, contracts.ScanFilter{
		Expirations: p.Expirations,
		Codes:       p.Codes,
	})
	if err != nil {
		return nil, err
	}

	metric := ShareFutureMetric(p.Metric)
	min, max := p.bounds()
	latest := LatestPerKey(records, ShareFutureKey, shareFutureTime)
	latest = FilterRange(latest, metric, min, max)
	sorted := SortByMetric(latest, metric, p.Ascending, ShareFutureKey)
	return Page(sorted, p.Offset, p.Limit), nil
}

// LatestFuturePairs runs the canonical view over the future/future table.
func LatestFuturePairs(ctx context.Context, repo contracts.FutureSpreadRepository, p ViewParams) ([]*contracts.FutureFutureSpread, error) {
	records, err := repo.Scan(ctx, contracts.ScanFilter{
		Expirations: p.Expirations,
		Codes:       p.Codes,
	})
	if err != nil {
		return nil, err
	}

	metric := FuturePairMetric(p.Metric)
	min, max := p.bounds()
	latest := LatestPerKey(records, FuturePairKey, futurePairTime)
	latest = FilterRange(latest, metric, min, max)
	sorted := SortByMetric(latest, metric, p.Ascending, FuturePairKey)
	return Page(sorted, p.Offset, p.Limit), nil
}

// TopShareFutures returns the highest-yield latest records by the sell-side
// metric, for the operational report.
func TopShareFutures(ctx context.Context, repo contracts.SpreadRepository, n int) ([]*contracts.ShareFutureSpread, error) {
	records, err := repo.Scan(ctx, contracts.ScanFilter{})
	if err != nil {
		return nil, err
	}
	latest := LatestPerKey(records, ShareFutureKey, shareFutureTime)
	return TopN(latest, ShareFutureMetric("sell"), ShareFutureKey, n), nil
}

// TopFuturePairs returns the highest-yield latest records by the bid-side
// metric, for the operational report.
func TopFuturePairs(ctx context.Context, repo contracts.FutureSpreadRepository, n int) ([]*contracts.FutureFutureSpread, error) {
	records, err := repo.Scan(ctx, contracts.ScanFilter{})
	if err != nil {
		return nil, err
	}
	latest := LatestPerKey(records, FuturePairKey, futurePairTime)
	return TopN(latest, FuturePairMetric("bid"), FuturePairKey, n), nil
}
