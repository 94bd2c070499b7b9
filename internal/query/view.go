// Package query is the latest-value read path: one operator set shared by
// every consumer (API, reports) instead of per-view reimplementations.
// Operators work on an in-memory snapshot of scanned records, so a caller
// holding one result pages through a stable ranking regardless of concurrent
// appends.
package query

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/avdeenko/carrymon/internal/contracts"
)

// KeyFunc extracts the grouping key of a record.
type KeyFunc[T any] func(T) string

// MetricFunc extracts the ranked metric of a record.
type MetricFunc[T any] func(T) float64

// TimeFunc extracts the capture time of a record.
type TimeFunc[T any] func(T) time.Time

// LatestPerKey reduces a scan to one record per key: the one with the
// maximum capture time. Records sharing the maximal capture time resolve to
// the one seen last in scan order, which is insertion order, so the result
// is deterministic. Output keeps first-seen key order.
func LatestPerKey[T any](records []T, key KeyFunc[T], captureTime TimeFunc[T]) []T {
	latest := make(map[string]T)
	var order []string

	for _, rec := range records {
		k := key(rec)
		current, ok := latest[k]
		if !ok {
			order = append(order, k)
			latest[k] = rec
			continue
		}
		// >= keeps the later-inserted record on equal capture times.
		if !captureTime(rec).Before(captureTime(current)) {
			latest[k] = rec
		}
	}

	out := make([]T, 0, len(order))
	for _, k := range order {
		out = append(out, latest[k])
	}
	return out
}

// FilterRange keeps records whose metric lies within [min, max] inclusive.
// Infinite bounds pass everything; filtering twice with the same bounds is
// a no-op.
func FilterRange[T any](records []T, metric MetricFunc[T], min, max float64) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		v := metric(rec)
		if v >= min && v <= max {
			out = append(out, rec)
		}
	}
	return out
}

// SortByMetric sorts descending by the metric (highest yield first) unless
// asc is set; equal metrics order by key ascending for determinism. The
// input slice is not modified.
func SortByMetric[T any](records []T, metric MetricFunc[T], asc bool, key KeyFunc[T]) []T {
	out := make([]T, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := metric(out[i]), metric(out[j])
		if mi != mj {
			if asc {
				return mi < mj
			}
			return mi > mj
		}
		return key(out[i]) < key(out[j])
	})
	return out
}

// Page returns the window [offset, offset+limit) of records. Out-of-range
// windows are empty, never an error. A non-positive limit means "the rest".
func Page[T any](records []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []T{}
	}
	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return records[offset:end]
}

// TopN is the ranked head of the records: sort descending, take n.
func TopN[T any](records []T, metric MetricFunc[T], key KeyFunc[T], n int) []T {
	return Page(SortByMetric(records, metric, false, key), 0, n)
}

// ParseMin converts a user-supplied lower bound. Empty or non-numeric input
// means unbounded.
func ParseMin(s string) float64 {
	return parseBound(s, math.Inf(-1))
}

// ParseMax converts a user-supplied upper bound. Empty or non-numeric input
// means unbounded.
func ParseMax(s string) float64 {
	return parseBound(s, math.Inf(1))
}

func parseBound(s string, unbounded float64) float64 {
	if s == "" {
		return unbounded
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return unbounded
	}
	return v
}

// Grouping keys and metric selectors for the two record kinds.

// ShareFutureKey groups share/future records by their instrument pair.
func ShareFutureKey(r *contracts.ShareFutureSpread) string {
	return r.ShareCode + "/" + r.FutureCode
}

// FuturePairKey groups future/future records by their near/far pair.
func FuturePairKey(r *contracts.FutureFutureSpread) string {
	return r.NearCode + "/" + r.FarCode
}

func shareFutureTime(r *contracts.ShareFutureSpread) time.Time { return r.CaptureTime }

func futurePairTime(r *contracts.FutureFutureSpread) time.Time { return r.CaptureTime }

// ShareFutureMetric resolves a metric name ("sell" or "buy") to its column.
// Unknown names fall back to the sell side, the default ranking.
func ShareFutureMetric(name string) MetricFunc[*contracts.ShareFutureSpread] {
	if name == "buy" {
		return func(r *contracts.ShareFutureSpread) float64 { return r.BuyYieldPct }
	}
	return func(r *contracts.ShareFutureSpread) float64 { return r.SellYieldPct }
}

// FuturePairMetric resolves a metric name ("bid" or "offer") to its column.
// Unknown names fall back to the bid side.
func FuturePairMetric(name string) MetricFunc[*contracts.FutureFutureSpread] {
	if name == "offer" {
		return func(r *contracts.FutureFutureSpread) float64 { return r.SpreadOfferYieldPct }
	}
	return func(r *contracts.FutureFutureSpread) float64 { return r.SpreadBidYieldPct }
}
