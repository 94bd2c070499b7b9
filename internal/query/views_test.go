package query

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeenko/carrymon/internal/contracts"
	"github.com/avdeenko/carrymon/internal/store"
)

func seedSpreads(t *testing.T, repo *store.MemorySpreadRepository) {
	t.Helper()
	ctx := context.Background()

	records := []*contracts.ShareFutureSpread{
		sf("GAZR-9.25", 0, 10, 12),
		sf("GAZR-12.25", 0, 20, 22),
		sf("GAZR-9.25", time.Minute, 15, 17), // newer snapshot for 9.25
	}
	for _, rec := range records {
		require.NoError(t, repo.Append(ctx, rec))
	}
}

func TestLatestShareFutures(t *testing.T) {
	repo := store.NewMemorySpreadRepository()
	seedSpreads(t, repo)

	got, err := LatestShareFutures(context.Background(), repo, ViewParams{
		Min: math.Inf(-1),
		Max: math.Inf(1),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Default sort: sell-side descending.
	assert.Equal(t, "GAZR-12.25", got[0].FutureCode)
	assert.Equal(t, 20.0, got[0].SellYieldPct)
	assert.Equal(t, "GAZR-9.25", got[1].FutureCode)
	assert.Equal(t, 15.0, got[1].SellYieldPct, "latest snapshot wins, not the first")
}

func TestLatestShareFutures_UnsetBoundsAreUnbounded(t *testing.T) {
	repo := store.NewMemorySpreadRepository()
	seedSpreads(t, repo)
	require.NoError(t, repo.Append(context.Background(), sf("GAZR-3.26", 0, -21.91, -18.4)))

	// Zero-value params filter nothing: every latest record survives,
	// negative yields included.
	got, err := LatestShareFutures(context.Background(), repo, ViewParams{Metric: "sell"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, -21.91, got[2].SellYieldPct)

	// A one-sided zero is still a real bound.
	nonNegative, err := LatestShareFutures(context.Background(), repo, ViewParams{
		Min: 0,
		Max: math.Inf(1),
	})
	require.NoError(t, err)
	assert.Len(t, nonNegative, 2)
}

func TestLatestFuturePairs_UnsetBoundsAreUnbounded(t *testing.T) {
	repo := store.NewMemoryFutureSpreadRepository()
	require.NoError(t, repo.Append(context.Background(), &contracts.FutureFutureSpread{
		CaptureTime:       t0,
		NearCode:          "GAZR-9.25",
		FarCode:           "GAZR-12.25",
		SpreadBidYieldPct: 10.91,
	}))

	got, err := LatestFuturePairs(context.Background(), repo, ViewParams{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLatestShareFutures_RangeOnLatestOnly(t *testing.T) {
	repo := store.NewMemorySpreadRepository()
	seedSpreads(t, repo)

	// 9.25's historical value (10) is inside the range but its latest (15)
	// is not; the key must be dropped.
	got, err := LatestShareFutures(context.Background(), repo, ViewParams{
		Min: 8,
		Max: 12,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLatestShareFutures_ExpirationFilterAndPaging(t *testing.T) {
	repo := store.NewMemorySpreadRepository()
	seedSpreads(t, repo)

	got, err := LatestShareFutures(context.Background(), repo, ViewParams{
		Expirations: []string{"9.25"},
		Min:         math.Inf(-1),
		Max:         math.Inf(1),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GAZR-9.25", got[0].FutureCode)

	empty, err := LatestShareFutures(context.Background(), repo, ViewParams{
		Min:    math.Inf(-1),
		Max:    math.Inf(1),
		Offset: 10,
		Limit:  5,
	})
	require.NoError(t, err)
	assert.Empty(t, empty, "out-of-range page is an empty result")
}

func TestTopFuturePairs(t *testing.T) {
	repo := store.NewMemoryFutureSpreadRepository()
	ctx := context.Background()

	for i, bid := range []float64{5, 25, 15, 10, 30, 20, 1} {
		rec := &contracts.FutureFutureSpread{
			CaptureTime:       t0,
			NearCode:          "SI-9.25",
			FarCode:           string(rune('A'+i)) + "-12.25",
			SpreadBidYieldPct: bid,
		}
		require.NoError(t, repo.Append(ctx, rec))
	}

	top, err := TopFuturePairs(ctx, repo, ReportSize)
	require.NoError(t, err)
	require.Len(t, top, 5)

	assert.Equal(t, 30.0, top[0].SpreadBidYieldPct)
	assert.Equal(t, 5.0, top[4].SpreadBidYieldPct)
}
