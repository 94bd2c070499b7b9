package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeenko/carrymon/internal/contracts"
)

var captureTime = time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)

func TestMemorySpreadRepository_RoundTrip(t *testing.T) {
	repo := NewMemorySpreadRepository()
	ctx := context.Background()

	rec := &contracts.ShareFutureSpread{
		CaptureTime:  captureTime,
		ShareCode:    "GAZP",
		FutureCode:   "GAZR-9.25",
		BidShare:     250,
		OfferShare:   251,
		BidFuture:    2600,
		OfferFuture:  2610,
		LotSize:      10,
		ExpDays:      30,
		SellYieldPct: 43.63,
		BuyYieldPct:  53.53,
	}

	require.NoError(t, repo.Append(ctx, rec))
	assert.Equal(t, int64(1), rec.ID, "append assigns the sequence id")

	got, err := repo.Scan(ctx, contracts.ScanFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Equal in all fields, including the assigned id.
	assert.Equal(t, rec, got[0])
}

func TestMemorySpreadRepository_InsertionOrderAndIDs(t *testing.T) {
	repo := NewMemorySpreadRepository()
	ctx := context.Background()

	for i, code := range []string{"A-9.25", "B-9.25", "C-9.25"} {
		rec := &contracts.ShareFutureSpread{
			CaptureTime: captureTime.Add(time.Duration(i) * time.Minute),
			ShareCode:   "GAZP",
			FutureCode:  code,
		}
		require.NoError(t, repo.Append(ctx, rec))
		assert.Equal(t, int64(i+1), rec.ID, "sequence ids are monotonically increasing")
	}

	got, err := repo.Scan(ctx, contracts.ScanFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "A-9.25", got[0].FutureCode)
	assert.Equal(t, "C-9.25", got[2].FutureCode)
}

func TestMemorySpreadRepository_Filters(t *testing.T) {
	repo := NewMemorySpreadRepository()
	ctx := context.Background()

	seed := []struct {
		code   string
		offset time.Duration
	}{
		{"GAZR-9.25", 0},
		{"GAZR-12.25", time.Hour},
		{"SBRF-9.25", 2 * time.Hour},
	}
	for _, s := range seed {
		require.NoError(t, repo.Append(ctx, &contracts.ShareFutureSpread{
			CaptureTime: captureTime.Add(s.offset),
			ShareCode:   "X",
			FutureCode:  s.code,
		}))
	}

	t.Run("expiration suffix", func(t *testing.T) {
		got, err := repo.Scan(ctx, contracts.ScanFilter{Expirations: []string{"9.25"}})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("code allow-list", func(t *testing.T) {
		got, err := repo.Scan(ctx, contracts.ScanFilter{Codes: []string{"SBRF-9.25"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "SBRF-9.25", got[0].FutureCode)
	})

	t.Run("time range inclusive", func(t *testing.T) {
		got, err := repo.Scan(ctx, contracts.ScanFilter{
			From: captureTime.Add(time.Hour),
			To:   captureTime.Add(2 * time.Hour),
		})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("no match is empty, not an error", func(t *testing.T) {
		got, err := repo.Scan(ctx, contracts.ScanFilter{Expirations: []string{"3.26"}})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMemorySpreadRepository_Expirations(t *testing.T) {
	repo := NewMemorySpreadRepository()
	ctx := context.Background()

	for _, code := range []string{"GAZR-12.25", "GAZR-9.25", "SBRF-9.25", "PLAIN"} {
		require.NoError(t, repo.Append(ctx, &contracts.ShareFutureSpread{
			CaptureTime: captureTime,
			FutureCode:  code,
		}))
	}

	exps, err := repo.Expirations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"12.25", "9.25"}, exps, "distinct, sorted, codes without suffix ignored")

	codes, err := repo.FutureCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"GAZR-12.25", "GAZR-9.25", "PLAIN", "SBRF-9.25"}, codes)
}

func TestMemoryFutureSpreadRepository_RoundTripAndFilters(t *testing.T) {
	repo := NewMemoryFutureSpreadRepository()
	ctx := context.Background()

	rec := &contracts.FutureFutureSpread{
		CaptureTime:         captureTime,
		NearCode:            "GAZR-9.25",
		FarCode:             "GAZR-12.25",
		SpreadBid:           90,
		SpreadOffer:         115,
		SpreadBidYieldPct:   10.91,
		SpreadOfferYieldPct: 13.99,
		FarExpDays:          120,
	}
	require.NoError(t, repo.Append(ctx, rec))

	got, err := repo.Scan(ctx, contracts.ScanFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec, got[0])

	// Expiration filter matches the far leg.
	far, err := repo.Scan(ctx, contracts.ScanFilter{Expirations: []string{"12.25"}})
	require.NoError(t, err)
	assert.Len(t, far, 1)

	none, err := repo.Scan(ctx, contracts.ScanFilter{Expirations: []string{"9.25"}})
	require.NoError(t, err)
	assert.Empty(t, none, "near-leg expiration does not match")

	// Allow-list accepts either leg.
	byNear, err := repo.Scan(ctx, contracts.ScanFilter{Codes: []string{"GAZR-9.25"}})
	require.NoError(t, err)
	assert.Len(t, byNear, 1)

	exps, err := repo.Expirations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"12.25"}, exps)
}
