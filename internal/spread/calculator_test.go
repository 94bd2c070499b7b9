package spread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeenko/carrymon/internal/contracts"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

// expIn returns an expiration date that yields exactly days to expiration
// from testNow.
func expIn(days int) time.Time {
	return testNow.AddDate(0, 0, days-1)
}

func TestDaysToExpiration(t *testing.T) {
	assert.Equal(t, 1, DaysToExpiration(testNow, testNow))
	assert.Equal(t, 30, DaysToExpiration(testNow.AddDate(0, 0, 29), testNow))

	// Partial days floor before the +1.
	assert.Equal(t, 10, DaysToExpiration(testNow.Add(9*24*time.Hour+12*time.Hour), testNow))

	// Expired yesterday.
	assert.Equal(t, 0, DaysToExpiration(testNow.AddDate(0, 0, -1), testNow))
}

func TestBuildShareFuture_Arithmetic(t *testing.T) {
	share := &contracts.Quote{Code: "TEST", Bid: 99, Offer: 100}
	future := &contracts.Quote{Code: "TEST-9.25", Bid: 1050, Offer: 1060, LotSize: 10, ExpDate: expIn(30)}

	rec, err := BuildShareFuture(share, future, testNow)
	require.NoError(t, err)

	// sell: ((1050 - 100*10) / (100*10)) / 30 * 365 * 100 = 60.8333 -> 60.83
	assert.Equal(t, 60.83, rec.SellYieldPct)

	// buy: ((1060 - 99*10) / (99*10)) / 30 * 365 * 100 = 86.0269 -> 86.03
	assert.Equal(t, 86.03, rec.BuyYieldPct)

	assert.Equal(t, 30, rec.ExpDays)
	assert.Equal(t, "TEST", rec.ShareCode)
	assert.Equal(t, "TEST-9.25", rec.FutureCode)
	assert.Equal(t, testNow.Truncate(time.Second), rec.CaptureTime)
}

func TestBuildShareFuture_NegativeCarry(t *testing.T) {
	// Future trading below spot notional: sell side goes negative.
	share := &contracts.Quote{Code: "VTBR", Bid: 250, Offer: 251}
	future := &contracts.Quote{Code: "VTBR-9.25", Bid: 2400, Offer: 2420, LotSize: 10, ExpDate: expIn(73)}

	rec, err := BuildShareFuture(share, future, testNow)
	require.NoError(t, err)

	// sell: ((2400 - 2510) / 2510) / 73 * 365 * 100 = -21.91
	assert.Equal(t, -21.91, rec.SellYieldPct)
	assert.Less(t, rec.SellYieldPct, 0.0)
}

func TestBuildShareFuture_InvalidInputs(t *testing.T) {
	valid := func() (*contracts.Quote, *contracts.Quote) {
		return &contracts.Quote{Code: "GAZP", Bid: 250, Offer: 251},
			&contracts.Quote{Code: "GAZR-9.25", Bid: 2600, Offer: 2610, LotSize: 10, ExpDate: expIn(30)}
	}

	t.Run("expired future", func(t *testing.T) {
		share, future := valid()
		future.ExpDate = expIn(0)
		_, err := BuildShareFuture(share, future, testNow)
		assert.ErrorIs(t, err, contracts.ErrInvalidQuote)
	})

	t.Run("zero share offer", func(t *testing.T) {
		share, future := valid()
		share.Offer = 0
		_, err := BuildShareFuture(share, future, testNow)
		assert.ErrorIs(t, err, contracts.ErrInvalidQuote)
	})

	t.Run("negative share bid", func(t *testing.T) {
		share, future := valid()
		share.Bid = -1
		_, err := BuildShareFuture(share, future, testNow)
		assert.ErrorIs(t, err, contracts.ErrInvalidQuote)
	})

	t.Run("zero lot size", func(t *testing.T) {
		share, future := valid()
		future.LotSize = 0
		_, err := BuildShareFuture(share, future, testNow)
		assert.ErrorIs(t, err, contracts.ErrInvalidQuote)
	})
}

func TestBuildFutureFuture_Arithmetic(t *testing.T) {
	share := &contracts.Quote{Code: "GAZP", Bid: 250, Offer: 251}
	near := &contracts.Quote{Code: "GAZR-9.25", Bid: 2600, Offer: 2610, LotSize: 10, ExpDate: expIn(30)}
	far := &contracts.Quote{Code: "GAZR-12.25", Bid: 2700, Offer: 2715, LotSize: 10, ExpDate: expIn(120)}

	rec, err := BuildFutureFuture(share, near, far, testNow)
	require.NoError(t, err)

	assert.Equal(t, "GAZR-9.25", rec.NearCode)
	assert.Equal(t, "GAZR-12.25", rec.FarCode)
	assert.Equal(t, 120, rec.FarExpDays)

	// spread_bid = 2700 - 2610 = 90
	assert.Equal(t, 90.0, rec.SpreadBid)
	// (90 / (251*10)) / 120 * 365 * 100 = 10.9064 -> 10.91
	assert.Equal(t, 10.91, rec.SpreadBidYieldPct)

	// spread_offer = 2715 - 2600 = 115
	assert.Equal(t, 115.0, rec.SpreadOffer)
	// (115 / (250*10)) / 120 * 365 * 100 = 13.9917 -> 13.99
	assert.Equal(t, 13.99, rec.SpreadOfferYieldPct)
}

func TestBuildFutureFuture_InvalidInputs(t *testing.T) {
	share := &contracts.Quote{Code: "GAZP", Bid: 250, Offer: 251}
	near := &contracts.Quote{Code: "GAZR-9.25", Bid: 2600, Offer: 2610, LotSize: 10, ExpDate: expIn(30)}
	far := &contracts.Quote{Code: "GAZR-12.25", Bid: 2700, Offer: 2715, LotSize: 10, ExpDate: expIn(0)}

	_, err := BuildFutureFuture(share, near, far, testNow)
	assert.ErrorIs(t, err, contracts.ErrInvalidQuote)

	far.ExpDate = expIn(120)
	share.Bid = 0
	_, err = BuildFutureFuture(share, near, far, testNow)
	assert.ErrorIs(t, err, contracts.ErrInvalidQuote)
}
