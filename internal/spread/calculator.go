// Package spread holds the carry-spread arithmetic: pure functions that turn
// bid/offer quotes into annualized yield records. No I/O happens here.
package spread

import (
	"fmt"
	"math"
	"time"

	"github.com/avdeenko/carrymon/internal/contracts"
)

const daysPerYear = 365

// DaysToExpiration returns the number of calendar days from now to the
// future's expiration, inclusive of the current day.
func DaysToExpiration(expDate, now time.Time) int {
	return int(math.Floor(expDate.Sub(now).Hours()/24)) + 1
}

// BuildShareFuture computes one share/future carry-spread record from a share
// quote and a future quote taken in the same pass.
//
// Sell side (buy share, sell future):
//
//	((bid_future - offer_share*lot) / (offer_share*lot)) / days * 365 * 100
//
// Buy side (sell share, buy future):
//
//	((offer_future - bid_share*lot) / (bid_share*lot)) / days * 365 * 100
//
// Yields are rounded to 2 decimals here, at record construction; nothing
// downstream recomputes from the rounded values.
func BuildShareFuture(share, future *contracts.Quote, now time.Time) (*contracts.ShareFutureSpread, error) {
	expDays := DaysToExpiration(future.ExpDate, now)

	if err := validateShareFuture(share, future, expDays); err != nil {
		return nil, err
	}

	sellNotional := share.Offer * future.LotSize
	buyNotional := share.Bid * future.LotSize

	sellYield := annualize(future.Bid-sellNotional, sellNotional, expDays)
	buyYield := annualize(future.Offer-buyNotional, buyNotional, expDays)

	return &contracts.ShareFutureSpread{
		CaptureTime:  now.Truncate(time.Second),
		ShareCode:    share.Code,
		FutureCode:   future.Code,
		BidShare:     share.Bid,
		OfferShare:   share.Offer,
		BidFuture:    future.Bid,
		OfferFuture:  future.Offer,
		LotSize:      future.LotSize,
		ExpDays:      expDays,
		SellYieldPct: sellYield,
		BuyYieldPct:  buyYield,
	}, nil
}

// BuildFutureFuture computes one near/far calendar-spread record. Both yields
// normalize by the far leg's share notional; the far leg's days to expiration
// drive the annualization.
func BuildFutureFuture(share, near, far *contracts.Quote, now time.Time) (*contracts.FutureFutureSpread, error) {
	farDays := DaysToExpiration(far.ExpDate, now)

	if farDays <= 0 {
		return nil, fmt.Errorf("%w: %s/%s: days to expiration %d", contracts.ErrInvalidQuote, near.Code, far.Code, farDays)
	}
	if share.Offer <= 0 || share.Bid <= 0 {
		return nil, fmt.Errorf("%w: %s: non-positive share price (bid=%v offer=%v)", contracts.ErrInvalidQuote, share.Code, share.Bid, share.Offer)
	}
	if far.LotSize <= 0 {
		return nil, fmt.Errorf("%w: %s: non-positive lot size %v", contracts.ErrInvalidQuote, far.Code, far.LotSize)
	}

	spreadBid := far.Bid - near.Offer
	spreadOffer := far.Offer - near.Bid

	return &contracts.FutureFutureSpread{
		CaptureTime:         now.Truncate(time.Second),
		NearCode:            near.Code,
		FarCode:             far.Code,
		SpreadBid:           spreadBid,
		SpreadOffer:         spreadOffer,
		SpreadBidYieldPct:   annualize(spreadBid, share.Offer*far.LotSize, farDays),
		SpreadOfferYieldPct: annualize(spreadOffer, share.Bid*far.LotSize, farDays),
		FarExpDays:          farDays,
	}, nil
}

func validateShareFuture(share, future *contracts.Quote, expDays int) error {
	if expDays <= 0 {
		return fmt.Errorf("%w: %s/%s: days to expiration %d", contracts.ErrInvalidQuote, share.Code, future.Code, expDays)
	}
	if share.Offer <= 0 || share.Bid <= 0 {
		return fmt.Errorf("%w: %s: non-positive share price (bid=%v offer=%v)", contracts.ErrInvalidQuote, share.Code, share.Bid, share.Offer)
	}
	if future.LotSize <= 0 {
		return fmt.Errorf("%w: %s: non-positive lot size %v", contracts.ErrInvalidQuote, future.Code, future.LotSize)
	}
	return nil
}

// annualize scales a raw spread over a notional to percent per 365-day year.
func annualize(diff, notional float64, days int) float64 {
	return round2(diff / notional / float64(days) * daysPerYear * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
