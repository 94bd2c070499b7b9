package contracts

import (
	"strings"
	"time"
)

// CaptureTimeLayout is the textual form of a capture time wherever records
// are serialized (API payloads, reports). Second resolution; lexicographic
// order equals chronological order.
const CaptureTimeLayout = "2006-01-02 15:04:05"

// Quote is one bid/offer snapshot for a single instrument, captured
// atomically in one sampling pass. Quotes are consumed immediately by the
// calculator and never persisted themselves.
type Quote struct {
	Code       string
	Bid        float64
	Offer      float64
	LotSize    float64   // futures only
	ExpDate    time.Time // futures only, zero for shares
	CapturedAt time.Time
}

// UniverseEntry maps one share to its listed futures. Entries come from the
// universe file and are validated at load time.
type UniverseEntry struct {
	ShareCode   string
	FutureCodes []string
}

// ShareFutureSpread is one share/future carry-spread snapshot. Records are
// append-only: created once per (share, future, capture time) and never
// updated or deleted.
type ShareFutureSpread struct {
	ID          int64     `json:"id"`
	CaptureTime time.Time `json:"-"`
	ShareCode   string    `json:"share_code"`
	FutureCode  string    `json:"future_code"`
	BidShare    float64   `json:"bid_share"`
	OfferShare  float64   `json:"offer_share"`
	BidFuture   float64   `json:"bid_future"`
	OfferFuture float64   `json:"offer_future"`
	LotSize     float64   `json:"lot_size_future"`
	ExpDays     int       `json:"days_to_expiration"`

	// Annualized yields as plain percent values (12.34 means 12.34%).
	SellYieldPct float64 `json:"sell_spread_annualized_pct"`
	BuyYieldPct  float64 `json:"buy_spread_annualized_pct"`
}

// FutureFutureSpread is one near/far calendar-spread snapshot. Near and far
// are assigned by days to expiration at capture time, never by code.
type FutureFutureSpread struct {
	ID          int64     `json:"id"`
	CaptureTime time.Time `json:"-"`
	NearCode    string    `json:"near_future_code"`
	FarCode     string    `json:"far_future_code"`
	SpreadBid   float64   `json:"spread_bid"`
	SpreadOffer float64   `json:"spread_offer"`

	SpreadBidYieldPct   float64 `json:"spread_bid_annualized_pct"`
	SpreadOfferYieldPct float64 `json:"spread_offer_annualized_pct"`
	FarExpDays          int     `json:"far_days_to_expiration"`
}

// ExpirationSuffix extracts the expiration part of a future code
// ("GAZR-9.25" -> "9.25"). Empty when the code carries no suffix.
func ExpirationSuffix(code string) string {
	idx := strings.LastIndex(code, "-")
	if idx < 0 || idx == len(code)-1 {
		return ""
	}
	return code[idx+1:]
}
