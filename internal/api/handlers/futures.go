package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/avdeenko/carrymon/internal/contracts"
	"github.com/avdeenko/carrymon/internal/query"
	"github.com/avdeenko/carrymon/pkg/cache"
	"github.com/avdeenko/carrymon/pkg/logger"
)

// FutureSpreadHandler serves the future/future read path.
type FutureSpreadHandler struct {
	repo   contracts.FutureSpreadRepository
	cache  *cache.Cache
	logger *logger.Logger
}

// NewFutureSpreadHandler creates a future/future spread handler.
func NewFutureSpreadHandler(repo contracts.FutureSpreadRepository, c *cache.Cache, log *logger.Logger) *FutureSpreadHandler {
	return &FutureSpreadHandler{repo: repo, cache: c, logger: log}
}

// futureSpreadRecord is the wire form of a future/future record.
type futureSpreadRecord struct {
	contracts.FutureFutureSpread
	CaptureTime string `json:"capture_time"`
}

func toFutureSpreadRecords(records []*contracts.FutureFutureSpread) []futureSpreadRecord {
	out := make([]futureSpreadRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, futureSpreadRecord{
			FutureFutureSpread: *rec,
			CaptureTime:        rec.CaptureTime.Format(contracts.CaptureTimeLayout),
		})
	}
	return out
}

type futureSpreadListResponse struct {
	Count   int                  `json:"count"`
	Records []futureSpreadRecord `json:"records"`
}

// Latest returns the latest-per-pair view.
// GET /api/futures/latest?expirations=12.25&sort_by=bid&min=&max=&offset=0&limit=10
func (h *FutureSpreadHandler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := query.ViewParams{
		Expirations: csvParam(r, "expirations"),
		Codes:       csvParam(r, "futures"),
		Metric:      r.URL.Query().Get("sort_by"),
		Min:         query.ParseMin(r.URL.Query().Get("min")),
		Max:         query.ParseMax(r.URL.Query().Get("max")),
		Offset:      intParam(r, "offset", 0),
		Limit:       intParam(r, "limit", 0),
	}

	cacheKey := fmt.Sprintf("futures:latest:%s|%s|%s|%v|%v|%d|%d",
		strings.Join(params.Expirations, ","), strings.Join(params.Codes, ","),
		params.Metric, params.Min, params.Max, params.Offset, params.Limit)

	var resp futureSpreadListResponse
	if found, _ := h.cache.Get(ctx, cacheKey, &resp); found {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	records, err := query.LatestFuturePairs(ctx, h.repo, params)
	if err != nil {
		h.logger.WithError(err).Error("Latest future spreads query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	resp = futureSpreadListResponse{Count: len(records), Records: toFutureSpreadRecords(records)}
	if err := h.cache.Set(ctx, cacheKey, resp); err != nil {
		h.logger.WithError(err).Warn("View cache write failed")
	}
	writeJSON(w, http.StatusOK, resp)
}

// History returns the raw time series for charting.
// GET /api/futures/history?expirations=12.25&from=2026-08-01
func (h *FutureSpreadHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := contracts.ScanFilter{
		Expirations: csvParam(r, "expirations"),
		Codes:       csvParam(r, "futures"),
		From:        parseTimeParam(r.URL.Query().Get("from")),
		To:          parseTimeParam(r.URL.Query().Get("to")),
	}

	records, err := h.repo.Scan(ctx, filter)
	if err != nil {
		h.logger.WithError(err).Error("Future spread history scan failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, futureSpreadListResponse{
		Count:   len(records),
		Records: toFutureSpreadRecords(records),
	})
}

// Top returns the highest-yield latest records by the bid-side metric.
// GET /api/futures/top
func (h *FutureSpreadHandler) Top(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := query.TopFuturePairs(ctx, h.repo, query.ReportSize)
	if err != nil {
		h.logger.WithError(err).Error("Top future spreads query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, futureSpreadListResponse{
		Count:   len(records),
		Records: toFutureSpreadRecords(records),
	})
}
