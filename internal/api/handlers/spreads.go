package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avdeenko/carrymon/internal/contracts"
	"github.com/avdeenko/carrymon/internal/query"
	"github.com/avdeenko/carrymon/pkg/cache"
	"github.com/avdeenko/carrymon/pkg/logger"
)

// SpreadHandler serves the share/future read path.
type SpreadHandler struct {
	repo   contracts.SpreadRepository
	cache  *cache.Cache
	logger *logger.Logger
}

// NewSpreadHandler creates a share/future spread handler.
func NewSpreadHandler(repo contracts.SpreadRepository, c *cache.Cache, log *logger.Logger) *SpreadHandler {
	return &SpreadHandler{repo: repo, cache: c, logger: log}
}

// spreadRecord is the wire form of a share/future record. Capture time is a
// fixed-format string whose lexicographic order matches chronology.
type spreadRecord struct {
	contracts.ShareFutureSpread
	CaptureTime string `json:"capture_time"`
}

func toSpreadRecords(records []*contracts.ShareFutureSpread) []spreadRecord {
	out := make([]spreadRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, spreadRecord{
			ShareFutureSpread: *rec,
			CaptureTime:       rec.CaptureTime.Format(contracts.CaptureTimeLayout),
		})
	}
	return out
}

type spreadListResponse struct {
	Count   int            `json:"count"`
	Records []spreadRecord `json:"records"`
}

// Latest returns the latest-per-pair view.
// GET /api/spreads/latest?expirations=9.25,12.25&futures=GAZR-9.25&sort_by=sell&min=0&max=100&offset=0&limit=10
func (h *SpreadHandler) Latest(w http.ResponseWriter, r *http.Request) {
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

	cacheKey := fmt.Sprintf("spreads:latest:%s|%s|%s|%v|%v|%d|%d",
		strings.Join(params.Expirations, ","), strings.Join(params.Codes, ","),
		params.Metric, params.Min, params.Max, params.Offset, params.Limit)

	var resp spreadListResponse
	if found, _ := h.cache.Get(ctx, cacheKey, &resp); found {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	records, err := query.LatestShareFutures(ctx, h.repo, params)
	if err != nil {
		h.logger.WithError(err).Error("Latest spreads query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	resp = spreadListResponse{Count: len(records), Records: toSpreadRecords(records)}
	if err := h.cache.Set(ctx, cacheKey, resp); err != nil {
		h.logger.WithError(err).Warn("View cache write failed")
	}
	writeJSON(w, http.StatusOK, resp)
}

// History returns the raw time series for charting.
// GET /api/spreads/history?future=GAZR-9.25&expirations=9.25&from=2026-08-01&to=2026-08-31
func (h *SpreadHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := contracts.ScanFilter{
		Expirations: csvParam(r, "expirations"),
	}
	if future := r.URL.Query().Get("future"); future != "" {
		filter.Codes = []string{future}
	}
	filter.From = parseTimeParam(r.URL.Query().Get("from"))
	filter.To = parseTimeParam(r.URL.Query().Get("to"))

	records, err := h.repo.Scan(ctx, filter)
	if err != nil {
		h.logger.WithError(err).Error("Spread history scan failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, spreadListResponse{
		Count:   len(records),
		Records: toSpreadRecords(records),
	})
}

// Top returns the highest-yield latest records by the sell-side metric.
// GET /api/spreads/top
func (h *SpreadHandler) Top(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := query.TopShareFutures(ctx, h.repo, query.ReportSize)
	if err != nil {
		h.logger.WithError(err).Error("Top spreads query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, spreadListResponse{
		Count:   len(records),
		Records: toSpreadRecords(records),
	})
}

// parseTimeParam accepts a capture-time string or a bare date; anything else
// means "unbounded".
func parseTimeParam(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(contracts.CaptureTimeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
