package handlers

import (
	"net/http"

	"github.com/avdeenko/carrymon/internal/contracts"
	"github.com/avdeenko/carrymon/pkg/logger"
)

// MetaHandler serves the lookup data the dashboard filter widgets need.
type MetaHandler struct {
	spreads       contracts.SpreadRepository
	futureSpreads contracts.FutureSpreadRepository
	logger        *logger.Logger
}

// NewMetaHandler creates a meta handler.
func NewMetaHandler(spreads contracts.SpreadRepository, futureSpreads contracts.FutureSpreadRepository, log *logger.Logger) *MetaHandler {
	return &MetaHandler{spreads: spreads, futureSpreads: futureSpreads, logger: log}
}

// Expirations returns the distinct expiration suffixes per table.
// GET /api/expirations
func (h *MetaHandler) Expirations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	spreadExps, err := h.spreads.Expirations(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Spread expirations query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	futureExps, err := h.futureSpreads.Expirations(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Future spread expirations query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{
		"spreads":        emptyIfNil(spreadExps),
		"future_spreads": emptyIfNil(futureExps),
	})
}

// Futures returns every future code seen in the share/future table.
// GET /api/futures/codes
func (h *MetaHandler) Futures(w http.ResponseWriter, r *http.Request) {
	codes, err := h.spreads.FutureCodes(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Future codes query failed")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"futures": emptyIfNil(codes)})
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
