package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/internal/export"
	"github.com/wonny/tailpick/backend/pkg/logger"
	"github.com/wonny/tailpick/backend/pkg/redis"
)

// candidateCacheTTL keeps the feed hot between the daily runs without
// serving a stale feed after a rerun for long
const candidateCacheTTL = 5 * time.Minute

// CandidateHandler serves persisted screening output
// SSOT: candidate read endpoints live on this struct only
type CandidateHandler struct {
	reader contracts.CandidateReader
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCandidateHandler creates a candidate handler. cache may wrap a
// disabled client; reads then always hit the store.
func NewCandidateHandler(reader contracts.CandidateReader, cache *redis.Cache, log *logger.Logger) *CandidateHandler {
	return &CandidateHandler{reader: reader, cache: cache, logger: log}
}

type candidateResponse struct {
	TradeDay   string              `json:"trade_day"`
	Filter     string              `json:"filter"`
	Count      int                 `json:"count"`
	Candidates []export.FeedRecord `json:"candidates"`
}

// List returns the ranked candidates for a trade day
// GET /api/candidates?date=YYYY-MM-DD
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	day, err := tradeDayParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cacheKey := "candidates:" + day.Format("2006-01-02")

	var cached candidateResponse
	if found, err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil && found {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	rows, err := h.reader.CandidatesByDay(r.Context(), day, contracts.FilterTailScraper.ID())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load candidates")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve candidates")
		return
	}

	resp := candidateResponse{
		TradeDay:   day.Format("2006-01-02"),
		Filter:     contracts.FilterTailScraper.Name(),
		Count:      len(rows),
		Candidates: export.ToFeedRecords(rows),
	}

	if err := h.cache.Set(r.Context(), cacheKey, resp, candidateCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache candidates")
	}

	respondJSON(w, http.StatusOK, resp)
}
