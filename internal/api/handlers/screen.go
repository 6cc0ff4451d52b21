package handlers

import (
	"net/http"

	"github.com/wonny/tailpick/backend/internal/calendar"
	"github.com/wonny/tailpick/backend/internal/export"
	"github.com/wonny/tailpick/backend/internal/screening"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

// ScreenHandler triggers screening runs on demand
type ScreenHandler struct {
	screener *screening.Screener
	calendar *calendar.Calendar
	logger   *logger.Logger
}

// NewScreenHandler creates a screen handler
func NewScreenHandler(scr *screening.Screener, cal *calendar.Calendar, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{screener: scr, calendar: cal, logger: log}
}

// Run executes a screening run for a trade day and returns the ranked
// result. Zero candidates is a 200 with an empty list.
// POST /api/screen?date=YYYY-MM-DD
func (h *ScreenHandler) Run(w http.ResponseWriter, r *http.Request) {
	day, err := tradeDayParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.calendar.Covers(day) && !h.calendar.IsTradingDay(day) {
		respondError(w, http.StatusUnprocessableEntity, "Not a trading day")
		return
	}

	candidates, err := h.screener.Screen(r.Context(), day)
	if err != nil {
		h.logger.WithError(err).Error("Screening run failed")
		respondError(w, http.StatusInternalServerError, "Screening run failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trade_day":  day.Format("2006-01-02"),
		"count":      len(candidates),
		"candidates": export.ToFeedRecords(candidates),
	})
}
