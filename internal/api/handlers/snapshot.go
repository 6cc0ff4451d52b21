package handlers

import (
	"errors"
	"net/http"

	"github.com/wonny/tailpick/backend/internal/contracts"
	"github.com/wonny/tailpick/backend/internal/snapshot"
	"github.com/wonny/tailpick/backend/pkg/logger"
)

// SnapshotHandler exposes the snapshot lifecycle
type SnapshotHandler struct {
	manager *snapshot.Manager
	logger  *logger.Logger
}

// NewSnapshotHandler creates a snapshot handler
func NewSnapshotHandler(manager *snapshot.Manager, log *logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{manager: manager, logger: log}
}

// Status reports the snapshot state for a trade day
// GET /api/snapshot/status?date=YYYY-MM-DD
func (h *SnapshotHandler) Status(w http.ResponseWriter, r *http.Request) {
	day, err := tradeDayParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.manager.State(r.Context(), day)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read snapshot state")
		respondError(w, http.StatusInternalServerError, "Failed to read snapshot state")
		return
	}

	installed, err := h.manager.ProcedureInstalled(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to check snapshot storage")
		respondError(w, http.StatusInternalServerError, "Failed to check snapshot storage")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trade_day": day.Format("2006-01-02"),
		"state":     state,
		"installed": installed,
	})
}

// Build triggers a snapshot build for a trade day
// POST /api/snapshot/build?date=YYYY-MM-DD
func (h *SnapshotHandler) Build(w http.ResponseWriter, r *http.Request) {
	day, err := tradeDayParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.manager.Build(r.Context(), day); err != nil {
		if errors.Is(err, contracts.ErrSnapshotConflict) {
			respondError(w, http.StatusConflict, "Snapshot build already in progress")
			return
		}
		h.logger.WithError(err).Error("Snapshot build failed")
		respondError(w, http.StatusInternalServerError, "Snapshot build failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"trade_day": day.Format("2006-01-02"),
		"state":     string(contracts.SnapshotValid),
	})
}
