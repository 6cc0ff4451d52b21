// Package handlers holds the HTTP API handlers
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/tailpick/backend/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// tradeDayParam reads the "date" query parameter as YYYY-MM-DD,
// defaulting to today when absent
func tradeDayParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return contracts.Day(time.Now()), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid 'date' (expected YYYY-MM-DD): %q", raw)
	}
	return contracts.Day(day), nil
}
