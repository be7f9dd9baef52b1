package handler

import (
	"log/slog"
	"net/http"
)

// StatsHandler serves the session ledger snapshot and the race history.
type StatsHandler struct {
	engine RaceEngine
	logger *slog.Logger
}

// NewStatsHandler creates a StatsHandler with the given engine and logger.
func NewStatsHandler(engine RaceEngine, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		engine: engine,
		logger: logger,
	}
}

// GetStats returns the user's session statistics.
// GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStatsView(h.engine.Ledger()))
}

// historyResponse wraps the history list endpoint output.
type historyResponse struct {
	Races []pastRaceView `json:"races"`
	Count int            `json:"count"`
}

// ListHistory returns settled races, newest first.
// GET /api/races/history?limit=20
func (h *StatsHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20, 200)

	past := h.engine.History(limit)
	races := make([]pastRaceView, 0, len(past))
	for _, p := range past {
		races = append(races, toPastRaceView(p))
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Races: races,
		Count: len(races),
	})
}
