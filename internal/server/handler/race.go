package handler

import (
	"log/slog"
	"net/http"

	"github.com/dogeracehq/dogerace/internal/domain"
)

// RaceEngine defines the methods the handlers require from the engine. It is
// declared locally so the handler package does not depend on the concrete
// engine implementation.
type RaceEngine interface {
	Snapshot() (domain.Race, bool)
	CurrentBet() (domain.Bet, bool)
	PlaceBet(modelID string, amount float64) (domain.Bet, error)
	Ledger() domain.UserStats
	History(limit int) []domain.PastRace
	Reset()
}

// RaceHandler serves the live race endpoints.
type RaceHandler struct {
	engine RaceEngine
	logger *slog.Logger
}

// NewRaceHandler creates a RaceHandler with the given engine and logger.
func NewRaceHandler(engine RaceEngine, logger *slog.Logger) *RaceHandler {
	return &RaceHandler{
		engine: engine,
		logger: logger,
	}
}

// raceResponse wraps the live race snapshot with the user's current bet.
type raceResponse struct {
	Race    raceView `json:"race"`
	UserBet *betView `json:"user_bet,omitempty"`
}

// GetRace returns a snapshot of the active race.
// GET /api/race
func (h *RaceHandler) GetRace(w http.ResponseWriter, r *http.Request) {
	race, ok := h.engine.Snapshot()
	if !ok {
		writeError(w, http.StatusNotFound, "no active race")
		return
	}

	resp := raceResponse{Race: toRaceView(race)}
	if bet, ok := h.engine.CurrentBet(); ok {
		b := toBetView(bet)
		resp.UserBet = &b
	}

	writeJSON(w, http.StatusOK, resp)
}

// ResetSession discards the active race, bet, and history and restores the
// starting ledger.
// POST /api/session/reset
func (h *RaceHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	h.engine.Reset()
	h.logger.InfoContext(r.Context(), "handler: session reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
