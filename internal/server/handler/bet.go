package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dogeracehq/dogerace/internal/domain"
)

// BetHandler serves bet placement.
type BetHandler struct {
	engine RaceEngine
	logger *slog.Logger
}

// NewBetHandler creates a BetHandler with the given engine and logger.
func NewBetHandler(engine RaceEngine, logger *slog.Logger) *BetHandler {
	return &BetHandler{
		engine: engine,
		logger: logger,
	}
}

// placeBetRequest is the JSON body for bet placement.
type placeBetRequest struct {
	ModelID string  `json:"model_id"`
	Amount  float64 `json:"amount"`
}

// PlaceBet places the user's wager on the current race.
// POST /api/bets
func (h *BetHandler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.ModelID == "" {
		writeError(w, http.StatusBadRequest, "model_id is required")
		return
	}

	bet, err := h.engine.PlaceBet(req.ModelID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoActiveRace):
			writeError(w, http.StatusNotFound, "no active race")
		case errors.Is(err, domain.ErrUnknownModel):
			writeError(w, http.StatusNotFound, "unknown model")
		case errors.Is(err, domain.ErrBettingClosed):
			writeError(w, http.StatusConflict, "betting closed for this race")
		case errors.Is(err, domain.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "bet amount outside allowed bounds")
		case errors.Is(err, domain.ErrInsufficientFunds):
			writeError(w, http.StatusPaymentRequired, "insufficient funds")
		default:
			h.logger.ErrorContext(r.Context(), "handler: place bet failed",
				slog.String("model_id", req.ModelID),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to place bet")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toBetView(bet))
}
