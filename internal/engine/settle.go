package engine

import (
	"log/slog"
	"math"
	"time"

	"github.com/dogeracehq/dogerace/internal/domain"
)

// pickWinner returns the model whose prediction is closest to finalPrice.
// A later model only overtakes when strictly closer, so exact ties resolve
// to the earliest-listed model in roster order. Iteration order must not
// change: it decides tie outcomes.
func pickWinner(models []domain.Model, finalPrice float64) domain.Model {
	winner := models[0]
	smallest := math.Abs(finalPrice - winner.Prediction)
	for _, m := range models {
		diff := math.Abs(finalPrice - m.Prediction)
		if diff < smallest {
			smallest = diff
			winner = m
		}
	}
	return winner
}

// finishedEvent carries one settlement result from finishLocked to the
// callback delivery in Tick.
type finishedEvent struct {
	past  domain.PastRace
	delta domain.LedgerDelta
}

// finishLocked settles the active race: samples the final price, picks the
// winner, settles the user's bet if one exists, archives the PastRace, and
// transitions the race to finished. The whole settlement is applied under the
// engine mutex, so no partial state is ever observable; the finished callback
// is staged here and delivered by Tick after the lock is released. Callers
// must hold e.mu; the race must be in running status.
func (e *Engine) finishLocked() {
	finalPrice := e.prices.Sample()
	winner := pickWinner(e.race.Models, finalPrice)

	e.race.Status = domain.RaceStatusFinished
	e.race.TargetPrice = finalPrice
	e.race.Winner = winner.ID
	e.race.TimeRemaining = 0
	e.phaseTicks = 0

	past := domain.PastRace{
		ID:         e.race.ID,
		Name:       e.race.Name,
		StartPrice: e.race.CurrentPrice,
		EndPrice:   finalPrice,
		Winner:     winner,
		Models:     make([]domain.Model, len(e.race.Models)),
		Timestamp:  time.Now().UTC(),
	}
	copy(past.Models, e.race.Models)

	var delta domain.LedgerDelta
	if e.bet != nil {
		won := e.bet.ModelID == winner.ID
		delta = e.ledger.Settle(e.bet.Amount, won, e.cfg.PayoutMultiplier)
		if won {
			e.bet.Status = domain.BetStatusWon
			e.bet.Payout = e.bet.Amount * e.cfg.PayoutMultiplier
		} else {
			e.bet.Status = domain.BetStatusLost
		}
		settled := *e.bet
		past.UserBet = &settled
	}

	// Newest first.
	e.history = append([]domain.PastRace{past}, e.history...)

	e.logger.Info("race settled",
		slog.String("race_id", e.race.ID),
		slog.Float64("final_price", finalPrice),
		slog.String("winner_id", winner.ID),
		slog.Bool("had_bet", past.UserBet != nil),
		slog.Bool("won", delta.Won),
	)

	e.publishRaceLocked()
	e.publishSettlementLocked(past, delta)
	e.publishLedgerLocked()

	e.justFinished = &finishedEvent{past: past, delta: delta}
}
