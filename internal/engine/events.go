package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dogeracehq/dogerace/internal/domain"
)

// Bus channel names the engine publishes on. The websocket hub subscribes to
// the same set.
const (
	ChannelRaces       = "races"
	ChannelSettlements = "settlements"
	ChannelLedger      = "ledger"
)

func modelViews(models []domain.Model) []map[string]any {
	out := make([]map[string]any, 0, len(models))
	for _, m := range models {
		out = append(out, map[string]any{
			"id":          m.ID,
			"name":        m.Name,
			"personality": m.Personality,
			"color":       m.Color,
			"prediction":  m.Prediction,
			"confidence":  m.Confidence,
		})
	}
	return out
}

func betView(b *domain.Bet) map[string]any {
	if b == nil {
		return nil
	}
	return map[string]any{
		"id":       b.ID,
		"race_id":  b.RaceID,
		"model_id": b.ModelID,
		"amount":   b.Amount,
		"status":   string(b.Status),
		"payout":   b.Payout,
	}
}

// publish marshals the envelope and hands it to the bus. Publishing is best
// effort: the engine never fails a tick because a consumer lagged.
func (e *Engine) publish(channel string, envelope map[string]any) {
	if e.pub == nil {
		return
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return
	}
	if pubErr := e.pub.Publish(context.Background(), channel, payload); pubErr != nil {
		e.logger.Warn("engine: publish event failed",
			slog.String("channel", channel),
			slog.String("error", pubErr.Error()),
		)
	}
}

func (e *Engine) publishRaceLocked() {
	r := e.race
	e.publish(ChannelRaces, map[string]any{
		"event": "race_update",
		"race": map[string]any{
			"id":             r.ID,
			"name":           r.Name,
			"status":         string(r.Status),
			"current_price":  r.CurrentPrice,
			"target_price":   r.TargetPrice,
			"time_remaining": r.TimeRemaining,
			"winner":         r.Winner,
			"models":         modelViews(r.Models),
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (e *Engine) publishSettlementLocked(past domain.PastRace, delta domain.LedgerDelta) {
	e.publish(ChannelSettlements, map[string]any{
		"event":       "race_settled",
		"race_id":     past.ID,
		"start_price": past.StartPrice,
		"end_price":   past.EndPrice,
		"winner_id":   past.Winner.ID,
		"winner_name": past.Winner.Name,
		"user_bet":    betView(past.UserBet),
		"delta": map[string]any{
			"balance_change":  delta.BalanceChange,
			"earnings_change": delta.EarningsChange,
			"won":             delta.Won,
		},
		"timestamp": past.Timestamp.Format(time.RFC3339Nano),
	})
}

func (e *Engine) publishLedgerLocked() {
	stats := e.ledger.Stats()
	e.publish(ChannelLedger, map[string]any{
		"event":          "ledger_update",
		"balance":        stats.Balance,
		"total_bets":     stats.TotalBets,
		"total_won":      stats.TotalWon,
		"win_rate":       stats.WinRate,
		"total_earnings": stats.TotalEarnings,
		"timestamp":      time.Now().UTC().Format(time.RFC3339Nano),
	})
}
