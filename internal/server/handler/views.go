package handler

import (
	"time"

	"github.com/dogeracehq/dogerace/internal/domain"
)

// View structs give the API stable snake_case JSON independent of the domain
// types.

type modelView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Personality string  `json:"personality"`
	Color       string  `json:"color"`
	Prediction  float64 `json:"prediction"`
	Confidence  int     `json:"confidence"`
}

type raceView struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Status        string      `json:"status"`
	CurrentPrice  float64     `json:"current_price"`
	TargetPrice   float64     `json:"target_price"`
	TimeRemaining int         `json:"time_remaining"`
	Winner        string      `json:"winner,omitempty"`
	Models        []modelView `json:"models"`
	StartedAt     time.Time   `json:"started_at"`
}

type betView struct {
	ID       string    `json:"id"`
	RaceID   string    `json:"race_id"`
	ModelID  string    `json:"model_id"`
	Amount   float64   `json:"amount"`
	Status   string    `json:"status"`
	Payout   float64   `json:"payout"`
	PlacedAt time.Time `json:"placed_at"`
}

type statsView struct {
	Balance       float64 `json:"balance"`
	TotalBets     int     `json:"total_bets"`
	TotalWon      int     `json:"total_won"`
	WinRate       int     `json:"win_rate"`
	TotalEarnings float64 `json:"total_earnings"`
}

type pastRaceView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	StartPrice float64     `json:"start_price"`
	EndPrice   float64     `json:"end_price"`
	Winner     modelView   `json:"winner"`
	Models     []modelView `json:"models"`
	UserBet    *betView    `json:"user_bet,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

func toModelView(m domain.Model) modelView {
	return modelView{
		ID:          m.ID,
		Name:        m.Name,
		Personality: m.Personality,
		Color:       m.Color,
		Prediction:  m.Prediction,
		Confidence:  m.Confidence,
	}
}

func toModelViews(models []domain.Model) []modelView {
	out := make([]modelView, 0, len(models))
	for _, m := range models {
		out = append(out, toModelView(m))
	}
	return out
}

func toRaceView(r domain.Race) raceView {
	return raceView{
		ID:            r.ID,
		Name:          r.Name,
		Status:        string(r.Status),
		CurrentPrice:  r.CurrentPrice,
		TargetPrice:   r.TargetPrice,
		TimeRemaining: r.TimeRemaining,
		Winner:        r.Winner,
		Models:        toModelViews(r.Models),
		StartedAt:     r.StartedAt,
	}
}

func toBetView(b domain.Bet) betView {
	return betView{
		ID:       b.ID,
		RaceID:   b.RaceID,
		ModelID:  b.ModelID,
		Amount:   b.Amount,
		Status:   string(b.Status),
		Payout:   b.Payout,
		PlacedAt: b.PlacedAt,
	}
}

func toStatsView(s domain.UserStats) statsView {
	return statsView{
		Balance:       s.Balance,
		TotalBets:     s.TotalBets,
		TotalWon:      s.TotalWon,
		WinRate:       s.WinRate,
		TotalEarnings: s.TotalEarnings,
	}
}

func toPastRaceView(p domain.PastRace) pastRaceView {
	v := pastRaceView{
		ID:         p.ID,
		Name:       p.Name,
		StartPrice: p.StartPrice,
		EndPrice:   p.EndPrice,
		Winner:     toModelView(p.Winner),
		Models:     toModelViews(p.Models),
		Timestamp:  p.Timestamp,
	}
	if p.UserBet != nil {
		b := toBetView(*p.UserBet)
		v.UserBet = &b
	}
	return v
}
