package domain

import "time"

// BetStatus represents the settlement state of a bet.
type BetStatus string

const (
	BetStatusActive BetStatus = "active"
	BetStatusWon    BetStatus = "won"
	BetStatusLost   BetStatus = "lost"
)

// Bet is the user's single wager on one model winning the current race. It is
// created only while the owning race is in betting status and settled exactly
// once when the race finishes.
type Bet struct {
	ID       string
	RaceID   string
	ModelID  string
	Amount   float64
	Status   BetStatus
	Payout   float64 // set only on a win
	PlacedAt time.Time
}

// PastRace is an immutable snapshot of a settled race, archived newest first.
type PastRace struct {
	ID         string
	Name       string
	StartPrice float64
	EndPrice   float64
	Winner     Model
	Models     []Model
	UserBet    *Bet // nil when no bet was placed before lock
	Timestamp  time.Time
}
