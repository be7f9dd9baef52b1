package domain

// UserStats is the running aggregate of the user's session: balance and
// betting statistics. Mutated only by bet placement and settlement.
type UserStats struct {
	Balance       float64
	TotalBets     int
	TotalWon      int
	WinRate       int // round(100 * TotalWon / TotalBets), half up
	TotalEarnings float64
}

// LedgerDelta describes the ledger effect of one settlement.
type LedgerDelta struct {
	BalanceChange  float64
	EarningsChange float64
	Won            bool
}
