// Package ledger tracks the user's session balance and betting statistics.
// The ledger has exactly two mutation paths: debiting a placed bet and
// applying a settlement result.
package ledger

import (
	"math"

	"github.com/dogeracehq/dogerace/internal/domain"
)

// Ledger owns the session's UserStats. It is not safe for concurrent use;
// the engine serializes all access.
type Ledger struct {
	stats           domain.UserStats
	startingBalance float64
	minAmount       float64
	maxAmount       float64
}

// New creates a Ledger with the given starting balance and wager bounds.
func New(startingBalance, minAmount, maxAmount float64) *Ledger {
	return &Ledger{
		stats: domain.UserStats{
			Balance: startingBalance,
		},
		startingBalance: startingBalance,
		minAmount:       minAmount,
		maxAmount:       maxAmount,
	}
}

// Reset restores the ledger to its starting state. Used when the session is
// reset.
func (l *Ledger) Reset() {
	l.stats = domain.UserStats{Balance: l.startingBalance}
}

// Stats returns a copy of the current session statistics.
func (l *Ledger) Stats() domain.UserStats {
	return l.stats
}

// PlaceBet validates amount against the configured bounds and the current
// balance, then debits the balance and increments the bet count
// speculatively. It returns an error without mutating anything when the
// amount is rejected.
func (l *Ledger) PlaceBet(amount float64) error {
	if amount < l.minAmount || amount > l.maxAmount {
		return domain.ErrInvalidAmount
	}
	if amount > l.stats.Balance {
		return domain.ErrInsufficientFunds
	}

	l.stats.Balance -= amount
	l.stats.TotalBets++
	return nil
}

// Settle applies the outcome of one settled bet. A win credits
// amount*multiplier back to the balance (the stake was already debited at
// placement); a loss credits nothing. The win rate is recomputed from the
// post-settlement totals, rounding half up.
func (l *Ledger) Settle(amount float64, won bool, multiplier float64) domain.LedgerDelta {
	delta := domain.LedgerDelta{Won: won}

	if won {
		payout := amount * multiplier
		l.stats.Balance += payout
		l.stats.TotalWon++
		delta.BalanceChange = payout
		delta.EarningsChange = payout - amount
	} else {
		delta.EarningsChange = -amount
	}
	l.stats.TotalEarnings += delta.EarningsChange

	if l.stats.TotalBets > 0 {
		l.stats.WinRate = int(math.Round(100 * float64(l.stats.TotalWon) / float64(l.stats.TotalBets)))
	}

	return delta
}
