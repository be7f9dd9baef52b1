package ledger

import (
	"errors"
	"testing"

	"github.com/dogeracehq/dogerace/internal/domain"
)

func TestPlaceBet_DebitsBalanceAndCountsBet(t *testing.T) {
	l := New(5000, 10, 1000)

	if err := l.PlaceBet(100); err != nil {
		t.Fatalf("PlaceBet(100) returned error: %v", err)
	}

	stats := l.Stats()
	if stats.Balance != 4900 {
		t.Errorf("balance = %g, want 4900", stats.Balance)
	}
	if stats.TotalBets != 1 {
		t.Errorf("total bets = %d, want 1", stats.TotalBets)
	}
}

func TestPlaceBet_RejectsOutOfBoundsWithoutMutation(t *testing.T) {
	l := New(5000, 10, 1000)

	cases := []struct {
		name   string
		amount float64
	}{
		{"below minimum", 5},
		{"above maximum", 1500},
		{"zero", 0},
		{"negative", -50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := l.PlaceBet(tc.amount); !errors.Is(err, domain.ErrInvalidAmount) {
				t.Errorf("PlaceBet(%g) = %v, want ErrInvalidAmount", tc.amount, err)
			}
		})
	}

	stats := l.Stats()
	if stats.Balance != 5000 || stats.TotalBets != 0 {
		t.Errorf("rejected bets mutated stats: %+v", stats)
	}
}

func TestPlaceBet_RejectsInsufficientFunds(t *testing.T) {
	l := New(500, 10, 10000)

	if err := l.PlaceBet(600); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("PlaceBet(600) = %v, want ErrInsufficientFunds", err)
	}
	if stats := l.Stats(); stats.Balance != 500 || stats.TotalBets != 0 {
		t.Errorf("rejected bet mutated stats: %+v", stats)
	}
}

func TestSettle_WinCreditsMultipliedPayout(t *testing.T) {
	l := New(5000, 10, 1000)
	if err := l.PlaceBet(100); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}

	delta := l.Settle(100, true, 3.0)

	if delta.BalanceChange != 300 {
		t.Errorf("delta balance change = %g, want 300", delta.BalanceChange)
	}
	if delta.EarningsChange != 200 {
		t.Errorf("delta earnings change = %g, want 200", delta.EarningsChange)
	}
	if !delta.Won {
		t.Error("delta.Won = false, want true")
	}

	stats := l.Stats()
	// 5000 - 100 stake + 300 payout.
	if stats.Balance != 5200 {
		t.Errorf("balance = %g, want 5200", stats.Balance)
	}
	if stats.TotalWon != 1 {
		t.Errorf("total won = %d, want 1", stats.TotalWon)
	}
	if stats.TotalEarnings != 200 {
		t.Errorf("total earnings = %g, want 200", stats.TotalEarnings)
	}
	if stats.WinRate != 100 {
		t.Errorf("win rate = %d, want 100", stats.WinRate)
	}
}

func TestSettle_LossCreditsNothing(t *testing.T) {
	l := New(5000, 10, 1000)
	if err := l.PlaceBet(100); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}

	delta := l.Settle(100, false, 3.0)

	if delta.BalanceChange != 0 {
		t.Errorf("delta balance change = %g, want 0", delta.BalanceChange)
	}
	if delta.EarningsChange != -100 {
		t.Errorf("delta earnings change = %g, want -100", delta.EarningsChange)
	}

	stats := l.Stats()
	// The stake was debited at placement; a loss must not debit it again.
	if stats.Balance != 4900 {
		t.Errorf("balance = %g, want 4900", stats.Balance)
	}
	if stats.TotalWon != 0 {
		t.Errorf("total won = %d, want 0", stats.TotalWon)
	}
	if stats.TotalEarnings != -100 {
		t.Errorf("total earnings = %g, want -100", stats.TotalEarnings)
	}
	if stats.WinRate != 0 {
		t.Errorf("win rate = %d, want 0", stats.WinRate)
	}
}

func TestSettle_WinRateRoundsHalfUp(t *testing.T) {
	l := New(10000, 10, 1000)

	// One win over three bets: 33.33 rounds to 33.
	for i := 0; i < 3; i++ {
		if err := l.PlaceBet(100); err != nil {
			t.Fatalf("PlaceBet #%d: %v", i+1, err)
		}
	}
	l.Settle(100, true, 3.0)
	l.Settle(100, false, 3.0)
	l.Settle(100, false, 3.0)
	if got := l.Stats().WinRate; got != 33 {
		t.Errorf("win rate after 1/3 = %d, want 33", got)
	}

	// A second win makes it 50%: 2 wins over 4 bets.
	if err := l.PlaceBet(100); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	l.Settle(100, true, 3.0)
	if got := l.Stats().WinRate; got != 50 {
		t.Errorf("win rate after 2/4 = %d, want 50", got)
	}
}

func TestReset_RestoresStartingState(t *testing.T) {
	l := New(5000, 10, 1000)
	if err := l.PlaceBet(500); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	l.Settle(500, true, 3.0)

	l.Reset()

	stats := l.Stats()
	want := domain.UserStats{Balance: 5000}
	if stats != want {
		t.Errorf("stats after reset = %+v, want %+v", stats, want)
	}
}
