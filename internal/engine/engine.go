// Package engine owns the active race, the user's bet, the session ledger,
// and the race history. It is the single writer for all of them: every
// mutation goes through the one-second Tick, PlaceBet, StartNewRace, or
// Reset, serialized by the engine mutex.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dogeracehq/dogerace/internal/domain"
	"github.com/dogeracehq/dogerace/internal/ledger"
	"github.com/dogeracehq/dogerace/internal/market"
)

// Publisher is the event sink the engine emits JSON envelopes to. It is
// declared locally so the engine does not depend on the concrete bus
// implementation.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Config holds the engine's timing and payout parameters. All timing values
// are whole seconds; the engine advances one second per Tick.
type Config struct {
	CountdownSeconds    int
	LockThresholdSecs   int
	RunningDelaySeconds int
	RestartDelaySeconds int
	PayoutMultiplier    float64
}

// FinishedFunc is invoked exactly once per race, after the settlement has
// been applied and the engine lock released. It may read engine state; slow
// work inside it delays the tick that settled the race but nothing else.
type FinishedFunc func(domain.PastRace, domain.LedgerDelta)

// Engine runs the race lifecycle state machine.
type Engine struct {
	cfg        Config
	prices     market.PriceSource
	forecaster *market.Forecaster
	roster     []domain.Model
	ledger     *ledger.Ledger
	pub        Publisher // may be nil
	logger     *slog.Logger

	mu           sync.Mutex
	race         *domain.Race
	bet          *domain.Bet
	history      []domain.PastRace
	sequence     int
	phaseTicks   int // ticks spent in the running or finished phase
	onFinished   FinishedFunc
	justFinished *finishedEvent // settlement pending callback delivery
}

// New creates an Engine. The roster must be non-empty (enforced by config
// validation before wiring). pub may be nil to disable event publishing.
func New(cfg Config, prices market.PriceSource, forecaster *market.Forecaster, roster []domain.Model, lgr *ledger.Ledger, pub Publisher, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		prices:     prices,
		forecaster: forecaster,
		roster:     roster,
		ledger:     lgr,
		pub:        pub,
		logger:     logger.With(slog.String("component", "engine")),
	}
}

// OnFinished registers the settlement callback. Must be called before the
// engine starts ticking.
func (e *Engine) OnFinished(fn FinishedFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onFinished = fn
}

// StartNewRace discards any active race and creates a fresh one in betting
// status: a new price sample, fresh forecasts for the whole roster, and the
// next race sequence number. It returns a snapshot of the new race.
func (e *Engine) StartNewRace() domain.Race {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startNewRaceLocked()
	return e.snapshotLocked()
}

func (e *Engine) startNewRaceLocked() {
	price := e.prices.Sample()
	models := e.forecaster.Predictions(price, e.roster)

	e.sequence++
	e.race = &domain.Race{
		ID:            fmt.Sprintf("race-%03d", e.sequence),
		Name:          fmt.Sprintf("Race #%03d", e.sequence),
		Sequence:      e.sequence,
		Status:        domain.RaceStatusBetting,
		CurrentPrice:  price,
		TimeRemaining: e.cfg.CountdownSeconds,
		Models:        models,
		StartedAt:     time.Now().UTC(),
	}
	e.bet = nil
	e.phaseTicks = 0

	e.logger.Info("race started",
		slog.String("race_id", e.race.ID),
		slog.Float64("current_price", price),
		slog.Int("countdown", e.cfg.CountdownSeconds),
	)
	e.publishRaceLocked()
}

// Tick advances simulated time by one second and returns a snapshot of the
// (possibly transitioned) race. Each transition is guarded by a status check,
// never a bare time comparison, so a duplicate tick at the same remaining
// value can never re-trigger lock or finish logic.
func (e *Engine) Tick() (domain.Race, error) {
	e.mu.Lock()

	if e.race == nil {
		e.mu.Unlock()
		return domain.Race{}, domain.ErrNoActiveRace
	}

	switch e.race.Status {
	case domain.RaceStatusBetting, domain.RaceStatusLocked:
		if e.race.TimeRemaining > 0 {
			e.race.TimeRemaining--
		}
		if e.race.Status == domain.RaceStatusBetting && e.race.TimeRemaining <= e.cfg.LockThresholdSecs {
			e.race.Status = domain.RaceStatusLocked
			e.logger.Info("race locked",
				slog.String("race_id", e.race.ID),
				slog.Int("time_remaining", e.race.TimeRemaining),
			)
			e.publishRaceLocked()
		}
		if e.race.Status == domain.RaceStatusLocked && e.race.TimeRemaining == 0 {
			e.race.Status = domain.RaceStatusRunning
			e.phaseTicks = 0
			e.logger.Info("race running", slog.String("race_id", e.race.ID))
			e.publishRaceLocked()
		}

	case domain.RaceStatusRunning:
		e.phaseTicks++
		if e.phaseTicks >= e.cfg.RunningDelaySeconds {
			e.finishLocked()
		}

	case domain.RaceStatusFinished:
		e.phaseTicks++
		if e.phaseTicks >= e.cfg.RestartDelaySeconds {
			e.startNewRaceLocked()
		}
	}

	snap := e.snapshotLocked()
	ev := e.justFinished
	e.justFinished = nil
	fn := e.onFinished
	e.mu.Unlock()

	// The settlement callback runs outside the lock so slow consumers cannot
	// stall PlaceBet or Snapshot, and may itself call back into the engine.
	if ev != nil && fn != nil {
		fn(ev.past, ev.delta)
	}

	return snap, nil
}

// PlaceBet places the user's single wager for the current race. The bet is
// rejected without any state change when no race is active, the race is not
// accepting bets, a bet is already active, the model is unknown, or the
// ledger refuses the amount.
func (e *Engine) PlaceBet(modelID string, amount float64) (domain.Bet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.race == nil {
		return domain.Bet{}, domain.ErrNoActiveRace
	}
	if e.race.Status != domain.RaceStatusBetting || e.bet != nil {
		return domain.Bet{}, domain.ErrBettingClosed
	}
	if !e.hasModelLocked(modelID) {
		return domain.Bet{}, domain.ErrUnknownModel
	}
	if err := e.ledger.PlaceBet(amount); err != nil {
		return domain.Bet{}, err
	}

	e.bet = &domain.Bet{
		ID:       uuid.NewString(),
		RaceID:   e.race.ID,
		ModelID:  modelID,
		Amount:   amount,
		Status:   domain.BetStatusActive,
		PlacedAt: time.Now().UTC(),
	}

	e.logger.Info("bet placed",
		slog.String("bet_id", e.bet.ID),
		slog.String("race_id", e.race.ID),
		slog.String("model_id", modelID),
		slog.Float64("amount", amount),
	)
	e.publishLedgerLocked()

	return *e.bet, nil
}

// Snapshot returns a copy of the active race. The second return is false when
// no race exists.
func (e *Engine) Snapshot() (domain.Race, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.race == nil {
		return domain.Race{}, false
	}
	return e.snapshotLocked(), true
}

// CurrentBet returns a copy of the active bet, if any.
func (e *Engine) CurrentBet() (domain.Bet, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bet == nil {
		return domain.Bet{}, false
	}
	return *e.bet, true
}

// Ledger returns a read-only snapshot of the session statistics.
func (e *Engine) Ledger() domain.UserStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Stats()
}

// History returns the settled races, newest first, up to limit entries.
// limit <= 0 returns everything. Entries are deep copies; callers cannot
// reach the archived records through them.
func (e *Engine) History(limit int) []domain.PastRace {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.PastRace, n)
	for i, p := range e.history[:n] {
		p.Models = append([]domain.Model(nil), p.Models...)
		if p.UserBet != nil {
			b := *p.UserBet
			p.UserBet = &b
		}
		out[i] = p
	}
	return out
}

// Reset discards the active race, the bet, and the history, and restores the
// starting ledger. Used when the session ends; the run loop's context
// cancellation handles any in-flight timers.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.race = nil
	e.bet = nil
	e.history = nil
	e.sequence = 0
	e.phaseTicks = 0
	e.ledger.Reset()

	e.logger.Info("session reset")
	e.publishLedgerLocked()
}

// Run drives the engine with a real one-second ticker until ctx is
// cancelled. It is the only production tick source; there is exactly one
// timer regardless of how many races come and go. Cancelling ctx stops the
// timer before it can touch a discarded race.
func (e *Engine) Run(ctx context.Context) error {
	if _, ok := e.Snapshot(); !ok {
		e.StartNewRace()
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	e.logger.Info("engine started")
	defer e.logger.Info("engine stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := e.Tick(); err != nil {
				// A session reset discards the race; the next tick opens a
				// fresh session instead of killing the loop.
				if errors.Is(err, domain.ErrNoActiveRace) {
					e.StartNewRace()
					continue
				}
				return fmt.Errorf("engine: tick: %w", err)
			}
		}
	}
}

func (e *Engine) hasModelLocked(modelID string) bool {
	for _, m := range e.race.Models {
		if m.ID == modelID {
			return true
		}
	}
	return false
}

// snapshotLocked returns a deep copy of the active race. Callers must hold
// e.mu and must have checked e.race != nil.
func (e *Engine) snapshotLocked() domain.Race {
	snap := *e.race
	snap.Models = make([]domain.Model, len(e.race.Models))
	copy(snap.Models, e.race.Models)
	return snap
}
