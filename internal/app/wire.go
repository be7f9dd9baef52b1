package app

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/dogeracehq/dogerace/internal/bus"
	"github.com/dogeracehq/dogerace/internal/config"
	"github.com/dogeracehq/dogerace/internal/domain"
	"github.com/dogeracehq/dogerace/internal/engine"
	"github.com/dogeracehq/dogerace/internal/ledger"
	"github.com/dogeracehq/dogerace/internal/market"
	"github.com/dogeracehq/dogerace/internal/notify"
)

// Dependencies bundles everything the application modes need to operate.
type Dependencies struct {
	Bus      *bus.Bus
	Engine   *engine.Engine
	Notifier *notify.Notifier // nil when no notification target is configured
}

// Wire constructs the engine and its collaborators from the given
// configuration. The whole dependency graph is in-process, so there is
// nothing to tear down beyond cancelling the run context.
func Wire(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	seed := cfg.Market.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	prices := market.NewSimPriceSource(cfg.Market.BasePrice, cfg.Market.Volatility, rng)
	forecaster := market.NewForecaster(rng)

	roster := make([]domain.Model, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		roster = append(roster, domain.Model{
			ID:          m.ID,
			Name:        m.Name,
			Personality: m.Personality,
			Color:       m.Color,
		})
	}

	lgr := ledger.New(cfg.Betting.StartingBalance, cfg.Betting.MinAmount, cfg.Betting.MaxAmount)

	b := bus.New()

	eng := engine.New(engine.Config{
		CountdownSeconds:    cfg.Race.CountdownSeconds,
		LockThresholdSecs:   cfg.Race.LockThresholdSecs,
		RunningDelaySeconds: cfg.Race.RunningDelaySeconds,
		RestartDelaySeconds: cfg.Race.RestartDelaySeconds,
		PayoutMultiplier:    cfg.Betting.PayoutMultiplier,
	}, prices, forecaster, roster, lgr, b, logger)

	return &Dependencies{
		Bus:      b,
		Engine:   eng,
		Notifier: notify.FromConfig(cfg.Notify, logger),
	}, nil
}
