package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dogeracehq/dogerace/internal/domain"
	"github.com/dogeracehq/dogerace/internal/server"
	"github.com/dogeracehq/dogerace/internal/server/handler"
	"github.com/dogeracehq/dogerace/internal/server/ws"
)

// ServerMode runs the race engine alongside the HTTP + WebSocket API that the
// presentation layer consumes.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)

	if deps.Notifier != nil {
		deps.Engine.OnFinished(func(past domain.PastRace, _ domain.LedgerDelta) {
			// Senders do synchronous HTTP; keep them off the tick goroutine.
			go func() {
				if err := deps.Notifier.RaceSettled(ctx, &past); err != nil {
					a.logger.WarnContext(ctx, "settlement notification failed",
						slog.String("error", err.Error()),
					)
				}
			}()
		})
	}

	// Engine run loop: the single tick source.
	g.Go(func() error {
		return deps.Engine.Run(ctx)
	})

	// WebSocket hub bridging the bus to clients.
	hub := ws.NewHub(deps.Bus, a.logger, a.cfg.Mode)
	g.Go(func() error {
		return hub.Run(ctx)
	})

	// HTTP API.
	if a.cfg.Server.Enabled {
		handlers := server.Handlers{
			Health: handler.NewHealthHandler(a.logger),
			Race:   handler.NewRaceHandler(deps.Engine, a.logger),
			Bets:   handler.NewBetHandler(deps.Engine, a.logger),
			Stats:  handler.NewStatsHandler(deps.Engine, a.logger),
		}
		srv := server.NewServer(server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
			APIKey:      a.cfg.Server.APIKey,
		}, handlers, hub, a.logger)

		g.Go(func() error {
			return srv.Start()
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// SimMode runs the engine headless and logs every settlement result. Useful
// for observing payout behavior over many races without a client attached.
func (a *App) SimMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting sim mode")

	deps.Engine.OnFinished(func(past domain.PastRace, delta domain.LedgerDelta) {
		a.logger.InfoContext(ctx, "race finished",
			slog.String("race_id", past.ID),
			slog.Float64("start_price", past.StartPrice),
			slog.Float64("end_price", past.EndPrice),
			slog.String("winner", past.Winner.Name),
			slog.Bool("had_bet", past.UserBet != nil),
			slog.Float64("balance_change", delta.BalanceChange),
		)
		if err := deps.Notifier.RaceSettled(ctx, &past); err != nil {
			a.logger.WarnContext(ctx, "settlement notification failed",
				slog.String("error", err.Error()),
			)
		}
	})

	return deps.Engine.Run(ctx)
}
