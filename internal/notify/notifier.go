// Package notify pushes race outcomes to external channels. Each settlement
// can be fanned out to Telegram and Discord so operators can follow a long
// running session without watching the logs.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dogeracehq/dogerace/internal/config"
	"github.com/dogeracehq/dogerace/internal/domain"
)

// EventRaceSettled is emitted when a race finishes and any active bet has been
// settled.
const EventRaceSettled = "race_settled"

// Sender delivers a single formatted notification to one external channel.
type Sender interface {
	Send(ctx context.Context, title, message string) error
	// Name identifies the channel in logs (e.g. "telegram").
	Name() string
}

// Notifier formats race events and fans them out to the configured senders.
// An event type not present in the allowed set is dropped; an empty set allows
// everything.
type Notifier struct {
	senders []Sender
	events  map[string]bool
	logger  *slog.Logger
}

// New builds a Notifier for the given senders. events restricts which event
// types are delivered; pass nil to allow all.
func New(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		allowed[strings.TrimSpace(e)] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// FromConfig builds a Notifier with senders derived from the notify config
// section. It returns nil when no target is configured, which callers treat
// as "notifications disabled".
func FromConfig(cfg config.NotifyConfig, logger *slog.Logger) *Notifier {
	if !cfg.Enabled() {
		return nil
	}
	var senders []Sender
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		senders = append(senders, NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID))
	}
	if cfg.DiscordWebhook != "" {
		senders = append(senders, NewDiscordSender(cfg.DiscordWebhook))
	}
	return New(senders, cfg.Events, logger)
}

// RaceSettled formats and dispatches a settlement summary for the given past
// race. Safe to call on a nil Notifier.
func (n *Notifier) RaceSettled(ctx context.Context, past *domain.PastRace) error {
	if n == nil {
		return nil
	}
	if len(n.events) > 0 && !n.events[EventRaceSettled] {
		return nil
	}

	title := fmt.Sprintf("Race settled: %s", past.Name)
	var b strings.Builder
	fmt.Fprintf(&b, "Winner: %s\n", past.Winner.Name)
	fmt.Fprintf(&b, "Price: $%.4f -> $%.4f\n", past.StartPrice, past.EndPrice)
	if past.UserBet != nil {
		switch past.UserBet.Status {
		case domain.BetStatusWon:
			fmt.Fprintf(&b, "Bet: WON %.0f (payout %.0f)", past.UserBet.Amount, past.UserBet.Payout)
		case domain.BetStatusLost:
			fmt.Fprintf(&b, "Bet: LOST %.0f", past.UserBet.Amount)
		}
	} else {
		b.WriteString("Bet: none")
	}

	return n.dispatch(ctx, title, b.String())
}

// dispatch delivers to every sender. A failing sender does not block the
// rest; failures are combined into one error.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("title", title),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
