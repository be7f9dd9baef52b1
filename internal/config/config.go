// Package config defines the top-level configuration for the dogerace engine
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by DOGERACE_* environment variables.
type Config struct {
	Race     RaceConfig    `toml:"race"`
	Betting  BettingConfig `toml:"betting"`
	Market   MarketConfig  `toml:"market"`
	Models   []ModelConfig `toml:"models"`
	Server   ServerConfig  `toml:"server"`
	Notify   NotifyConfig  `toml:"notify"`
	Mode     string        `toml:"mode"`
	LogLevel string        `toml:"log_level"`
}

// RaceConfig holds the race lifecycle timing parameters. All values are in
// whole seconds because the engine advances in one-second ticks.
type RaceConfig struct {
	CountdownSeconds    int `toml:"countdown_seconds"`
	LockThresholdSecs   int `toml:"lock_threshold_seconds"`
	RunningDelaySeconds int `toml:"running_delay_seconds"`
	RestartDelaySeconds int `toml:"restart_delay_seconds"`
}

// BettingConfig holds wager bounds and payout parameters.
type BettingConfig struct {
	MinAmount        float64 `toml:"min_amount"`
	MaxAmount        float64 `toml:"max_amount"`
	PayoutMultiplier float64 `toml:"payout_multiplier"`
	StartingBalance  float64 `toml:"starting_balance"`
}

// MarketConfig holds the simulated price source parameters.
type MarketConfig struct {
	BasePrice  float64 `toml:"base_price"`
	Volatility float64 `toml:"volatility"`
	// Seed fixes the randomness source for reproducible runs. Zero means
	// seed from the current time.
	Seed int64 `toml:"seed"`
}

// ModelConfig describes one prediction agent in the roster. Roster order is
// significant: it is the settlement tie-break order.
type ModelConfig struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Personality string `toml:"personality"`
	Color       string `toml:"color"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
}

// NotifyConfig holds external notification targets. Notifications fire on
// settlement; leaving every target empty disables the notifier entirely.
type NotifyConfig struct {
	TelegramToken  string   `toml:"telegram_token"`
	TelegramChatID string   `toml:"telegram_chat_id"`
	DiscordWebhook string   `toml:"discord_webhook"`
	Events         []string `toml:"events"`
}

// Enabled reports whether at least one notification target is configured.
func (n NotifyConfig) Enabled() bool {
	return (n.TelegramToken != "" && n.TelegramChatID != "") || n.DiscordWebhook != ""
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Race: RaceConfig{
			CountdownSeconds:    300,
			LockThresholdSecs:   30,
			RunningDelaySeconds: 2,
			RestartDelaySeconds: 3,
		},
		Betting: BettingConfig{
			MinAmount:        10,
			MaxAmount:        1000,
			PayoutMultiplier: 3.0,
			StartingBalance:  5000,
		},
		Market: MarketConfig{
			BasePrice:  0.085,
			Volatility: 0.05,
			Seed:       0,
		},
		Models: []ModelConfig{
			{ID: "model-1", Name: "Wow Oracle", Personality: "momentum", Color: "#F59E0B"},
			{ID: "model-2", Name: "Such Signal", Personality: "contrarian", Color: "#DC2626"},
			{ID: "model-3", Name: "Very Stable", Personality: "steady", Color: "#10B981"},
			{ID: "model-4", Name: "Moon Former", Personality: "degen", Color: "#8B5CF6"},
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Events: []string{"race_settled"},
		},
		Mode:     "server",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"server": true,
	"sim":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validPersonalities enumerates the forecasting personalities understood by
// the prediction generator.
var validPersonalities = map[string]bool{
	"momentum":   true,
	"contrarian": true,
	"steady":     true,
	"degen":      true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, sim)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Race timing
	if c.Race.CountdownSeconds <= 0 {
		errs = append(errs, "race: countdown_seconds must be positive")
	}
	if c.Race.LockThresholdSecs <= 0 {
		errs = append(errs, "race: lock_threshold_seconds must be positive")
	}
	if c.Race.LockThresholdSecs >= c.Race.CountdownSeconds {
		errs = append(errs, fmt.Sprintf("race: lock_threshold_seconds (%d) must be less than countdown_seconds (%d)",
			c.Race.LockThresholdSecs, c.Race.CountdownSeconds))
	}
	if c.Race.RunningDelaySeconds <= 0 {
		errs = append(errs, "race: running_delay_seconds must be positive")
	}
	if c.Race.RestartDelaySeconds <= 0 {
		errs = append(errs, "race: restart_delay_seconds must be positive")
	}

	// Betting
	if c.Betting.MinAmount <= 0 {
		errs = append(errs, "betting: min_amount must be positive")
	}
	if c.Betting.MaxAmount < c.Betting.MinAmount {
		errs = append(errs, fmt.Sprintf("betting: max_amount (%g) must be at least min_amount (%g)",
			c.Betting.MaxAmount, c.Betting.MinAmount))
	}
	if c.Betting.PayoutMultiplier <= 1 {
		errs = append(errs, "betting: payout_multiplier must be greater than 1")
	}
	if c.Betting.StartingBalance < 0 {
		errs = append(errs, "betting: starting_balance must not be negative")
	}

	// Market
	if c.Market.BasePrice <= 0 {
		errs = append(errs, "market: base_price must be positive")
	}
	if c.Market.Volatility <= 0 || c.Market.Volatility >= 1 {
		errs = append(errs, fmt.Sprintf("market: volatility must be in (0, 1), got %g", c.Market.Volatility))
	}

	// Models — an empty roster is a startup precondition violation.
	if len(c.Models) == 0 {
		errs = append(errs, "models: roster must not be empty")
	}
	seen := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		if m.ID == "" {
			errs = append(errs, fmt.Sprintf("models[%d]: id must not be empty", i))
			continue
		}
		if seen[m.ID] {
			errs = append(errs, fmt.Sprintf("models[%d]: duplicate id %q", i, m.ID))
		}
		seen[m.ID] = true
		if m.Name == "" {
			errs = append(errs, fmt.Sprintf("models[%d]: name must not be empty", i))
		}
		if !validPersonalities[m.Personality] {
			errs = append(errs, fmt.Sprintf("models[%d]: unknown personality %q (valid: momentum, contrarian, steady, degen)", i, m.Personality))
		}
	}

	// Notify
	if c.Notify.TelegramToken != "" && c.Notify.TelegramChatID == "" {
		errs = append(errs, "notify: telegram_chat_id is required when telegram_token is set")
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
