package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies DOGERACE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known DOGERACE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators tweak timing or the server without touching the
// TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Race ──
	setInt(&cfg.Race.CountdownSeconds, "DOGERACE_RACE_COUNTDOWN_SECONDS")
	setInt(&cfg.Race.LockThresholdSecs, "DOGERACE_RACE_LOCK_THRESHOLD_SECONDS")
	setInt(&cfg.Race.RunningDelaySeconds, "DOGERACE_RACE_RUNNING_DELAY_SECONDS")
	setInt(&cfg.Race.RestartDelaySeconds, "DOGERACE_RACE_RESTART_DELAY_SECONDS")

	// ── Betting ──
	setFloat64(&cfg.Betting.MinAmount, "DOGERACE_BETTING_MIN_AMOUNT")
	setFloat64(&cfg.Betting.MaxAmount, "DOGERACE_BETTING_MAX_AMOUNT")
	setFloat64(&cfg.Betting.PayoutMultiplier, "DOGERACE_BETTING_PAYOUT_MULTIPLIER")
	setFloat64(&cfg.Betting.StartingBalance, "DOGERACE_BETTING_STARTING_BALANCE")

	// ── Market ──
	setFloat64(&cfg.Market.BasePrice, "DOGERACE_MARKET_BASE_PRICE")
	setFloat64(&cfg.Market.Volatility, "DOGERACE_MARKET_VOLATILITY")
	setInt64(&cfg.Market.Seed, "DOGERACE_MARKET_SEED")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "DOGERACE_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "DOGERACE_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "DOGERACE_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "DOGERACE_SERVER_API_KEY")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "DOGERACE_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "DOGERACE_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhook, "DOGERACE_NOTIFY_DISCORD_WEBHOOK")
	setStringSlice(&cfg.Notify.Events, "DOGERACE_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "DOGERACE_MODE")
	setStr(&cfg.LogLevel, "DOGERACE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
