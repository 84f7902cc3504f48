package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"binary-options-bot/internal/database"
	"binary-options-bot/internal/feed"
	"binary-options-bot/internal/fusion"
	"binary-options-bot/internal/risk"
)

type Config struct {
	TradingConfig      TradingConfig        `json:"trading"`
	EngineConfig       fusion.Config        `json:"engine"`
	RiskGateConfig     risk.GateConfig      `json:"risk_gate"`
	FeedConfig         feed.Config          `json:"feed"`
	DatabaseConfig     database.Config      `json:"database"`
	RedisConfig        database.RedisConfig `json:"redis"`
	NotificationConfig NotificationConfig   `json:"notification"`
	LoggingConfig      LoggingConfig        `json:"logging"`
}

type TradingConfig struct {
	Asset            string        `json:"asset"`
	Balance          float64       `json:"balance"`
	Expiry           time.Duration `json:"expiry"`
	EvaluateInterval time.Duration `json:"evaluate_interval"`
	Payout           float64       `json:"payout"`
	MockMode         bool          `json:"mock_mode"` // Use synthetic candles instead of the live feed
}

type NotificationConfig struct {
	Enabled  bool           `json:"enabled"`
	Telegram TelegramConfig `json:"telegram"`
	Discord  DiscordConfig  `json:"discord"`
}

type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

type DiscordConfig struct {
	Enabled    bool   `json:"enabled"`
	WebhookURL string `json:"webhook_url"`
}

type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Output string `json:"output"` // stdout, stderr, or file path
	Pretty bool   `json:"pretty"` // Human-readable console output instead of JSON
}

// Load reads config.json if present, then applies environment overrides.
// Environment variables always take precedence over the file.
func Load() (*Config, error) {
	cfg, err := loadFromFile("config.json")
	if err != nil {
		cfg = &Config{FeedConfig: feed.Config{Reconnect: true}}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.TradingConfig.Asset == "" {
		cfg.TradingConfig.Asset = "EURUSD"
	}
	if cfg.TradingConfig.Balance <= 0 {
		cfg.TradingConfig.Balance = 1000
	}
	if cfg.TradingConfig.Expiry <= 0 {
		cfg.TradingConfig.Expiry = time.Minute
	}
	if cfg.TradingConfig.EvaluateInterval <= 0 {
		cfg.TradingConfig.EvaluateInterval = 5 * time.Second
	}
	if cfg.TradingConfig.Payout <= 0 {
		cfg.TradingConfig.Payout = 0.85
	}
	if cfg.EngineConfig.MinCandles == 0 {
		cfg.EngineConfig = fusion.DefaultConfig()
	}
	gateDefaults := risk.DefaultGateConfig()
	if cfg.RiskGateConfig.MaxConsecutiveLosses <= 0 {
		cfg.RiskGateConfig.MaxConsecutiveLosses = gateDefaults.MaxConsecutiveLosses
	}
	if cfg.RiskGateConfig.DailyLossLimit <= 0 {
		cfg.RiskGateConfig.DailyLossLimit = gateDefaults.DailyLossLimit
	}
	if cfg.RiskGateConfig.SessionDuration <= 0 {
		cfg.RiskGateConfig.SessionDuration = gateDefaults.SessionDuration
	}
	if cfg.RiskGateConfig.MinTradeSpacing <= 0 {
		cfg.RiskGateConfig.MinTradeSpacing = gateDefaults.MinTradeSpacing
	}
	if cfg.FeedConfig.Interval == "" {
		cfg.FeedConfig.Interval = "1m"
	}
	if cfg.DatabaseConfig.Host == "" {
		cfg.DatabaseConfig.Host = "localhost"
	}
	if cfg.DatabaseConfig.Port == 0 {
		cfg.DatabaseConfig.Port = 5432
	}
	if cfg.DatabaseConfig.SSLMode == "" {
		cfg.DatabaseConfig.SSLMode = "disable"
	}
	if cfg.RedisConfig.Addr == "" {
		cfg.RedisConfig.Addr = "localhost:6379"
	}
	if cfg.LoggingConfig.Level == "" {
		cfg.LoggingConfig.Level = "info"
	}
	if cfg.LoggingConfig.Output == "" {
		cfg.LoggingConfig.Output = "stdout"
	}
}

func applyEnvOverrides(cfg *Config) {
	// Trading config
	cfg.TradingConfig.Asset = getEnvOrDefault("TRADING_ASSET", cfg.TradingConfig.Asset)
	cfg.TradingConfig.Balance = getEnvFloatOrDefault("TRADING_BALANCE", cfg.TradingConfig.Balance)
	cfg.TradingConfig.Expiry = getEnvDurationOrDefault("TRADING_EXPIRY", cfg.TradingConfig.Expiry)
	cfg.TradingConfig.EvaluateInterval = getEnvDurationOrDefault("TRADING_EVALUATE_INTERVAL", cfg.TradingConfig.EvaluateInterval)
	cfg.TradingConfig.Payout = getEnvFloatOrDefault("TRADING_PAYOUT", cfg.TradingConfig.Payout)
	cfg.TradingConfig.MockMode = getEnvOrDefault("MOCK_MODE", boolString(cfg.TradingConfig.MockMode)) == "true"

	// Engine config
	cfg.EngineConfig.MinStrength = getEnvFloatOrDefault("ENGINE_MIN_STRENGTH", cfg.EngineConfig.MinStrength)
	cfg.EngineConfig.ConfidenceThreshold = getEnvFloatOrDefault("ENGINE_CONFIDENCE_THRESHOLD", cfg.EngineConfig.ConfidenceThreshold)
	cfg.EngineConfig.MinSignals = getEnvIntOrDefault("ENGINE_MIN_SIGNALS", cfg.EngineConfig.MinSignals)
	cfg.EngineConfig.RiskPerTrade = getEnvFloatOrDefault("ENGINE_RISK_PER_TRADE", cfg.EngineConfig.RiskPerTrade)
	if scope := os.Getenv("ENGINE_REGIME_SCOPE"); scope != "" {
		cfg.EngineConfig.RegimeScope = fusion.RegimeScope(scope)
	}

	// Risk gate config
	cfg.RiskGateConfig.MaxConsecutiveLosses = getEnvIntOrDefault("RISK_MAX_CONSECUTIVE_LOSSES", cfg.RiskGateConfig.MaxConsecutiveLosses)
	cfg.RiskGateConfig.DailyLossLimit = getEnvFloatOrDefault("RISK_DAILY_LOSS_LIMIT", cfg.RiskGateConfig.DailyLossLimit)
	cfg.RiskGateConfig.SessionDuration = getEnvDurationOrDefault("RISK_SESSION_DURATION", cfg.RiskGateConfig.SessionDuration)
	cfg.RiskGateConfig.MinTradeSpacing = getEnvDurationOrDefault("RISK_MIN_TRADE_SPACING", cfg.RiskGateConfig.MinTradeSpacing)

	// Feed config
	cfg.FeedConfig.Enabled = getEnvOrDefault("FEED_ENABLED", boolString(cfg.FeedConfig.Enabled)) == "true"
	cfg.FeedConfig.URL = getEnvOrDefault("FEED_URL", cfg.FeedConfig.URL)
	cfg.FeedConfig.Interval = getEnvOrDefault("FEED_INTERVAL", cfg.FeedConfig.Interval)
	cfg.FeedConfig.Reconnect = getEnvOrDefault("FEED_RECONNECT", boolString(cfg.FeedConfig.Reconnect)) == "true"
	cfg.FeedConfig.Asset = cfg.TradingConfig.Asset

	// Database config
	cfg.DatabaseConfig.Enabled = getEnvOrDefault("DATABASE_ENABLED", boolString(cfg.DatabaseConfig.Enabled)) == "true"
	cfg.DatabaseConfig.Host = getEnvOrDefault("DATABASE_HOST", cfg.DatabaseConfig.Host)
	cfg.DatabaseConfig.Port = getEnvIntOrDefault("DATABASE_PORT", cfg.DatabaseConfig.Port)
	cfg.DatabaseConfig.User = getEnvOrDefault("DATABASE_USER", cfg.DatabaseConfig.User)
	cfg.DatabaseConfig.Password = getEnvOrDefault("DATABASE_PASSWORD", cfg.DatabaseConfig.Password)
	cfg.DatabaseConfig.Database = getEnvOrDefault("DATABASE_NAME", cfg.DatabaseConfig.Database)
	cfg.DatabaseConfig.SSLMode = getEnvOrDefault("DATABASE_SSL_MODE", cfg.DatabaseConfig.SSLMode)

	// Redis config
	cfg.RedisConfig.Enabled = getEnvOrDefault("REDIS_ENABLED", boolString(cfg.RedisConfig.Enabled)) == "true"
	cfg.RedisConfig.Addr = getEnvOrDefault("REDIS_ADDR", cfg.RedisConfig.Addr)
	cfg.RedisConfig.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisConfig.Password)
	cfg.RedisConfig.DB = getEnvIntOrDefault("REDIS_DB", cfg.RedisConfig.DB)

	// Notification config
	cfg.NotificationConfig.Enabled = getEnvOrDefault("NOTIFICATIONS_ENABLED", boolString(cfg.NotificationConfig.Enabled)) == "true"
	cfg.NotificationConfig.Telegram.Enabled = getEnvOrDefault("TELEGRAM_ENABLED", boolString(cfg.NotificationConfig.Telegram.Enabled)) == "true"
	cfg.NotificationConfig.Telegram.BotToken = getEnvOrDefault("TELEGRAM_BOT_TOKEN", cfg.NotificationConfig.Telegram.BotToken)
	cfg.NotificationConfig.Telegram.ChatID = getEnvOrDefault("TELEGRAM_CHAT_ID", cfg.NotificationConfig.Telegram.ChatID)
	cfg.NotificationConfig.Discord.Enabled = getEnvOrDefault("DISCORD_ENABLED", boolString(cfg.NotificationConfig.Discord.Enabled)) == "true"
	cfg.NotificationConfig.Discord.WebhookURL = getEnvOrDefault("DISCORD_WEBHOOK_URL", cfg.NotificationConfig.Discord.WebhookURL)

	// Logging config
	cfg.LoggingConfig.Level = getEnvOrDefault("LOG_LEVEL", cfg.LoggingConfig.Level)
	cfg.LoggingConfig.Output = getEnvOrDefault("LOG_OUTPUT", cfg.LoggingConfig.Output)
	cfg.LoggingConfig.Pretty = getEnvOrDefault("LOG_PRETTY", boolString(cfg.LoggingConfig.Pretty)) == "true"
}

func loadFromFile(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Booleans that default to true are pre-set so an absent JSON key keeps
	// the default while an explicit false in the file is honored.
	config := Config{FeedConfig: feed.Config{Reconnect: true}}
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
