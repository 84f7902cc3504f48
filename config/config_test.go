package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.TradingConfig.Asset == "" {
		t.Error("default asset must be set")
	}
	if cfg.TradingConfig.Balance <= 0 {
		t.Error("default balance must be positive")
	}
	if cfg.TradingConfig.Expiry != time.Minute {
		t.Errorf("default expiry = %v, want 1m", cfg.TradingConfig.Expiry)
	}
	if cfg.EngineConfig.MinCandles != 50 {
		t.Errorf("default minimum candles = %d, want 50", cfg.EngineConfig.MinCandles)
	}
	if cfg.EngineConfig.ConfidenceThreshold != 0.75 {
		t.Errorf("default confidence threshold = %v, want 0.75", cfg.EngineConfig.ConfidenceThreshold)
	}
	if cfg.RiskGateConfig.MaxConsecutiveLosses != 3 {
		t.Errorf("default loss streak limit = %d, want 3", cfg.RiskGateConfig.MaxConsecutiveLosses)
	}
	if cfg.RiskGateConfig.SessionDuration != 2*time.Hour {
		t.Errorf("default session duration = %v, want 2h", cfg.RiskGateConfig.SessionDuration)
	}
	if !cfg.FeedConfig.Reconnect {
		t.Error("feed reconnect must default to true")
	}
}

// TestPartialGateConfigDefaults covers a config file that sets only one gate
// limit: the remaining limits must still get their defaults, not zero.
func TestPartialGateConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.RiskGateConfig.MaxConsecutiveLosses = 5

	applyDefaults(cfg)

	if cfg.RiskGateConfig.MaxConsecutiveLosses != 5 {
		t.Errorf("explicit loss streak limit = %d, want 5", cfg.RiskGateConfig.MaxConsecutiveLosses)
	}
	if cfg.RiskGateConfig.DailyLossLimit != 100 {
		t.Errorf("daily loss limit = %.2f, want default 100", cfg.RiskGateConfig.DailyLossLimit)
	}
	if cfg.RiskGateConfig.SessionDuration != 2*time.Hour {
		t.Errorf("session duration = %v, want default 2h", cfg.RiskGateConfig.SessionDuration)
	}
	if cfg.RiskGateConfig.MinTradeSpacing != 8*time.Second {
		t.Errorf("trade spacing = %v, want default 8s", cfg.RiskGateConfig.MinTradeSpacing)
	}
}

func TestFeedReconnectOverrides(t *testing.T) {
	// A file-configured false survives the override pass when no env is set.
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	if cfg.FeedConfig.Reconnect {
		t.Error("reconnect=false from the file must not be overwritten")
	}

	t.Setenv("FEED_RECONNECT", "true")
	applyEnvOverrides(cfg)
	if !cfg.FeedConfig.Reconnect {
		t.Error("FEED_RECONNECT=true must enable reconnect")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRADING_ASSET", "GBPUSD")
	t.Setenv("ENGINE_MIN_STRENGTH", "1.25")
	t.Setenv("RISK_MAX_CONSECUTIVE_LOSSES", "5")
	t.Setenv("RISK_SESSION_DURATION", "90m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.TradingConfig.Asset != "GBPUSD" {
		t.Errorf("asset = %q, want GBPUSD", cfg.TradingConfig.Asset)
	}
	if cfg.EngineConfig.MinStrength != 1.25 {
		t.Errorf("min strength = %v, want 1.25", cfg.EngineConfig.MinStrength)
	}
	if cfg.RiskGateConfig.MaxConsecutiveLosses != 5 {
		t.Errorf("loss streak limit = %d, want 5", cfg.RiskGateConfig.MaxConsecutiveLosses)
	}
	if cfg.RiskGateConfig.SessionDuration != 90*time.Minute {
		t.Errorf("session duration = %v, want 90m", cfg.RiskGateConfig.SessionDuration)
	}
	if cfg.LoggingConfig.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LoggingConfig.Level)
	}
}

func TestFeedAssetFollowsTradingAsset(t *testing.T) {
	t.Setenv("TRADING_ASSET", "USDJPY")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FeedConfig.Asset != "USDJPY" {
		t.Errorf("feed asset = %q, want the trading asset", cfg.FeedConfig.Asset)
	}
}
