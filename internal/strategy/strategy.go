package strategy

import (
	"sync"
	"time"

	"binary-options-bot/internal/market"
)

// SignalType is the directional outcome of a strategy evaluation
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalNone SignalType = "NONE"
)

// SignalResult is a single strategy's trade recommendation
type SignalResult struct {
	Strategy   string     `json:"strategy"`
	Type       SignalType `json:"type"`
	Confidence float64    `json:"confidence"`
	Reason     string     `json:"reason"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Config is the parameter bag shared by every pluggable strategy.
// Immutable after construction.
type Config struct {
	Lookback            int     `json:"lookback"`
	FastPeriod          int     `json:"fast_period"`
	SlowPeriod          int     `json:"slow_period"`
	Threshold           float64 `json:"threshold"`
	RiskLevel           float64 `json:"risk_level"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	Enabled             bool    `json:"enabled"`
}

// Strategy is the capability every pluggable variant implements: analyze a
// frozen candle window and expose a uniform performance-update hook.
// Strategies are usable standalone or as cross-checks beside the fusion
// engine.
type Strategy interface {
	Name() string
	Analyze(candles []market.Candle) (*SignalResult, error)
	UpdatePerformance(win bool)
	Config() Config
}

// baseStrategy carries the config and win/loss counters shared by all
// variants.
type baseStrategy struct {
	cfg    Config
	mu     sync.Mutex
	wins   int
	losses int
}

func (b *baseStrategy) Config() Config {
	return b.cfg
}

func (b *baseStrategy) UpdatePerformance(win bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if win {
		b.wins++
	} else {
		b.losses++
	}
}

// WinRate returns the strategy's observed win rate, 0 before any settlement.
func (b *baseStrategy) WinRate() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	settled := b.wins + b.losses
	if settled == 0 {
		return 0
	}
	return float64(b.wins) / float64(settled)
}

// none is the shared no-signal result
func none(name string) *SignalResult {
	return &SignalResult{Strategy: name, Type: SignalNone}
}

// qualified drops results below the strategy's own confidence threshold.
func qualified(cfg Config, result *SignalResult) *SignalResult {
	if result.Type == SignalNone {
		return result
	}
	if result.Confidence < cfg.ConfidenceThreshold {
		return &SignalResult{Strategy: result.Strategy, Type: SignalNone}
	}
	return result
}
