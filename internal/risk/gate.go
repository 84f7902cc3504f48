package risk

import (
	"fmt"
	"time"
)

// GateStatus is the state machine position of the risk gate
type GateStatus string

const (
	StatusTrading GateStatus = "trading"
	StatusHalted  GateStatus = "halted"
)

// GateConfig holds the session safety limits
type GateConfig struct {
	MaxConsecutiveLosses int           `json:"max_consecutive_losses"`
	DailyLossLimit       float64       `json:"daily_loss_limit"`
	SessionDuration      time.Duration `json:"session_duration"`
	MinTradeSpacing      time.Duration `json:"min_trade_spacing"`
}

// DefaultGateConfig returns the canonical session limits.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		MaxConsecutiveLosses: 3,
		DailyLossLimit:       100,
		SessionDuration:      2 * time.Hour,
		MinTradeSpacing:      8 * time.Second,
	}
}

// Gate decides whether the fusion engine may run at all. A halt is not an
// error; it is an expected, observable state transition the caller checks
// before every evaluation.
type Gate struct {
	cfg GateConfig
}

// NewGate creates a risk gate with the given limits.
func NewGate(cfg GateConfig) *Gate {
	if cfg.MaxConsecutiveLosses <= 0 {
		cfg.MaxConsecutiveLosses = 3
	}
	if cfg.DailyLossLimit <= 0 {
		cfg.DailyLossLimit = 100
	}
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = 2 * time.Hour
	}
	if cfg.MinTradeSpacing <= 0 {
		cfg.MinTradeSpacing = 8 * time.Second
	}
	return &Gate{cfg: cfg}
}

// Status evaluates the state against every halt condition at time now.
func (g *Gate) Status(state *State, now time.Time) (GateStatus, string) {
	if state.ConsecutiveLosses >= g.cfg.MaxConsecutiveLosses {
		return StatusHalted, fmt.Sprintf("consecutive losses reached (%d/%d)",
			state.ConsecutiveLosses, g.cfg.MaxConsecutiveLosses)
	}
	if state.DailyPnL <= -g.cfg.DailyLossLimit {
		return StatusHalted, fmt.Sprintf("daily loss limit reached (%.2f)", state.DailyPnL)
	}
	if g.cfg.SessionDuration > 0 && state.SessionElapsed(now) >= g.cfg.SessionDuration {
		return StatusHalted, fmt.Sprintf("session expired after %s", g.cfg.SessionDuration)
	}
	return StatusTrading, ""
}

// ShouldTrade reports whether a new evaluation may proceed: the gate must be
// in the trading state and the minimum spacing since the last executed trade
// must have passed.
func (g *Gate) ShouldTrade(state *State, now time.Time) (bool, string) {
	status, reason := g.Status(state, now)
	if status == StatusHalted {
		return false, reason
	}
	if !state.LastTradeTime.IsZero() && now.Sub(state.LastTradeTime) < g.cfg.MinTradeSpacing {
		return false, fmt.Sprintf("trade spacing not met (%s since last trade)",
			now.Sub(state.LastTradeTime).Round(time.Millisecond))
	}
	return true, ""
}

// Config returns the gate limits.
func (g *Gate) Config() GateConfig {
	return g.cfg
}
