package risk

import (
	"time"

	"github.com/rs/zerolog"
)

// Tracker updates session risk state from settled trade outcomes. Exactly
// one settlement call is made per trade; calls are never concurrent.
type Tracker struct {
	state  *State
	logger zerolog.Logger
}

// NewTracker creates a performance tracker bound to a session state.
func NewTracker(state *State, logger zerolog.Logger) *Tracker {
	return &Tracker{
		state:  state,
		logger: logger.With().Str("component", "performance_tracker").Logger(),
	}
}

// RecordExecution marks a trade as executed so the gate can enforce
// trade spacing.
func (t *Tracker) RecordExecution(at time.Time) {
	t.state.TradesExecuted++
	t.state.LastTradeTime = at
}

// RecordSettlement applies a settled trade outcome: a win resets the loss
// streak, a loss extends it, and the signed P&L always flows into the daily
// total.
func (t *Tracker) RecordSettlement(win bool, pnl float64) {
	if win {
		t.state.ConsecutiveLosses = 0
		t.state.Wins++
	} else {
		t.state.ConsecutiveLosses++
		t.state.Losses++
	}
	t.state.DailyPnL += pnl

	t.logger.Info().
		Bool("win", win).
		Float64("pnl", pnl).
		Float64("daily_pnl", t.state.DailyPnL).
		Int("consecutive_losses", t.state.ConsecutiveLosses).
		Float64("win_rate", t.state.WinRate()).
		Msg("trade settled")
}

// State returns the tracked session state.
func (t *Tracker) State() *State {
	return t.state
}
