package risk

import "time"

// State is the long-lived risk/session state. It is mutated only by the
// PerformanceTracker on trade settlement and read by the Gate before every
// evaluation. Writes are serialized by the caller's event loop; no internal
// locking is required.
type State struct {
	ConsecutiveLosses int       `json:"consecutive_losses"`
	DailyPnL          float64   `json:"daily_pnl"`
	SessionStart      time.Time `json:"session_start"`
	TradesExecuted    int       `json:"trades_executed"`
	Wins              int       `json:"wins"`
	Losses            int       `json:"losses"`
	LastTradeTime     time.Time `json:"last_trade_time"`
}

// NewState creates a fresh session state starting now.
func NewState() *State {
	return &State{SessionStart: time.Now()}
}

// SessionElapsed returns how long the session has been running at t.
func (s *State) SessionElapsed(t time.Time) time.Duration {
	return t.Sub(s.SessionStart)
}

// SessionPhase buckets elapsed session time into three coarse phases (1-3)
// of the bounded trading session.
func (s *State) SessionPhase(t time.Time, sessionHours float64) int {
	if sessionHours <= 0 {
		return 1
	}
	fraction := s.SessionElapsed(t).Hours() / sessionHours
	switch {
	case fraction < 1.0/3.0:
		return 1
	case fraction < 2.0/3.0:
		return 2
	default:
		return 3
	}
}

// WinRate returns the session win rate, 0 when no trades settled.
func (s *State) WinRate() float64 {
	settled := s.Wins + s.Losses
	if settled == 0 {
		return 0
	}
	return float64(s.Wins) / float64(settled)
}
