package risk

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestTrackerSettlementFlow(t *testing.T) {
	state := NewState()
	tracker := NewTracker(state, zerolog.Nop())

	tracker.RecordSettlement(false, -10)
	tracker.RecordSettlement(false, -10)
	if state.ConsecutiveLosses != 2 {
		t.Errorf("consecutive losses = %d, want 2", state.ConsecutiveLosses)
	}

	// A win resets the streak but the daily P&L keeps accumulating
	tracker.RecordSettlement(true, 8.5)
	if state.ConsecutiveLosses != 0 {
		t.Errorf("consecutive losses after win = %d, want 0", state.ConsecutiveLosses)
	}
	if state.Wins != 1 || state.Losses != 2 {
		t.Errorf("record = %d/%d, want 1/2", state.Wins, state.Losses)
	}
	if state.DailyPnL != -11.5 {
		t.Errorf("daily pnl = %v, want -11.5", state.DailyPnL)
	}
}

func TestTrackerRecordExecution(t *testing.T) {
	state := NewState()
	tracker := NewTracker(state, zerolog.Nop())

	at := time.Now()
	tracker.RecordExecution(at)
	if state.TradesExecuted != 1 {
		t.Errorf("trades executed = %d, want 1", state.TradesExecuted)
	}
	if !state.LastTradeTime.Equal(at) {
		t.Error("last trade time not recorded")
	}
}

func TestWinRate(t *testing.T) {
	state := NewState()
	if state.WinRate() != 0 {
		t.Error("win rate with no trades should be 0")
	}

	state.Wins = 3
	state.Losses = 1
	if state.WinRate() != 0.75 {
		t.Errorf("win rate = %v, want 0.75", state.WinRate())
	}
}

func TestSessionPhase(t *testing.T) {
	state := NewState()
	start := state.SessionStart

	if p := state.SessionPhase(start.Add(10*time.Minute), 2.0); p != 1 {
		t.Errorf("early session phase = %d, want 1", p)
	}
	if p := state.SessionPhase(start.Add(time.Hour), 2.0); p != 2 {
		t.Errorf("mid session phase = %d, want 2", p)
	}
	if p := state.SessionPhase(start.Add(100*time.Minute), 2.0); p != 3 {
		t.Errorf("late session phase = %d, want 3", p)
	}
	if p := state.SessionPhase(start, 0); p != 1 {
		t.Errorf("unbounded session phase = %d, want 1", p)
	}
}
