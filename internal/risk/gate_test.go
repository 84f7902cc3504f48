package risk

import (
	"math/rand"
	"testing"
	"time"
)

func TestGateTradingByDefault(t *testing.T) {
	gate := NewGate(DefaultGateConfig())
	state := NewState()

	status, reason := gate.Status(state, time.Now())
	if status != StatusTrading {
		t.Errorf("fresh session status = %v (%s), want trading", status, reason)
	}
}

func TestGateConsecutiveLossHalt(t *testing.T) {
	gate := NewGate(DefaultGateConfig())
	state := NewState()

	state.ConsecutiveLosses = 2
	if status, _ := gate.Status(state, time.Now()); status != StatusTrading {
		t.Error("two losses must not halt")
	}

	state.ConsecutiveLosses = 3
	if status, _ := gate.Status(state, time.Now()); status != StatusHalted {
		t.Error("three consecutive losses must halt")
	}
}

func TestGateDailyLossHalt(t *testing.T) {
	gate := NewGate(DefaultGateConfig())
	state := NewState()

	state.DailyPnL = -99.99
	if status, _ := gate.Status(state, time.Now()); status != StatusTrading {
		t.Error("loss under the daily limit must not halt")
	}

	state.DailyPnL = -100
	if status, _ := gate.Status(state, time.Now()); status != StatusHalted {
		t.Error("daily loss at the limit must halt")
	}
}

// TestGatePartialConfigDefaults covers a config that only sets some limits:
// the unset ones must fall back to the canonical defaults instead of zero,
// where a zero daily-loss limit would halt a fresh session immediately.
func TestGatePartialConfigDefaults(t *testing.T) {
	gate := NewGate(GateConfig{MaxConsecutiveLosses: 5})
	state := NewState()

	status, reason := gate.Status(state, state.SessionStart.Add(time.Second))
	if status != StatusTrading {
		t.Fatalf("fresh session with partial config halted: %s", reason)
	}

	cfg := gate.Config()
	if cfg.MaxConsecutiveLosses != 5 {
		t.Errorf("explicit MaxConsecutiveLosses = %d, want 5", cfg.MaxConsecutiveLosses)
	}
	if cfg.DailyLossLimit != 100 {
		t.Errorf("DailyLossLimit = %.2f, want default 100", cfg.DailyLossLimit)
	}
	if cfg.SessionDuration != 2*time.Hour {
		t.Errorf("SessionDuration = %v, want default 2h", cfg.SessionDuration)
	}
	if cfg.MinTradeSpacing != 8*time.Second {
		t.Errorf("MinTradeSpacing = %v, want default 8s", cfg.MinTradeSpacing)
	}
}

func TestGateSessionExpiryHalt(t *testing.T) {
	gate := NewGate(DefaultGateConfig())
	state := NewState()

	if status, _ := gate.Status(state, state.SessionStart.Add(time.Hour)); status != StatusTrading {
		t.Error("mid-session must not halt")
	}
	if status, _ := gate.Status(state, state.SessionStart.Add(2*time.Hour)); status != StatusHalted {
		t.Error("session at the duration limit must halt")
	}
}

// TestGateSafetyInvariant randomizes every state field and verifies that no
// combination lets a halt condition pass the gate.
func TestGateSafetyInvariant(t *testing.T) {
	cfg := DefaultGateConfig()
	gate := NewGate(cfg)
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 1000; i++ {
		state := NewState()
		state.ConsecutiveLosses = rng.Intn(6)
		state.DailyPnL = (rng.Float64() - 0.5) * 400
		state.TradesExecuted = rng.Intn(50)
		state.Wins = rng.Intn(25)
		state.Losses = rng.Intn(25)
		now := state.SessionStart.Add(time.Duration(rng.Intn(180)) * time.Minute)

		status, _ := gate.Status(state, now)
		breached := state.ConsecutiveLosses >= cfg.MaxConsecutiveLosses ||
			state.DailyPnL <= -cfg.DailyLossLimit ||
			state.SessionElapsed(now) >= cfg.SessionDuration

		if breached && status != StatusHalted {
			t.Fatalf("case %d: breached state passed the gate: %+v at %v", i, state, now)
		}
		if !breached && status != StatusTrading {
			t.Fatalf("case %d: clean state was halted: %+v at %v", i, state, now)
		}
	}
}

func TestShouldTradeSpacing(t *testing.T) {
	gate := NewGate(DefaultGateConfig())
	state := NewState()
	now := state.SessionStart.Add(time.Minute)

	// No trades yet: spacing does not apply
	if ok, reason := gate.ShouldTrade(state, now); !ok {
		t.Errorf("fresh session should trade, got blocked: %s", reason)
	}

	state.LastTradeTime = now.Add(-5 * time.Second)
	if ok, _ := gate.ShouldTrade(state, now); ok {
		t.Error("5s after a trade must be blocked by the 8s spacing")
	}

	state.LastTradeTime = now.Add(-8 * time.Second)
	if ok, reason := gate.ShouldTrade(state, now); !ok {
		t.Errorf("8s after a trade should be allowed, got blocked: %s", reason)
	}
}

func TestShouldTradeHaltWinsOverSpacing(t *testing.T) {
	gate := NewGate(DefaultGateConfig())
	state := NewState()
	state.ConsecutiveLosses = 3

	if ok, _ := gate.ShouldTrade(state, state.SessionStart.Add(time.Minute)); ok {
		t.Error("halted session must never trade regardless of spacing")
	}
}
