package bot

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"binary-options-bot/internal/events"
	"binary-options-bot/internal/fusion"
	"binary-options-bot/internal/market"
	"binary-options-bot/internal/risk"
	"binary-options-bot/internal/strategy"
)

// permissiveConfig lowers the fusion thresholds so the synthetic scenario
// reliably produces trades for the session tests.
func permissiveConfig() fusion.Config {
	cfg := fusion.DefaultConfig()
	cfg.MinSignals = 1
	cfg.MinStrength = 0.1
	cfg.ConfidenceThreshold = 0.01
	return cfg
}

func newTestBot(engineCfg fusion.Config, gateCfg risk.GateConfig, candles []market.Candle) (*TradingBot, *risk.State) {
	state := risk.NewState()
	if len(candles) > 0 {
		state.SessionStart = candles[0].ClosedAt()
	}

	b := NewTradingBot(
		Options{
			Asset:            "TEST",
			Balance:          1000,
			Expiry:           time.Minute,
			EvaluateInterval: time.Minute,
			Payout:           0.85,
		},
		fusion.NewEngine(engineCfg, zerolog.Nop()),
		risk.NewGate(gateCfg),
		risk.NewTracker(state, zerolog.Nop()),
		market.NewCandleBuffer(len(candles)+1),
		strategy.DefaultRegistry(zerolog.Nop()),
		events.NewEventBus(),
		nil, nil, nil,
		zerolog.Nop(),
	)
	return b, state
}

func scenario(seed int64) []market.Candle {
	return market.NewSyntheticGenerator(seed, 100).GenerateScenario(market.DefaultScenario())
}

func TestSessionOpensAndSettlesTrades(t *testing.T) {
	candles := scenario(5)
	gateCfg := risk.DefaultGateConfig()
	gateCfg.MaxConsecutiveLosses = 1000 // let the session run the whole scenario
	gateCfg.DailyLossLimit = 1e9
	b, state := newTestBot(permissiveConfig(), gateCfg, candles)

	ctx := context.Background()
	for _, c := range candles {
		b.OnCandle(c)
		b.Step(ctx, c.ClosedAt())
	}
	// Settle whatever is still open
	b.Step(ctx, candles[len(candles)-1].ClosedAt().Add(time.Hour))

	if state.TradesExecuted == 0 {
		t.Fatal("permissive thresholds over the scenario produced no trades")
	}
	if b.OpenTrades() != 0 {
		t.Errorf("%d trades left unsettled after the drain step", b.OpenTrades())
	}
	if state.Wins+state.Losses != state.TradesExecuted {
		t.Errorf("settled %d of %d executed trades", state.Wins+state.Losses, state.TradesExecuted)
	}

	// Balance must reconcile exactly with the tracked P&L
	if math.Abs(b.Balance()-(1000+state.DailyPnL)) > 1e-9 {
		t.Errorf("balance %v does not reconcile with daily pnl %v", b.Balance(), state.DailyPnL)
	}
}

func TestSessionHaltStopsTrading(t *testing.T) {
	candles := scenario(5)
	b, state := newTestBot(permissiveConfig(), risk.DefaultGateConfig(), candles)

	// Three consecutive losses on the books: the gate must block everything
	state.ConsecutiveLosses = 3

	ctx := context.Background()
	for _, c := range candles {
		b.OnCandle(c)
		b.Step(ctx, c.ClosedAt())
	}

	if state.TradesExecuted != 0 {
		t.Errorf("halted session executed %d trades, want 0", state.TradesExecuted)
	}
	if b.OpenTrades() != 0 {
		t.Errorf("halted session opened %d trades", b.OpenTrades())
	}
}

func TestSessionTradeSpacing(t *testing.T) {
	candles := scenario(5)
	gateCfg := risk.DefaultGateConfig()
	gateCfg.MaxConsecutiveLosses = 1000
	gateCfg.DailyLossLimit = 1e9
	b, state := newTestBot(permissiveConfig(), gateCfg, candles)

	ctx := context.Background()
	for _, c := range candles {
		b.OnCandle(c)
	}

	now := candles[len(candles)-1].ClosedAt()
	b.Step(ctx, now)
	if state.TradesExecuted != 1 {
		t.Skip("scenario window produced no signal at the final candle")
	}

	// A second evaluation 2s later must be blocked by the 8s spacing
	b.Step(ctx, now.Add(2*time.Second))
	if state.TradesExecuted != 1 {
		t.Errorf("trade executed inside the spacing window: %d total", state.TradesExecuted)
	}

	// Past the spacing window trading resumes
	b.Step(ctx, now.Add(9*time.Second))
	if state.TradesExecuted != 2 {
		t.Errorf("trade not executed after the spacing window: %d total", state.TradesExecuted)
	}
}

func TestBinarySettlementOutcomes(t *testing.T) {
	gateCfg := risk.DefaultGateConfig()
	b, state := newTestBot(permissiveConfig(), gateCfg, nil)

	ctx := context.Background()
	base := time.Now()

	// Hand-build one open trade, then settle against a higher close
	b.OnCandle(market.Candle{Open: 100, High: 100, Low: 100, Close: 100, CloseTime: base.UnixMilli()})
	b.mu.Lock()
	b.openTrades = append(b.openTrades, &paperTrade{
		ID:         "win-test",
		Direction:  fusion.DirectionBuy,
		EntryPrice: 99,
		Size:       20,
		OpenedAt:   base.Add(-2 * time.Minute),
		ExpiryAt:   base.Add(-time.Minute),
	})
	b.mu.Unlock()

	b.settleDueTrades(ctx, base)
	if state.Wins != 1 {
		t.Fatalf("BUY settled above entry: wins = %d, want 1", state.Wins)
	}
	if math.Abs(state.DailyPnL-17) > 1e-9 {
		t.Errorf("win pnl = %v, want size * payout = 17", state.DailyPnL)
	}

	// A tie settles as a loss
	b.mu.Lock()
	b.openTrades = append(b.openTrades, &paperTrade{
		ID:         "tie-test",
		Direction:  fusion.DirectionBuy,
		EntryPrice: 100,
		Size:       20,
		OpenedAt:   base.Add(-2 * time.Minute),
		ExpiryAt:   base.Add(-time.Minute),
	})
	b.mu.Unlock()

	b.settleDueTrades(ctx, base)
	if state.Losses != 1 {
		t.Errorf("tie at expiry: losses = %d, want 1", state.Losses)
	}
	if math.Abs(state.DailyPnL-(17-20)) > 1e-9 {
		t.Errorf("pnl after tie loss = %v, want -3", state.DailyPnL)
	}
}
