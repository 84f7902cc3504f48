// Backtest runs the full fusion pipeline over a synthetic market scenario
// and prints per-phase diagnostics plus a session summary. It uses a
// simulated clock so the whole run completes in milliseconds.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"binary-options-bot/internal/bot"
	"binary-options-bot/internal/events"
	"binary-options-bot/internal/fusion"
	"binary-options-bot/internal/logging"
	"binary-options-bot/internal/market"
	"binary-options-bot/internal/regime"
	"binary-options-bot/internal/risk"
	"binary-options-bot/internal/strategy"
)

func main() {
	var (
		seed    = flag.Int64("seed", 42, "synthetic market seed")
		balance = flag.Float64("balance", 1000, "starting balance")
		payout  = flag.Float64("payout", 0.85, "binary option payout ratio")
		verbose = flag.Bool("v", false, "log every evaluation")
	)
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := logging.New(logging.Config{Level: level, Output: "stderr", Pretty: true})

	gen := market.NewSyntheticGenerator(*seed, 100)
	candles := gen.GenerateScenario(market.DefaultScenario())
	fmt.Printf("generated %d candles across %d phases (seed %d)\n",
		len(candles), len(market.DefaultScenario()), *seed)

	cfg := fusion.DefaultConfig()
	engine := fusion.NewEngine(cfg, logger)

	state := risk.NewState()
	state.SessionStart = candles[0].ClosedAt()

	gate := risk.NewGate(risk.DefaultGateConfig())
	tracker := risk.NewTracker(state, logger)
	buffer := market.NewCandleBuffer(len(candles))
	registry := strategy.DefaultRegistry(logger)
	eventBus := events.NewEventBus()

	tradingBot := bot.NewTradingBot(
		bot.Options{
			Asset:            "SYNTHETIC",
			Balance:          *balance,
			Expiry:           time.Minute,
			EvaluateInterval: time.Minute,
			Payout:           *payout,
		},
		engine, gate, tracker, buffer, registry, eventBus, nil, nil, nil, logger,
	)

	signals := 0
	eventBus.Subscribe(events.EventSignalGenerated, func(events.Event) { signals++ })

	ctx := context.Background()
	for _, c := range candles {
		tradingBot.OnCandle(c)
		now := c.ClosedAt()
		tradingBot.Step(ctx, now)

		snapshot := buffer.Snapshot()
		if len(snapshot) >= regime.LookbackPeriod && len(snapshot)%20 == 0 {
			r := regime.Classify(snapshot)
			fmt.Printf("  candle %3d  close=%8.4f  regime=%s\n", len(snapshot), c.Close, r)
		}
	}

	// Drain trades still open at the end of the data
	last := candles[len(candles)-1]
	tradingBot.Step(ctx, last.ClosedAt().Add(time.Hour))

	fmt.Println()
	fmt.Printf("signals generated: %d\n", signals)
	fmt.Printf("session: %s\n", tradingBot.Summary())

	if tradingBot.OpenTrades() != 0 {
		fmt.Fprintf(os.Stderr, "warning: %d trades left unsettled\n", tradingBot.OpenTrades())
		os.Exit(1)
	}
}
