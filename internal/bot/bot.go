// Package bot runs the trading session: it feeds closed candles into the
// fusion engine, opens paper binary-option trades on qualifying signals,
// settles them at expiry, and keeps the risk state current.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"binary-options-bot/internal/database"
	"binary-options-bot/internal/events"
	"binary-options-bot/internal/fusion"
	"binary-options-bot/internal/market"
	"binary-options-bot/internal/notification"
	"binary-options-bot/internal/risk"
	"binary-options-bot/internal/strategy"
)

// Options configures a trading session
type Options struct {
	Asset            string
	Balance          float64
	Expiry           time.Duration
	EvaluateInterval time.Duration
	Payout           float64
}

// paperTrade is an open binary-option position awaiting expiry
type paperTrade struct {
	ID         string
	SignalID   string
	Direction  fusion.Direction
	EntryPrice float64
	Size       float64
	OpenedAt   time.Time
	ExpiryAt   time.Time
}

// TradingBot orchestrates one trading session for a single asset
type TradingBot struct {
	opts       Options
	engine     *fusion.Engine
	gate       *risk.Gate
	tracker    *risk.Tracker
	buffer     *market.CandleBuffer
	registry   *strategy.Registry
	eventBus   *events.EventBus
	repo       *database.Repository     // nil when persistence is disabled
	stateStore *database.RiskStateStore // nil when state persistence is disabled
	notifier   *notification.Manager    // nil when notifications are disabled
	logger     zerolog.Logger

	mu           sync.Mutex
	balance      float64
	openTrades   []*paperTrade
	haltNotified bool

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTradingBot wires a session together. repo, stateStore, and notifier
// may be nil; the bot runs fully in memory without them.
func NewTradingBot(
	opts Options,
	engine *fusion.Engine,
	gate *risk.Gate,
	tracker *risk.Tracker,
	buffer *market.CandleBuffer,
	registry *strategy.Registry,
	eventBus *events.EventBus,
	repo *database.Repository,
	stateStore *database.RiskStateStore,
	notifier *notification.Manager,
	logger zerolog.Logger,
) *TradingBot {
	return &TradingBot{
		opts:       opts,
		engine:     engine,
		gate:       gate,
		tracker:    tracker,
		buffer:     buffer,
		registry:   registry,
		eventBus:   eventBus,
		repo:       repo,
		stateStore: stateStore,
		notifier:   notifier,
		logger:     logger.With().Str("component", "trading_bot").Str("asset", opts.Asset).Logger(),
		balance:    opts.Balance,
		stopChan:   make(chan struct{}),
	}
}

// OnCandle receives a closed candle from the feed
func (b *TradingBot) OnCandle(c market.Candle) {
	b.buffer.Append(c)
	b.eventBus.Publish(events.Event{
		Type: events.EventCandleClosed,
		Data: map[string]interface{}{
			"asset": b.opts.Asset,
			"close": c.Close,
			"time":  c.ClosedAt(),
		},
	})
}

// Start launches the evaluation loop
func (b *TradingBot) Start(ctx context.Context) {
	b.logger.Info().
		Float64("balance", b.balance).
		Dur("expiry", b.opts.Expiry).
		Dur("evaluate_interval", b.opts.EvaluateInterval).
		Msg("trading session started")

	b.eventBus.Publish(events.Event{
		Type: events.EventSessionStarted,
		Data: map[string]interface{}{"asset": b.opts.Asset, "balance": b.balance},
	})

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.opts.EvaluateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-b.stopChan:
				return
			case now := <-ticker.C:
				b.Step(ctx, now)
			}
		}
	}()
}

// Stop ends the session and waits for the loop to exit
func (b *TradingBot) Stop() {
	b.stopOnce.Do(func() { close(b.stopChan) })
	b.wg.Wait()

	state := b.tracker.State()
	b.eventBus.Publish(events.Event{
		Type: events.EventSessionEnded,
		Data: map[string]interface{}{
			"asset":    b.opts.Asset,
			"balance":  b.Balance(),
			"trades":   state.TradesExecuted,
			"wins":     state.Wins,
			"losses":   state.Losses,
			"win_rate": state.WinRate(),
		},
	})
	b.logger.Info().
		Float64("balance", b.Balance()).
		Int("trades", state.TradesExecuted).
		Float64("win_rate", state.WinRate()).
		Msg("trading session ended")
}

// Balance returns the current paper balance
func (b *TradingBot) Balance() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance
}

// OpenTrades returns the number of unsettled trades
func (b *TradingBot) OpenTrades() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.openTrades)
}

// Step runs one iteration of the session loop: settle due trades, check the
// gate, evaluate the engine, and open a trade on a qualifying signal. It is
// exported so a backtest can drive the loop with its own clock.
func (b *TradingBot) Step(ctx context.Context, now time.Time) {
	b.settleDueTrades(ctx, now)

	state := b.tracker.State()
	ok, reason := b.gate.ShouldTrade(state, now)
	if !ok {
		b.handleGateBlock(state, now, reason)
		return
	}
	b.mu.Lock()
	b.haltNotified = false
	b.mu.Unlock()

	candles := b.buffer.Snapshot()
	sig := b.engine.Evaluate(candles, state, b.Balance())
	if sig == nil {
		return
	}

	b.logStrategyAgreement(candles, sig)
	b.openTrade(ctx, now, sig)
}

// handleGateBlock logs and notifies on a hard halt; trade-spacing blocks are
// routine and only logged at debug.
func (b *TradingBot) handleGateBlock(state *risk.State, now time.Time, reason string) {
	status, _ := b.gate.Status(state, now)
	if status != risk.StatusHalted {
		b.logger.Debug().Str("reason", reason).Msg("evaluation skipped")
		return
	}

	b.mu.Lock()
	already := b.haltNotified
	b.haltNotified = true
	b.mu.Unlock()
	if already {
		return
	}

	b.logger.Warn().Str("reason", reason).Msg("session halted")
	b.eventBus.PublishRiskHalt(reason)
	if b.notifier != nil {
		if err := b.notifier.SendHalt(reason); err != nil {
			b.logger.Warn().Err(err).Msg("failed to send halt notification")
		}
	}
}

func (b *TradingBot) openTrade(ctx context.Context, now time.Time, sig *fusion.FusionSignal) {
	last, ok := b.buffer.Last()
	if !ok {
		return
	}

	signalID := uuid.New().String()
	trade := &paperTrade{
		ID:         uuid.New().String(),
		SignalID:   signalID,
		Direction:  sig.Direction,
		EntryPrice: last.Close,
		Size:       sig.PositionSize,
		OpenedAt:   now,
		ExpiryAt:   now.Add(b.opts.Expiry),
	}

	b.mu.Lock()
	b.openTrades = append(b.openTrades, trade)
	b.mu.Unlock()

	b.tracker.RecordExecution(now)
	b.persistRiskState(ctx)

	b.logger.Info().
		Str("trade_id", trade.ID).
		Str("direction", string(sig.Direction)).
		Float64("confidence", sig.Confidence).
		Float64("fusion_score", sig.FusionScore).
		Str("tier", string(sig.Tier)).
		Str("regime", string(sig.Regime)).
		Float64("entry", trade.EntryPrice).
		Float64("size", trade.Size).
		Time("expiry", trade.ExpiryAt).
		Msg("trade opened")

	b.eventBus.PublishSignal(b.opts.Asset, string(sig.Direction), sig.Confidence, sig.FusionScore, sig.PositionSize)
	b.eventBus.PublishTradeOpened(trade.ID, b.opts.Asset, string(sig.Direction), trade.EntryPrice, trade.Size)

	if b.notifier != nil {
		if err := b.notifier.SendSignal(b.opts.Asset, sig); err != nil {
			b.logger.Warn().Err(err).Msg("failed to send signal notification")
		}
	}

	if b.repo != nil {
		rec := &database.SignalRecord{
			ID:           signalID,
			Asset:        b.opts.Asset,
			Direction:    string(sig.Direction),
			Confidence:   sig.Confidence,
			Tier:         string(sig.Tier),
			FusionScore:  sig.FusionScore,
			Phase1Score:  sig.Phase1Score,
			Phase2Score:  sig.Phase2Score,
			Phase3Score:  sig.Phase3Score,
			Regime:       string(sig.Regime),
			PositionSize: sig.PositionSize,
			SessionPhase: sig.SessionPhase,
			Signals:      sig.Signals,
			CreatedAt:    now,
		}
		if err := b.repo.SaveSignal(ctx, rec); err != nil {
			b.logger.Error().Err(err).Msg("failed to persist signal")
		}
		if err := b.repo.SaveTrade(ctx, &database.TradeRecord{
			ID:         trade.ID,
			SignalID:   signalID,
			Asset:      b.opts.Asset,
			Direction:  string(sig.Direction),
			EntryPrice: trade.EntryPrice,
			Size:       trade.Size,
			ExpiryAt:   trade.ExpiryAt,
			OpenedAt:   now,
		}); err != nil {
			b.logger.Error().Err(err).Msg("failed to persist trade")
		}
	}
}

// settleDueTrades closes every trade whose expiry has passed, using the
// latest candle close as the exit price. A tie settles as a loss.
func (b *TradingBot) settleDueTrades(ctx context.Context, now time.Time) {
	last, ok := b.buffer.Last()
	if !ok {
		return
	}
	exit := last.Close

	b.mu.Lock()
	var due, remaining []*paperTrade
	for _, t := range b.openTrades {
		if !t.ExpiryAt.After(now) {
			due = append(due, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	b.openTrades = remaining
	b.mu.Unlock()

	for _, t := range due {
		b.settleTrade(ctx, t, exit, now)
	}
}

func (b *TradingBot) settleTrade(ctx context.Context, t *paperTrade, exit float64, now time.Time) {
	var win bool
	switch t.Direction {
	case fusion.DirectionBuy:
		win = exit > t.EntryPrice
	case fusion.DirectionSell:
		win = exit < t.EntryPrice
	}

	pnl := -t.Size
	if win {
		pnl = t.Size * b.opts.Payout
	}

	b.mu.Lock()
	b.balance += pnl
	b.mu.Unlock()

	b.tracker.RecordSettlement(win, pnl)
	b.persistRiskState(ctx)

	b.logger.Info().
		Str("trade_id", t.ID).
		Bool("win", win).
		Float64("entry", t.EntryPrice).
		Float64("exit", exit).
		Float64("pnl", pnl).
		Float64("balance", b.Balance()).
		Msg("trade settled")

	b.eventBus.PublishTradeSettled(t.ID, b.opts.Asset, win, pnl)

	if b.notifier != nil {
		if err := b.notifier.SendSettlement(b.opts.Asset, win, pnl); err != nil {
			b.logger.Warn().Err(err).Msg("failed to send settlement notification")
		}
	}
	if b.repo != nil {
		if err := b.repo.SettleTrade(ctx, t.ID, exit, win, pnl, now); err != nil {
			b.logger.Error().Err(err).Msg("failed to persist settlement")
		}
	}
}

func (b *TradingBot) persistRiskState(ctx context.Context) {
	if b.stateStore == nil {
		return
	}
	if err := b.stateStore.Save(ctx, b.opts.Asset, b.tracker.State()); err != nil {
		b.logger.Warn().Err(err).Msg("failed to persist risk state")
	}
}

// logStrategyAgreement runs the standalone strategy sweep as a diagnostic
// alongside each fusion signal. Agreement is informational only; the fusion
// decision stands regardless.
func (b *TradingBot) logStrategyAgreement(candles []market.Candle, sig *fusion.FusionSignal) {
	if b.registry == nil {
		return
	}

	results := b.registry.AnalyzeAll(candles)
	agree, oppose := 0, 0
	for _, r := range results {
		switch {
		case string(r.Type) == string(sig.Direction):
			agree++
		case r.Type != strategy.SignalNone:
			oppose++
		}
	}

	b.logger.Debug().
		Int("agree", agree).
		Int("oppose", oppose).
		Int("total", len(results)).
		Str("direction", string(sig.Direction)).
		Msg("strategy sweep cross-check")
}

// Summary returns a one-line session report
func (b *TradingBot) Summary() string {
	state := b.tracker.State()
	return fmt.Sprintf("trades=%d wins=%d losses=%d win_rate=%.2f pnl=%.2f balance=%.2f",
		state.TradesExecuted, state.Wins, state.Losses, state.WinRate(), state.DailyPnL, b.Balance())
}
