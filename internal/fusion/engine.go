package fusion

import (
	"math"

	"github.com/rs/zerolog"

	"binary-options-bot/internal/market"
	"binary-options-bot/internal/regime"
	"binary-options-bot/internal/risk"
)

// Engine is the multi-phase signal fusion engine. Given an immutable candle
// window snapshot it deterministically produces either nil (no qualifying
// signal) or a FusionSignal. Evaluate never panics outward: any unexpected
// numeric fault degrades to no-signal so a faulty recommendation can never
// reach trade execution.
type Engine struct {
	cfg      Config
	analyzer *phaseAnalyzer
	logger   zerolog.Logger
}

// NewEngine creates a fusion engine with the given parameters.
func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		analyzer: newPhaseAnalyzer(cfg),
		logger:   logger.With().Str("component", "fusion_engine").Logger(),
	}
}

// Config returns the engine parameters.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate runs the full three-phase pipeline over a frozen candle window.
// The caller must pass a snapshot, never a live, concurrently-appended
// slice. A window shorter than MinCandles is a defined no-signal outcome,
// not an error.
func (e *Engine) Evaluate(candles []market.Candle, state *risk.State, balance float64) (signal *FusionSignal) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("evaluation fault, degrading to no-signal")
			signal = nil
		}
	}()

	if len(candles) < e.cfg.MinCandles {
		return nil
	}

	marketRegime := regime.Classify(candles)
	multiplier := marketRegime.Multiplier()

	p1 := e.analyzer.analyzePhase1(candles)
	p2 := e.analyzer.analyzePhase2(candles)
	p3 := e.analyzer.analyzePhase3(candles)

	// Regime scaling per configured scope. Phase scores are recomputed after
	// scaling so the reported scores match the signals that were fused.
	switch e.cfg.RegimeScope {
	case RegimeScopeAll:
		p1.Signals.Scale(multiplier)
		p2.Signals.Scale(multiplier)
		p3.Signals.Scale(multiplier)
		p1.Score = scorePhase(p1.Signals)
		p3.Score = scorePhase(p3.Signals)
	default:
		p2.Signals.Scale(multiplier)
	}
	p2.Score = scorePhase(p2.Signals)

	decision := aggregate(e.cfg, p1, p2, p3)
	if decision == nil {
		return nil
	}

	if math.IsNaN(decision.confidence) || math.IsInf(decision.confidence, 0) ||
		math.IsNaN(decision.fusionScore) || math.IsInf(decision.fusionScore, 0) {
		e.logger.Warn().Msg("non-finite fusion result, degrading to no-signal")
		return nil
	}

	last := candles[len(candles)-1]
	now := last.ClosedAt()
	stopLoss, takeProfit := protectiveLevels(e.cfg, decision.direction, last.Close)

	return &FusionSignal{
		Direction:    decision.direction,
		Confidence:   decision.confidence,
		Tier:         TierForScore(decision.fusionScore),
		Phase1Score:  p1.Score,
		Phase2Score:  p2.Score,
		Phase3Score:  p3.Score,
		FusionScore:  decision.fusionScore,
		Signals:      decision.merged,
		Regime:       marketRegime,
		PositionSize: PositionSize(balance, e.cfg.RiskPerTrade, decision.confidence),
		StopLoss:     stopLoss,
		TakeProfit:   takeProfit,
		Timestamp:    now,
		SessionPhase: state.SessionPhase(now, e.cfg.SessionHours),
	}
}
