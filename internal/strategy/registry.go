package strategy

import (
	"time"

	"github.com/rs/zerolog"

	"binary-options-bot/internal/market"
)

// Registry holds the constructed strategy variants. Strategies are resolved
// at construction time, not looked up by name at runtime.
type Registry struct {
	strategies []Strategy
	logger     zerolog.Logger
}

// NewRegistry creates a registry over the given strategies, keeping only
// the enabled ones.
func NewRegistry(logger zerolog.Logger, strategies ...Strategy) *Registry {
	r := &Registry{
		logger: logger.With().Str("component", "strategy_registry").Logger(),
	}
	for _, s := range strategies {
		if s.Config().Enabled {
			r.strategies = append(r.strategies, s)
		}
	}
	return r
}

// DefaultRegistry constructs the full strategy family with its standard
// parameters.
func DefaultRegistry(logger zerolog.Logger) *Registry {
	base := Config{ConfidenceThreshold: 0.55, RiskLevel: 0.02, Enabled: true}
	return NewRegistry(logger,
		NewMomentumBreakout(base),
		NewOneMinuteReversal(base),
		NewRapidMACross(base),
		NewImpulseSpike(base),
		NewRSIExtreme(base),
		NewDualEMACrossover(base),
		NewVolumeBreakout(base),
		NewTripleConfirmation(base),
	)
}

// Strategies returns the enabled strategies.
func (r *Registry) Strategies() []Strategy {
	return r.strategies
}

// AnalyzeAll runs every enabled strategy over the window and returns the
// directional results. Individual strategy errors are logged and skipped;
// one broken variant must not silence the rest.
func (r *Registry) AnalyzeAll(candles []market.Candle) []SignalResult {
	var results []SignalResult
	start := time.Now()

	for _, s := range r.strategies {
		res, err := s.Analyze(candles)
		if err != nil {
			r.logger.Warn().Err(err).Str("strategy", s.Name()).Msg("strategy analysis failed")
			continue
		}
		if res != nil && res.Type != SignalNone {
			results = append(results, *res)
		}
	}

	r.logger.Debug().
		Int("strategies", len(r.strategies)).
		Int("signals", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("strategy sweep complete")

	return results
}

// UpdatePerformance forwards a settled outcome to the named strategy.
func (r *Registry) UpdatePerformance(name string, win bool) {
	for _, s := range r.strategies {
		if s.Name() == name {
			s.UpdatePerformance(win)
			return
		}
	}
}
