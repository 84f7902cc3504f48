package fusion

import (
	"math"

	"binary-options-bot/internal/indicator"
	"binary-options-bot/internal/market"
	"binary-options-bot/internal/patterns"
)

// Signal map entry names. Names are unique across all three phases so the
// merged map never collides.
const (
	sigRSI         = "rsi"
	sigVolumeSpike = "volume_spike"
	sigMACD        = "macd"
	sigBollinger   = "bollinger"
	sigStochastic  = "stochastic"
	sigConfluence  = "confluence"
	sigMomentumUp  = "momentum_up"
	sigMomentumDn  = "momentum_down"
	sigAlignment   = "momentum_alignment"
	sigFibonacci   = "fibonacci"
)

// phaseAnalyzer runs the three analysis phases over one candle window.
type phaseAnalyzer struct {
	cfg      Config
	detector *patterns.PatternDetector
}

func newPhaseAnalyzer(cfg Config) *phaseAnalyzer {
	return &phaseAnalyzer{
		cfg:      cfg,
		detector: patterns.NewPatternDetector(),
	}
}

// analyzePhase1 combines candlestick patterns, the RSI reading, and the
// volume-spike signal.
func (pa *phaseAnalyzer) analyzePhase1(candles []market.Candle) PhaseResult {
	signals := make(SignalMap)

	for _, p := range pa.detector.DetectLatest(candles) {
		signals[string(p.Type)] = p.Strength
	}

	rsi := indicator.CalculateRSI(candles, pa.cfg.RSIPeriod)
	if strength, ok := indicator.RSISignal(rsi); ok {
		signals[sigRSI] = strength
	}

	ratio := indicator.CalculateVolumeRatio(candles, pa.cfg.VolumeLookback)
	if strength, ok := indicator.VolumeSpikeSignal(ratio); ok {
		// Sign the spike by the spiking candle's direction; a flat candle
		// carries no directional information and emits nothing.
		last := candles[len(candles)-1]
		if last.IsBullish() {
			signals[sigVolumeSpike] = strength
		} else if last.IsBearish() {
			signals[sigVolumeSpike] = -strength
		}
	}

	return PhaseResult{Signals: signals, Score: scorePhase(signals)}
}

// analyzePhase2 builds the cross-indicator confluence map from MACD,
// Bollinger, and Stochastic readings. Only non-zero signals contribute; the
// confluence entry is their simple mean. Regime scaling is applied by the
// engine according to the configured scope.
func (pa *phaseAnalyzer) analyzePhase2(candles []market.Candle) PhaseResult {
	signals := make(SignalMap)
	price := candles[len(candles)-1].Close

	macd := indicator.CalculateMACD(candles, pa.cfg.MACDFast, pa.cfg.MACDSlow, pa.cfg.MACDSignal)
	if strength, ok := indicator.MACDSignal(macd); ok {
		signals[sigMACD] = strength
	}

	bb := indicator.CalculateBollingerBands(candles, pa.cfg.BollingerPeriod, pa.cfg.BollingerStdDev)
	if strength, ok := indicator.BollingerSignal(price, bb); ok {
		signals[sigBollinger] = strength
	}

	k := indicator.CalculateStochasticK(candles, pa.cfg.StochasticPeriod)
	if strength, ok := indicator.StochasticSignal(k); ok {
		signals[sigStochastic] = strength
	}

	if len(signals) > 0 {
		sum := 0.0
		for _, v := range signals {
			sum += v
		}
		signals[sigConfluence] = sum / float64(len(signals))
	}

	return PhaseResult{Signals: signals, Score: scorePhase(signals)}
}

// analyzePhase3 combines multi-window momentum with Fibonacci retracement
// proximity.
func (pa *phaseAnalyzer) analyzePhase3(candles []market.Candle) PhaseResult {
	signals := make(SignalMap)

	if m := indicator.CalculateMomentum(candles); m != nil && math.Abs(m.Weighted) > 0.5 {
		if m.Weighted > 0 {
			signals[sigMomentumUp] = m.Alignment
		} else {
			signals[sigMomentumDn] = -m.Alignment
		}
		if m.Alignment > 0.7 {
			bonus := m.Alignment * 0.8
			if m.Weighted < 0 {
				bonus = -bonus
			}
			signals[sigAlignment] = bonus
		}
	}

	price := candles[len(candles)-1].Close
	fib := indicator.CalculateFibonacciLevels(candles, pa.cfg.FibonacciPeriod)
	if strength, ok := indicator.FibonacciSignal(price, fib); ok {
		signals[sigFibonacci] = strength
	}

	return PhaseResult{Signals: signals, Score: scorePhase(signals)}
}
