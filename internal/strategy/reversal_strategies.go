package strategy

import (
	"fmt"
	"math"

	"binary-options-bot/internal/indicator"
	"binary-options-bot/internal/market"
	"binary-options-bot/internal/patterns"
)

// OneMinuteReversal looks for a reversal candlestick pattern confirmed by a
// stretched RSI, the classic one-minute fade setup.
type OneMinuteReversal struct {
	baseStrategy
	detector *patterns.PatternDetector
}

func NewOneMinuteReversal(cfg Config) *OneMinuteReversal {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 14
	}
	return &OneMinuteReversal{
		baseStrategy: baseStrategy{cfg: cfg},
		detector:     patterns.NewPatternDetector(),
	}
}

func (s *OneMinuteReversal) Name() string { return "one_minute_reversal" }

func (s *OneMinuteReversal) Analyze(candles []market.Candle) (*SignalResult, error) {
	if len(candles) < s.cfg.Lookback+2 {
		return none(s.Name()), nil
	}

	rsi := indicator.CalculateRSI(candles, s.cfg.Lookback)
	last := candles[len(candles)-1]

	for _, p := range s.detector.DetectLatest(candles) {
		// Bullish pattern into an oversold market, or the mirror.
		if p.Strength > 0 && rsi <= 35 {
			result := &SignalResult{
				Strategy:   s.Name(),
				Type:       SignalBuy,
				Confidence: clamp(math.Abs(p.Strength)*0.7+(35-rsi)/100, 0, 0.95),
				Reason:     fmt.Sprintf("%s with RSI %.1f", p.Type, rsi),
				Timestamp:  last.ClosedAt(),
			}
			return qualified(s.cfg, result), nil
		}
		if p.Strength < 0 && rsi >= 65 {
			result := &SignalResult{
				Strategy:   s.Name(),
				Type:       SignalSell,
				Confidence: clamp(math.Abs(p.Strength)*0.7+(rsi-65)/100, 0, 0.95),
				Reason:     fmt.Sprintf("%s with RSI %.1f", p.Type, rsi),
				Timestamp:  last.ClosedAt(),
			}
			return qualified(s.cfg, result), nil
		}
	}

	return none(s.Name()), nil
}

// RSIExtreme trades RSI extremes alone; confidence scales with how far the
// reading sits past the threshold.
type RSIExtreme struct {
	baseStrategy
}

func NewRSIExtreme(cfg Config) *RSIExtreme {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 14
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 25 // extreme zone width from 0/100
	}
	return &RSIExtreme{baseStrategy{cfg: cfg}}
}

func (s *RSIExtreme) Name() string { return "rsi_extreme" }

func (s *RSIExtreme) Analyze(candles []market.Candle) (*SignalResult, error) {
	if len(candles) < s.cfg.Lookback+1 {
		return none(s.Name()), nil
	}

	rsi := indicator.CalculateRSI(candles, s.cfg.Lookback)
	last := candles[len(candles)-1]

	if rsi <= s.cfg.Threshold {
		result := &SignalResult{
			Strategy:   s.Name(),
			Type:       SignalBuy,
			Confidence: clamp(0.6+(s.cfg.Threshold-rsi)/s.cfg.Threshold*0.3, 0, 0.95),
			Reason:     fmt.Sprintf("RSI extreme oversold %.1f", rsi),
			Timestamp:  last.ClosedAt(),
		}
		return qualified(s.cfg, result), nil
	}

	upper := 100 - s.cfg.Threshold
	if rsi >= upper {
		result := &SignalResult{
			Strategy:   s.Name(),
			Type:       SignalSell,
			Confidence: clamp(0.6+(rsi-upper)/s.cfg.Threshold*0.3, 0, 0.95),
			Reason:     fmt.Sprintf("RSI extreme overbought %.1f", rsi),
			Timestamp:  last.ClosedAt(),
		}
		return qualified(s.cfg, result), nil
	}

	return none(s.Name()), nil
}
