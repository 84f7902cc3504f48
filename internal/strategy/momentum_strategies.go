package strategy

import (
	"fmt"

	"binary-options-bot/internal/indicator"
	"binary-options-bot/internal/market"
)

// MomentumBreakout triggers when price closes beyond the recent range with
// volume backing the move.
type MomentumBreakout struct {
	baseStrategy
}

func NewMomentumBreakout(cfg Config) *MomentumBreakout {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 10
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 1.5 // volume ratio required to confirm the break
	}
	return &MomentumBreakout{baseStrategy{cfg: cfg}}
}

func (s *MomentumBreakout) Name() string { return "momentum_breakout" }

func (s *MomentumBreakout) Analyze(candles []market.Candle) (*SignalResult, error) {
	if len(candles) < s.cfg.Lookback+2 {
		return none(s.Name()), nil
	}

	last := candles[len(candles)-1]
	window := candles[len(candles)-1-s.cfg.Lookback : len(candles)-1]

	high := window[0].High
	low := window[0].Low
	for _, c := range window {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}

	volumeRatio := indicator.CalculateVolumeRatio(candles, s.cfg.Lookback)
	if volumeRatio < s.cfg.Threshold {
		return none(s.Name()), nil
	}

	result := none(s.Name())
	if last.Close > high {
		result = &SignalResult{
			Strategy:   s.Name(),
			Type:       SignalBuy,
			Confidence: clamp(0.55+(volumeRatio-s.cfg.Threshold)*0.15, 0, 0.95),
			Reason:     fmt.Sprintf("close %.5f broke %d-candle high %.5f on %.1fx volume", last.Close, s.cfg.Lookback, high, volumeRatio),
			Timestamp:  last.ClosedAt(),
		}
	} else if last.Close < low {
		result = &SignalResult{
			Strategy:   s.Name(),
			Type:       SignalSell,
			Confidence: clamp(0.55+(volumeRatio-s.cfg.Threshold)*0.15, 0, 0.95),
			Reason:     fmt.Sprintf("close %.5f broke %d-candle low %.5f on %.1fx volume", last.Close, s.cfg.Lookback, low, volumeRatio),
			Timestamp:  last.ClosedAt(),
		}
	}

	return qualified(s.cfg, result), nil
}

// ImpulseSpike follows a single outsized candle: a body several times the
// recent ATR signals continuation in the candle's direction.
type ImpulseSpike struct {
	baseStrategy
}

func NewImpulseSpike(cfg Config) *ImpulseSpike {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 14
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 2.0 // body-to-ATR multiple
	}
	return &ImpulseSpike{baseStrategy{cfg: cfg}}
}

func (s *ImpulseSpike) Name() string { return "impulse_spike" }

func (s *ImpulseSpike) Analyze(candles []market.Candle) (*SignalResult, error) {
	if len(candles) < s.cfg.Lookback+2 {
		return none(s.Name()), nil
	}

	atr := indicator.CalculateATR(candles[:len(candles)-1], s.cfg.Lookback)
	if atr == 0 {
		return none(s.Name()), nil
	}

	last := candles[len(candles)-1]
	impulse := last.Body() / atr
	if impulse < s.cfg.Threshold {
		return none(s.Name()), nil
	}

	direction := SignalBuy
	if last.IsBearish() {
		direction = SignalSell
	} else if !last.IsBullish() {
		return none(s.Name()), nil
	}

	result := &SignalResult{
		Strategy:   s.Name(),
		Type:       direction,
		Confidence: clamp(0.5+impulse*0.1, 0, 0.95),
		Reason:     fmt.Sprintf("impulse body %.1fx ATR(%d)", impulse, s.cfg.Lookback),
		Timestamp:  last.ClosedAt(),
	}
	return qualified(s.cfg, result), nil
}

// VolumeBreakout requires a volume spike together with a close outside the
// Bollinger band in the same direction.
type VolumeBreakout struct {
	baseStrategy
}

func NewVolumeBreakout(cfg Config) *VolumeBreakout {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 20
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = indicator.VolumeSpikeThreshold
	}
	return &VolumeBreakout{baseStrategy{cfg: cfg}}
}

func (s *VolumeBreakout) Name() string { return "volume_breakout" }

func (s *VolumeBreakout) Analyze(candles []market.Candle) (*SignalResult, error) {
	if len(candles) < s.cfg.Lookback+2 {
		return none(s.Name()), nil
	}

	ratio := indicator.CalculateVolumeRatio(candles, 10)
	if ratio < s.cfg.Threshold {
		return none(s.Name()), nil
	}

	bb := indicator.CalculateBollingerBands(candles, s.cfg.Lookback, 2.0)
	if bb == nil {
		return none(s.Name()), nil
	}

	last := candles[len(candles)-1]
	result := none(s.Name())
	if last.Close > bb.Upper && last.IsBullish() {
		result = &SignalResult{
			Strategy:   s.Name(),
			Type:       SignalBuy,
			Confidence: clamp(0.55+(ratio-s.cfg.Threshold)*0.1, 0, 0.9),
			Reason:     fmt.Sprintf("close above upper band on %.1fx volume", ratio),
			Timestamp:  last.ClosedAt(),
		}
	} else if last.Close < bb.Lower && last.IsBearish() {
		result = &SignalResult{
			Strategy:   s.Name(),
			Type:       SignalSell,
			Confidence: clamp(0.55+(ratio-s.cfg.Threshold)*0.1, 0, 0.9),
			Reason:     fmt.Sprintf("close below lower band on %.1fx volume", ratio),
			Timestamp:  last.ClosedAt(),
		}
	}

	return qualified(s.cfg, result), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
