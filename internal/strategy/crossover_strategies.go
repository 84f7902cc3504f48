package strategy

import (
	"fmt"

	"binary-options-bot/internal/indicator"
	"binary-options-bot/internal/market"
)

// emaCross reports the relation of two EMAs on the current and previous
// candle so a fresh crossover can be distinguished from an ongoing trend.
func emaCross(candles []market.Candle, fast, slow int) (crossedUp, crossedDown bool) {
	if len(candles) < slow+2 {
		return false, false
	}

	prevFast := indicator.CalculateEMA(candles[:len(candles)-1], fast)
	prevSlow := indicator.CalculateEMA(candles[:len(candles)-1], slow)
	curFast := indicator.CalculateEMA(candles, fast)
	curSlow := indicator.CalculateEMA(candles, slow)

	crossedUp = prevFast <= prevSlow && curFast > curSlow
	crossedDown = prevFast >= prevSlow && curFast < curSlow
	return crossedUp, crossedDown
}

// RapidMACross trades very fast EMA crossovers, aimed at one-minute expiry
// entries.
type RapidMACross struct {
	baseStrategy
}

func NewRapidMACross(cfg Config) *RapidMACross {
	if cfg.FastPeriod <= 0 {
		cfg.FastPeriod = 3
	}
	if cfg.SlowPeriod <= 0 {
		cfg.SlowPeriod = 8
	}
	return &RapidMACross{baseStrategy{cfg: cfg}}
}

func (s *RapidMACross) Name() string { return "rapid_ma_cross" }

func (s *RapidMACross) Analyze(candles []market.Candle) (*SignalResult, error) {
	up, down := emaCross(candles, s.cfg.FastPeriod, s.cfg.SlowPeriod)
	if !up && !down {
		return none(s.Name()), nil
	}

	last := candles[len(candles)-1]
	direction := SignalBuy
	if down {
		direction = SignalSell
	}

	result := &SignalResult{
		Strategy:   s.Name(),
		Type:       direction,
		Confidence: 0.6,
		Reason:     fmt.Sprintf("EMA(%d)/EMA(%d) crossover", s.cfg.FastPeriod, s.cfg.SlowPeriod),
		Timestamp:  last.ClosedAt(),
	}
	return qualified(s.cfg, result), nil
}

// DualEMACrossover is the slower crossover pair filtered by a long trend
// EMA: longs only above it, shorts only below.
type DualEMACrossover struct {
	baseStrategy
	trendPeriod int
}

func NewDualEMACrossover(cfg Config) *DualEMACrossover {
	if cfg.FastPeriod <= 0 {
		cfg.FastPeriod = 9
	}
	if cfg.SlowPeriod <= 0 {
		cfg.SlowPeriod = 21
	}
	return &DualEMACrossover{baseStrategy: baseStrategy{cfg: cfg}, trendPeriod: 50}
}

func (s *DualEMACrossover) Name() string { return "dual_ema_crossover" }

func (s *DualEMACrossover) Analyze(candles []market.Candle) (*SignalResult, error) {
	if len(candles) < s.trendPeriod+2 {
		return none(s.Name()), nil
	}

	up, down := emaCross(candles, s.cfg.FastPeriod, s.cfg.SlowPeriod)
	if !up && !down {
		return none(s.Name()), nil
	}

	last := candles[len(candles)-1]
	trendEMA := indicator.CalculateEMA(candles, s.trendPeriod)

	result := none(s.Name())
	if up && last.Close > trendEMA {
		result = &SignalResult{
			Strategy:   s.Name(),
			Type:       SignalBuy,
			Confidence: 0.7,
			Reason:     fmt.Sprintf("EMA(%d)/EMA(%d) bullish cross above EMA(%d)", s.cfg.FastPeriod, s.cfg.SlowPeriod, s.trendPeriod),
			Timestamp:  last.ClosedAt(),
		}
	} else if down && last.Close < trendEMA {
		result = &SignalResult{
			Strategy:   s.Name(),
			Type:       SignalSell,
			Confidence: 0.7,
			Reason:     fmt.Sprintf("EMA(%d)/EMA(%d) bearish cross below EMA(%d)", s.cfg.FastPeriod, s.cfg.SlowPeriod, s.trendPeriod),
			Timestamp:  last.ClosedAt(),
		}
	}

	return qualified(s.cfg, result), nil
}

// TripleConfirmation requires RSI zone, MACD histogram, and EMA trend to
// agree before emitting anything.
type TripleConfirmation struct {
	baseStrategy
}

func NewTripleConfirmation(cfg Config) *TripleConfirmation {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 14
	}
	if cfg.FastPeriod <= 0 {
		cfg.FastPeriod = 9
	}
	if cfg.SlowPeriod <= 0 {
		cfg.SlowPeriod = 21
	}
	return &TripleConfirmation{baseStrategy{cfg: cfg}}
}

func (s *TripleConfirmation) Name() string { return "triple_confirmation" }

func (s *TripleConfirmation) Analyze(candles []market.Candle) (*SignalResult, error) {
	if len(candles) < 40 {
		return none(s.Name()), nil
	}

	rsi := indicator.CalculateRSI(candles, s.cfg.Lookback)
	macd := indicator.CalculateMACD(candles, 12, 26, 9)
	if macd == nil {
		return none(s.Name()), nil
	}

	fastEMA := indicator.CalculateEMA(candles, s.cfg.FastPeriod)
	slowEMA := indicator.CalculateEMA(candles, s.cfg.SlowPeriod)
	last := candles[len(candles)-1]

	bullish := rsi < 45 && macd.Histogram > 0 && fastEMA > slowEMA
	bearish := rsi > 55 && macd.Histogram < 0 && fastEMA < slowEMA

	result := none(s.Name())
	if bullish {
		result = &SignalResult{
			Strategy:   s.Name(),
			Type:       SignalBuy,
			Confidence: 0.75,
			Reason:     fmt.Sprintf("RSI %.1f + MACD histogram %.5f + EMA trend all bullish", rsi, macd.Histogram),
			Timestamp:  last.ClosedAt(),
		}
	} else if bearish {
		result = &SignalResult{
			Strategy:   s.Name(),
			Type:       SignalSell,
			Confidence: 0.75,
			Reason:     fmt.Sprintf("RSI %.1f + MACD histogram %.5f + EMA trend all bearish", rsi, macd.Histogram),
			Timestamp:  last.ClosedAt(),
		}
	}

	return qualified(s.cfg, result), nil
}
