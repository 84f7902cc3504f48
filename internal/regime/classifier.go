package regime

import (
	"math"

	"binary-options-bot/internal/market"
)

// MarketRegime classifies recent price-action character
type MarketRegime string

const (
	StrongTrending MarketRegime = "strong_trending"
	Trending       MarketRegime = "trending"
	Ranging        MarketRegime = "ranging"
	Choppy         MarketRegime = "choppy"
)

// LookbackPeriod is the fixed window the classifier reads.
const LookbackPeriod = 20

// Multiplier returns the signal scale factor for the regime.
func (r MarketRegime) Multiplier() float64 {
	switch r {
	case StrongTrending:
		return 1.2
	case Trending:
		return 1.1
	case Ranging:
		return 0.8
	default:
		return 0.6
	}
}

// Classify determines the market regime from the trailing 20 closes.
// It is a pure function of its input window: identical candles always
// yield the identical regime.
func Classify(candles []market.Candle) MarketRegime {
	if len(candles) < LookbackPeriod {
		return Choppy
	}

	window := candles[len(candles)-LookbackPeriod:]
	first := window[0].Close
	last := window[len(window)-1].Close

	if first == 0 {
		return Choppy
	}

	totalMove := math.Abs(last-first) / first

	mean := 0.0
	for _, c := range window {
		mean += c.Close
	}
	mean /= float64(len(window))
	if mean == 0 {
		return Choppy
	}

	variance := 0.0
	for _, c := range window {
		diff := c.Close - mean
		variance += diff * diff
	}
	volatility := math.Sqrt(variance/float64(len(window))) / mean

	switch {
	case totalMove > 0.003 && volatility > 0.002:
		return StrongTrending
	case totalMove > 0.001 && volatility > 0.001:
		return Trending
	case volatility < 0.0005:
		return Ranging
	default:
		return Choppy
	}
}
