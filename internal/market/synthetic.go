package market

import (
	"math"
	"math/rand"
	"time"
)

// PhaseSpec describes one stretch of synthetic price behavior.
type PhaseSpec struct {
	Name       string
	Candles    int
	Drift      float64 // per-candle directional drift (fraction of price)
	Volatility float64 // per-candle noise amplitude (fraction of price)
	VolumeBase float64
}

// DefaultScenario spans the five behaviors exercised by backtests:
// uptrend, volatile sideways, downtrend, recovery, breakout.
func DefaultScenario() []PhaseSpec {
	return []PhaseSpec{
		{Name: "uptrend", Candles: 20, Drift: 0.0012, Volatility: 0.0008, VolumeBase: 1200},
		{Name: "volatile_sideways", Candles: 20, Drift: 0, Volatility: 0.0030, VolumeBase: 1500},
		{Name: "downtrend", Candles: 20, Drift: -0.0015, Volatility: 0.0010, VolumeBase: 1300},
		{Name: "recovery", Candles: 20, Drift: 0.0008, Volatility: 0.0006, VolumeBase: 1100},
		{Name: "breakout", Candles: 20, Drift: 0.0025, Volatility: 0.0020, VolumeBase: 2500},
	}
}

// SyntheticGenerator produces deterministic candle sequences from a seed.
// The same seed always yields byte-identical candles.
type SyntheticGenerator struct {
	rng      *rand.Rand
	price    float64
	interval time.Duration
	openTime int64
}

// NewSyntheticGenerator creates a generator starting at basePrice with
// one-minute candles.
func NewSyntheticGenerator(seed int64, basePrice float64) *SyntheticGenerator {
	return &SyntheticGenerator{
		rng:      rand.New(rand.NewSource(seed)),
		price:    basePrice,
		interval: time.Minute,
		openTime: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC).UnixMilli(),
	}
}

// Generate produces the candles for a single phase.
func (g *SyntheticGenerator) Generate(phase PhaseSpec) []Candle {
	candles := make([]Candle, 0, phase.Candles)
	for i := 0; i < phase.Candles; i++ {
		open := g.price
		change := phase.Drift + (g.rng.Float64()-0.5)*2*phase.Volatility
		closePrice := open * (1 + change)

		high := math.Max(open, closePrice) * (1 + g.rng.Float64()*phase.Volatility*0.5)
		low := math.Min(open, closePrice) * (1 - g.rng.Float64()*phase.Volatility*0.5)
		volume := phase.VolumeBase * (0.7 + g.rng.Float64()*0.6)

		candles = append(candles, Candle{
			OpenTime:  g.openTime,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			CloseTime: g.openTime + g.interval.Milliseconds() - 1,
		})

		g.price = closePrice
		g.openTime += g.interval.Milliseconds()
	}
	return candles
}

// GenerateScenario produces candles for every phase of the scenario in order.
func (g *SyntheticGenerator) GenerateScenario(phases []PhaseSpec) []Candle {
	var candles []Candle
	for _, phase := range phases {
		candles = append(candles, g.Generate(phase)...)
	}
	return candles
}
