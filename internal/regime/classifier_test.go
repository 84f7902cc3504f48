package regime

import (
	"testing"

	"binary-options-bot/internal/market"
)

func candlesFromCloses(closes []float64) []market.Candle {
	candles := make([]market.Candle, len(closes))
	for i, c := range closes {
		candles[i] = market.Candle{Open: c, High: c, Low: c, Close: c}
	}
	return candles
}

func TestClassifyShortWindow(t *testing.T) {
	candles := candlesFromCloses([]float64{100, 101, 102})
	if r := Classify(candles); r != Choppy {
		t.Errorf("short window regime = %v, want choppy", r)
	}
}

func TestClassifyStrongTrending(t *testing.T) {
	// 20 candles rising 0.05% each: total move ~1%, volatility well above
	// the strong-trend floor.
	closes := make([]float64, 20)
	price := 100.0
	for i := range closes {
		closes[i] = price
		price *= 1.0005
	}
	if r := Classify(candlesFromCloses(closes)); r != StrongTrending {
		t.Errorf("steep rise regime = %v, want strong_trending", r)
	}
}

func TestClassifyRanging(t *testing.T) {
	// Near-flat closes: negligible move and volatility
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i%2)*0.01
	}
	if r := Classify(candlesFromCloses(closes)); r != Ranging {
		t.Errorf("flat market regime = %v, want ranging", r)
	}
}

func TestClassifyChoppy(t *testing.T) {
	// Wide oscillation that ends where it started: high volatility, no move
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i%2)*0.2
	}
	if r := Classify(candlesFromCloses(closes)); r != Choppy {
		t.Errorf("oscillating market regime = %v, want choppy", r)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	closes := []float64{100, 100.2, 100.1, 100.4, 100.3, 100.6, 100.5, 100.8, 100.7, 101,
		100.9, 101.2, 101.1, 101.4, 101.3, 101.6, 101.5, 101.8, 101.7, 102}
	candles := candlesFromCloses(closes)

	first := Classify(candles)
	for i := 0; i < 10; i++ {
		if got := Classify(candles); got != first {
			t.Fatalf("classification changed between identical calls: %v then %v", first, got)
		}
	}
}

func TestMultiplierOrdering(t *testing.T) {
	if StrongTrending.Multiplier() != 1.2 {
		t.Errorf("strong_trending multiplier = %v, want 1.2", StrongTrending.Multiplier())
	}
	if Trending.Multiplier() != 1.1 {
		t.Errorf("trending multiplier = %v, want 1.1", Trending.Multiplier())
	}
	if Ranging.Multiplier() != 0.8 {
		t.Errorf("ranging multiplier = %v, want 0.8", Ranging.Multiplier())
	}
	if Choppy.Multiplier() != 0.6 {
		t.Errorf("choppy multiplier = %v, want 0.6", Choppy.Multiplier())
	}
}
