package patterns

import (
	"testing"

	"binary-options-bot/internal/market"
)

func TestHammerStrength(t *testing.T) {
	detector := NewPatternDetector()

	// Valid Hammer: long lower shadow, tiny upper shadow
	hammer := market.Candle{Open: 100, High: 100.25, Low: 96, Close: 100.2}
	strength, ok := detector.HammerStrength(hammer)
	if !ok {
		t.Fatal("should detect valid Hammer")
	}
	if strength <= 0 || strength > 0.85 {
		t.Errorf("Hammer strength = %v, want in (0, 0.85]", strength)
	}

	// Invalid - lower shadow too short
	notHammer := market.Candle{Open: 100, High: 100.3, Low: 99.8, Close: 100.2}
	if _, ok := detector.HammerStrength(notHammer); ok {
		t.Error("should NOT detect Hammer with short lower shadow")
	}

	// Invalid - long upper shadow
	topHeavy := market.Candle{Open: 100, High: 101, Low: 96, Close: 100.2}
	if _, ok := detector.HammerStrength(topHeavy); ok {
		t.Error("should NOT detect Hammer with long upper shadow")
	}
}

func TestHammerDojiSkipped(t *testing.T) {
	detector := NewPatternDetector()

	// Zero body: no shadow/body ratio exists, candle is skipped
	doji := market.Candle{Open: 100, High: 100.1, Low: 96, Close: 100}
	if _, ok := detector.HammerStrength(doji); ok {
		t.Error("doji must not register as Hammer")
	}
	if _, ok := detector.ShootingStarStrength(doji); ok {
		t.Error("doji must not register as Shooting Star")
	}
}

func TestShootingStarStrength(t *testing.T) {
	detector := NewPatternDetector()

	// Valid Shooting Star: long upper shadow, tiny lower shadow
	star := market.Candle{Open: 100.2, High: 104, Low: 99.95, Close: 100}
	strength, ok := detector.ShootingStarStrength(star)
	if !ok {
		t.Fatal("should detect valid Shooting Star")
	}
	if strength >= 0 {
		t.Errorf("Shooting Star strength = %v, want negative", strength)
	}

	// Invalid - upper shadow too short
	notStar := market.Candle{Open: 100.2, High: 100.4, Low: 99.95, Close: 100}
	if _, ok := detector.ShootingStarStrength(notStar); ok {
		t.Error("should NOT detect Shooting Star with short upper shadow")
	}
}

func TestEngulfingStrength(t *testing.T) {
	detector := NewPatternDetector()

	// Valid Bullish Engulfing
	prev := market.Candle{Open: 100, High: 100.5, Low: 98.5, Close: 99}      // bearish
	current := market.Candle{Open: 98.8, High: 101.5, Low: 98.5, Close: 101} // engulfs it
	strength, ok := detector.EngulfingStrength(prev, current)
	if !ok {
		t.Fatal("should detect Bullish Engulfing")
	}
	if strength <= 0 || strength > 0.90 {
		t.Errorf("Bullish Engulfing strength = %v, want in (0, 0.90]", strength)
	}

	// Valid Bearish Engulfing: mirrored
	prevBull := market.Candle{Open: 99, High: 100.5, Low: 98.5, Close: 100}
	currentBear := market.Candle{Open: 100.2, High: 100.5, Low: 97.5, Close: 98}
	strength, ok = detector.EngulfingStrength(prevBull, currentBear)
	if !ok {
		t.Fatal("should detect Bearish Engulfing")
	}
	if strength >= 0 {
		t.Errorf("Bearish Engulfing strength = %v, want negative", strength)
	}

	// Invalid - current body not 1.2x larger
	small := market.Candle{Open: 98.9, High: 100.2, Low: 98.5, Close: 100}
	if _, ok := detector.EngulfingStrength(prev, small); ok {
		t.Error("should NOT detect Engulfing without body dominance")
	}

	// Invalid - same direction candles
	if _, ok := detector.EngulfingStrength(prevBull, current); ok {
		t.Error("should NOT detect Engulfing on same-direction candles")
	}
}

func TestDetectLatest(t *testing.T) {
	detector := NewPatternDetector()

	if found := detector.DetectLatest(nil); len(found) != 0 {
		t.Error("empty window must yield no patterns")
	}

	// Last candle is a hammer; engulfing check must look at candle 1 only
	candles := []market.Candle{
		{Open: 100, High: 101, Low: 99, Close: 100.5, CloseTime: 1000},
		{Open: 100, High: 100.25, Low: 96, Close: 100.2, CloseTime: 2000},
	}
	found := detector.DetectLatest(candles)
	if len(found) != 1 {
		t.Fatalf("found %d patterns, want 1", len(found))
	}
	if found[0].Type != Hammer {
		t.Errorf("pattern type = %v, want hammer", found[0].Type)
	}
	if found[0].CandleIndex != 1 {
		t.Errorf("pattern index = %d, want last candle", found[0].CandleIndex)
	}
	if found[0].Direction != "bullish" {
		t.Errorf("pattern direction = %q, want bullish", found[0].Direction)
	}
}
