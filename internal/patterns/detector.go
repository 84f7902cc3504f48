package patterns

import (
	"math"
	"time"

	"binary-options-bot/internal/market"
)

// PatternType represents the supported candlestick patterns
type PatternType string

const (
	Hammer       PatternType = "hammer"
	ShootingStar PatternType = "shooting_star"
	Engulfing    PatternType = "engulfing"
)

// DetectedPattern represents a detected candlestick pattern. Strength is
// signed: positive bullish, negative bearish; magnitude is conviction.
type DetectedPattern struct {
	Type        PatternType
	CandleIndex int
	Strength    float64
	Direction   string // "bullish" or "bearish"
	DetectedAt  time.Time
}

// PatternDetector detects candlestick patterns in closed candle data
type PatternDetector struct{}

// NewPatternDetector creates a new pattern detector
func NewPatternDetector() *PatternDetector {
	return &PatternDetector{}
}

// DetectLatest checks the most recent candle (and its predecessor for
// engulfing) and returns every pattern found there.
func (pd *PatternDetector) DetectLatest(candles []market.Candle) []DetectedPattern {
	var found []DetectedPattern
	if len(candles) == 0 {
		return found
	}

	idx := len(candles) - 1
	current := candles[idx]

	if strength, ok := pd.HammerStrength(current); ok {
		found = append(found, DetectedPattern{
			Type:        Hammer,
			CandleIndex: idx,
			Strength:    strength,
			Direction:   "bullish",
			DetectedAt:  current.ClosedAt(),
		})
	}

	if strength, ok := pd.ShootingStarStrength(current); ok {
		found = append(found, DetectedPattern{
			Type:        ShootingStar,
			CandleIndex: idx,
			Strength:    strength,
			Direction:   "bearish",
			DetectedAt:  current.ClosedAt(),
		})
	}

	if idx >= 1 {
		if strength, ok := pd.EngulfingStrength(candles[idx-1], current); ok {
			direction := "bullish"
			if strength < 0 {
				direction = "bearish"
			}
			found = append(found, DetectedPattern{
				Type:        Engulfing,
				CandleIndex: idx,
				Strength:    strength,
				Direction:   direction,
				DetectedAt:  current.ClosedAt(),
			})
		}
	}

	return found
}

// HammerStrength checks for a Hammer: lower shadow longer than 2.5x the body
// with a short upper shadow. Strength scales with the shadow/body ratio up
// to 0.85.
func (pd *PatternDetector) HammerStrength(c market.Candle) (float64, bool) {
	body := c.Body()
	if body == 0 {
		return 0, false // doji, not a hammer
	}

	lower := c.LowerShadow()
	upper := c.UpperShadow()

	if lower <= body*2.5 || upper >= body*0.5 {
		return 0, false
	}

	return math.Min(lower/(3*body), 1) * 0.85, true
}

// ShootingStarStrength checks for a Shooting Star, the bearish mirror of the
// Hammer. Strength is negative.
func (pd *PatternDetector) ShootingStarStrength(c market.Candle) (float64, bool) {
	body := c.Body()
	if body == 0 {
		return 0, false
	}

	lower := c.LowerShadow()
	upper := c.UpperShadow()

	if upper <= body*2.5 || lower >= body*0.5 {
		return 0, false
	}

	return -math.Min(upper/(3*body), 1) * 0.85, true
}

// EngulfingStrength checks for an Engulfing pattern: the current body must
// exceed 1.2x the previous body and its open/close must straddle the prior
// candle's body. Strength is signed by the engulfing candle's direction.
func (pd *PatternDetector) EngulfingStrength(prev, current market.Candle) (float64, bool) {
	prevBody := prev.Body()
	currentBody := current.Body()
	if prevBody == 0 || currentBody <= prevBody*1.2 {
		return 0, false
	}

	strength := math.Min(currentBody/(1.5*prevBody), 1) * 0.90

	// Bullish: current bullish body swallows a bearish predecessor
	if current.IsBullish() && prev.IsBearish() &&
		current.Open <= prev.Close && current.Close >= prev.Open {
		return strength, true
	}

	// Bearish: current bearish body swallows a bullish predecessor
	if current.IsBearish() && prev.IsBullish() &&
		current.Open >= prev.Close && current.Close <= prev.Open {
		return -strength, true
	}

	return 0, false
}
