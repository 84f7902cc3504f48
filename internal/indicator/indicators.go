package indicator

import (
	"math"

	"binary-options-bot/internal/market"
)

// ============================================================================
// MOVING AVERAGES
// ============================================================================

// CalculateSMA calculates Simple Moving Average of closes
func CalculateSMA(candles []market.Candle, period int) float64 {
	if len(candles) < period || period <= 0 {
		return 0
	}

	sum := 0.0
	startIdx := len(candles) - period

	for i := startIdx; i < len(candles); i++ {
		sum += candles[i].Close
	}

	return sum / float64(period)
}

// CalculateEMA calculates Exponential Moving Average of closes
func CalculateEMA(candles []market.Candle, period int) float64 {
	series := calculateEMASeries(market.Closes(candles), period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// calculateEMASeries returns the EMA value for every index from period-1
// onward, seeded with the SMA of the first period values.
func calculateEMASeries(values []float64, period int) []float64 {
	if len(values) < period || period <= 0 {
		return nil
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}

	multiplier := 2.0 / float64(period+1)
	ema := sum / float64(period)

	series := make([]float64, 0, len(values)-period+1)
	series = append(series, ema)

	for i := period; i < len(values); i++ {
		ema = (values[i] * multiplier) + (ema * (1 - multiplier))
		series = append(series, ema)
	}

	return series
}

// ============================================================================
// RSI (Relative Strength Index)
// ============================================================================

// CalculateRSI calculates the Relative Strength Index over the trailing period.
// When the average loss is zero the RSI is exactly 100 (no division fault).
func CalculateRSI(candles []market.Candle, period int) float64 {
	if len(candles) < period+1 || period <= 0 {
		return 50.0 // Neutral RSI
	}

	gains := 0.0
	losses := 0.0

	for i := len(candles) - period; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// RSISignal maps an RSI value to a signed strength. A value exactly at the
// extreme threshold belongs to the stronger tier. Returns 0 and false when
// the RSI is in neutral territory.
func RSISignal(rsi float64) (float64, bool) {
	switch {
	case rsi <= 25:
		return 0.9, true
	case rsi <= 30:
		return 0.7, true
	case rsi >= 75:
		return -0.9, true
	case rsi >= 70:
		return -0.7, true
	default:
		return 0, false
	}
}

// ============================================================================
// MACD (Moving Average Convergence Divergence)
// ============================================================================

// MACDResult holds the current and previous MACD/signal values so that
// crossovers can be detected.
type MACDResult struct {
	MACD       float64
	Signal     float64
	Histogram  float64
	PrevMACD   float64
	PrevSignal float64
}

// BullishCross reports whether the MACD line crossed above its signal line
// on the latest candle.
func (r *MACDResult) BullishCross() bool {
	return r.PrevMACD <= r.PrevSignal && r.MACD > r.Signal
}

// BearishCross reports whether the MACD line crossed below its signal line
// on the latest candle.
func (r *MACDResult) BearishCross() bool {
	return r.PrevMACD >= r.PrevSignal && r.MACD < r.Signal
}

// CalculateMACD calculates the MACD line, its signal line, and the histogram.
// Returns nil when the window is too short for the slow EMA plus signal EMA.
func CalculateMACD(candles []market.Candle, fastPeriod, slowPeriod, signalPeriod int) *MACDResult {
	closes := market.Closes(candles)
	if len(closes) < slowPeriod+signalPeriod {
		return nil
	}

	fastSeries := calculateEMASeries(closes, fastPeriod)
	slowSeries := calculateEMASeries(closes, slowPeriod)
	if fastSeries == nil || slowSeries == nil {
		return nil
	}

	// Align the fast series to the slow series tail; both end at the last candle.
	offset := len(fastSeries) - len(slowSeries)
	macdLine := make([]float64, len(slowSeries))
	for i := range slowSeries {
		macdLine[i] = fastSeries[i+offset] - slowSeries[i]
	}

	signalSeries := calculateEMASeries(macdLine, signalPeriod)
	if len(signalSeries) < 2 || len(macdLine) < 2 {
		return nil
	}

	last := len(macdLine) - 1
	sigLast := len(signalSeries) - 1

	return &MACDResult{
		MACD:       macdLine[last],
		Signal:     signalSeries[sigLast],
		Histogram:  macdLine[last] - signalSeries[sigLast],
		PrevMACD:   macdLine[last-1],
		PrevSignal: signalSeries[sigLast-1],
	}
}

// MACDSignal maps a MACD result to a signed strength: +0.6 on a bullish
// cross, -0.6 on a bearish cross, else 0.
func MACDSignal(res *MACDResult) (float64, bool) {
	if res == nil {
		return 0, false
	}
	if res.BullishCross() {
		return 0.6, true
	}
	if res.BearishCross() {
		return -0.6, true
	}
	return 0, false
}

// ============================================================================
// BOLLINGER BANDS
// ============================================================================

// BollingerBandsResult holds Bollinger Bands values
type BollingerBandsResult struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// CalculateBollingerBands calculates Bollinger Bands over the trailing period
func CalculateBollingerBands(candles []market.Candle, period int, stdDevMultiplier float64) *BollingerBandsResult {
	if len(candles) < period || period <= 0 {
		return nil
	}

	middle := CalculateSMA(candles, period)

	variance := 0.0
	startIdx := len(candles) - period

	for i := startIdx; i < len(candles); i++ {
		diff := candles[i].Close - middle
		variance += diff * diff
	}

	stdDev := math.Sqrt(variance / float64(period))

	return &BollingerBandsResult{
		Upper:  middle + (stdDev * stdDevMultiplier),
		Middle: middle,
		Lower:  middle - (stdDev * stdDevMultiplier),
	}
}

// BollingerSignal maps price position against the bands: at or below the
// lower band +0.7 (oversold), at or above the upper band -0.7 (overbought).
func BollingerSignal(price float64, bb *BollingerBandsResult) (float64, bool) {
	if bb == nil {
		return 0, false
	}
	if price <= bb.Lower {
		return 0.7, true
	}
	if price >= bb.Upper {
		return -0.7, true
	}
	return 0, false
}

// ============================================================================
// STOCHASTIC OSCILLATOR
// ============================================================================

// CalculateStochasticK calculates the Stochastic %K from the trailing
// high/low range.
func CalculateStochasticK(candles []market.Candle, kPeriod int) float64 {
	if len(candles) < kPeriod || kPeriod <= 0 {
		return 50.0
	}

	startIdx := len(candles) - kPeriod
	highestHigh := candles[startIdx].High
	lowestLow := candles[startIdx].Low

	for i := startIdx; i < len(candles); i++ {
		if candles[i].High > highestHigh {
			highestHigh = candles[i].High
		}
		if candles[i].Low < lowestLow {
			lowestLow = candles[i].Low
		}
	}

	if highestHigh == lowestLow {
		return 50.0
	}

	currentClose := candles[len(candles)-1].Close
	return ((currentClose - lowestLow) / (highestHigh - lowestLow)) * 100
}

// StochasticSignal maps %K extremes: at or below 20 +0.5, at or above 80 -0.5.
func StochasticSignal(k float64) (float64, bool) {
	if k <= 20 {
		return 0.5, true
	}
	if k >= 80 {
		return -0.5, true
	}
	return 0, false
}

// ============================================================================
// ATR (Average True Range)
// ============================================================================

// CalculateATR calculates Average True Range over the trailing period
func CalculateATR(candles []market.Candle, period int) float64 {
	if len(candles) < period+1 || period <= 0 {
		return 0
	}

	trSum := 0.0
	startIdx := len(candles) - period

	for i := startIdx; i < len(candles); i++ {
		high := candles[i].High
		low := candles[i].Low
		prevClose := candles[i-1].Close

		tr := math.Max(
			high-low,
			math.Max(
				math.Abs(high-prevClose),
				math.Abs(low-prevClose),
			),
		)

		trSum += tr
	}

	return trSum / float64(period)
}

// ============================================================================
// VOLUME ANALYSIS
// ============================================================================

// VolumeSpikeThreshold is the ratio over average volume that qualifies as a spike.
const VolumeSpikeThreshold = 1.8

// CalculateVolumeRatio returns the ratio of the latest candle's volume to
// the mean volume of the preceding lookback candles.
func CalculateVolumeRatio(candles []market.Candle, lookback int) float64 {
	if len(candles) < lookback+1 || lookback <= 0 {
		return 0
	}

	sum := 0.0
	startIdx := len(candles) - 1 - lookback
	for i := startIdx; i < len(candles)-1; i++ {
		sum += candles[i].Volume
	}

	avg := sum / float64(lookback)
	if avg == 0 {
		return 0
	}

	return candles[len(candles)-1].Volume / avg
}

// VolumeSpikeSignal maps a volume ratio to an unsigned spike strength:
// min(ratio/1.8, 2) * 0.5 once the ratio reaches the spike threshold.
// The caller signs the result by the spiking candle's direction.
func VolumeSpikeSignal(ratio float64) (float64, bool) {
	if ratio < VolumeSpikeThreshold {
		return 0, false
	}
	strength := math.Min(ratio/VolumeSpikeThreshold, 2) * 0.5
	return strength, true
}

// ============================================================================
// MULTI-WINDOW MOMENTUM
// ============================================================================

// Momentum windows and their weights, fastest first.
var (
	MomentumWindows = []int{3, 5, 7, 15}
	MomentumWeights = []float64{0.4, 0.3, 0.2, 0.1}
)

// MomentumResult holds the weighted multi-window momentum reading.
type MomentumResult struct {
	Weighted  float64 // weighted average percent change across windows
	Alignment float64 // fraction of windows agreeing with the weighted sign
}

// CalculateMomentum computes the weighted percent change over the standard
// windows plus the directional alignment across them. Returns nil when the
// window cannot cover the slowest lookback.
func CalculateMomentum(candles []market.Candle) *MomentumResult {
	maxWindow := MomentumWindows[len(MomentumWindows)-1]
	if len(candles) < maxWindow+1 {
		return nil
	}

	last := candles[len(candles)-1].Close
	changes := make([]float64, len(MomentumWindows))
	weighted := 0.0

	for i, w := range MomentumWindows {
		past := candles[len(candles)-1-w].Close
		if past == 0 {
			return nil
		}
		change := (last - past) / past * 100
		changes[i] = change
		weighted += change * MomentumWeights[i]
	}

	agreeing := 0
	for _, c := range changes {
		if (weighted > 0 && c > 0) || (weighted < 0 && c < 0) {
			agreeing++
		}
	}

	return &MomentumResult{
		Weighted:  weighted,
		Alignment: float64(agreeing) / float64(len(MomentumWindows)),
	}
}

// ============================================================================
// FIBONACCI RETRACEMENT LEVELS
// ============================================================================

// FibonacciRatios are the retracement fractions checked for proximity,
// shallowest first. Only the first matching level triggers.
var FibonacciRatios = []float64{0.236, 0.382, 0.5, 0.618, 0.786}

// FibonacciLevels holds the retracement price levels of a high/low range.
type FibonacciLevels struct {
	High   float64
	Low    float64
	Levels []float64 // same order as FibonacciRatios
}

// CalculateFibonacciLevels calculates retracement levels of the trailing
// period's high/low range.
func CalculateFibonacciLevels(candles []market.Candle, period int) *FibonacciLevels {
	if len(candles) < period || period <= 0 {
		return nil
	}

	startIdx := len(candles) - period
	high := candles[startIdx].High
	low := candles[startIdx].Low

	for i := startIdx; i < len(candles); i++ {
		if candles[i].High > high {
			high = candles[i].High
		}
		if candles[i].Low < low {
			low = candles[i].Low
		}
	}

	diff := high - low
	levels := make([]float64, len(FibonacciRatios))
	for i, r := range FibonacciRatios {
		levels[i] = high - diff*r
	}

	return &FibonacciLevels{High: high, Low: low, Levels: levels}
}

// FibonacciSignal checks price proximity to each retracement level in order
// and maps the first level within 0.5% of price: a level below price acts as
// support (+0.6), a level above acts as resistance (-0.6).
func FibonacciSignal(price float64, fib *FibonacciLevels) (float64, bool) {
	if fib == nil || price <= 0 {
		return 0, false
	}

	for _, level := range fib.Levels {
		if math.Abs(price-level)/price <= 0.005 {
			if level <= price {
				return 0.6, true
			}
			return -0.6, true
		}
	}
	return 0, false
}
