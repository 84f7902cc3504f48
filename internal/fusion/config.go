package fusion

// RegimeScope selects which entries the regime multiplier is applied to.
// The two behaviors produce materially different fusion outcomes, so the
// choice is an explicit configuration option rather than a constant.
type RegimeScope string

const (
	// RegimeScopePhase2 scales only the Phase-2 confluence map (default).
	RegimeScopePhase2 RegimeScope = "phase2"
	// RegimeScopeAll scales every entry of the merged map before fusion.
	RegimeScopeAll RegimeScope = "all"
)

// Config holds every threshold and period the engine uses. Immutable after
// construction.
type Config struct {
	MinCandles          int     `json:"min_candles"`
	MinSignals          int     `json:"min_signals"`
	MinStrength         float64 `json:"min_strength"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`

	RegimeScope RegimeScope `json:"regime_scope"`

	RSIPeriod        int     `json:"rsi_period"`
	MACDFast         int     `json:"macd_fast"`
	MACDSlow         int     `json:"macd_slow"`
	MACDSignal       int     `json:"macd_signal"`
	BollingerPeriod  int     `json:"bollinger_period"`
	BollingerStdDev  float64 `json:"bollinger_std_dev"`
	StochasticPeriod int     `json:"stochastic_period"`
	VolumeLookback   int     `json:"volume_lookback"`
	FibonacciPeriod  int     `json:"fibonacci_period"`

	RiskPerTrade  float64 `json:"risk_per_trade"`
	StopLossPct   float64 `json:"stop_loss_pct"`
	TakeProfitPct float64 `json:"take_profit_pct"`
	SessionHours  float64 `json:"session_hours"`
}

// DefaultConfig returns the canonical engine parameters.
func DefaultConfig() Config {
	return Config{
		MinCandles:          50,
		MinSignals:          2,
		MinStrength:         0.80,
		ConfidenceThreshold: 0.75,
		RegimeScope:         RegimeScopePhase2,
		RSIPeriod:           14,
		MACDFast:            12,
		MACDSlow:            26,
		MACDSignal:          9,
		BollingerPeriod:     20,
		BollingerStdDev:     2.0,
		StochasticPeriod:    14,
		VolumeLookback:      10,
		FibonacciPeriod:     20,
		RiskPerTrade:        0.02,
		StopLossPct:         0.005,
		TakeProfitPct:       0.010,
		SessionHours:        2.0,
	}
}
