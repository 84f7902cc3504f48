package fusion

// PositionSize converts confidence and account balance into a trade size.
// Monotonically non-decreasing in confidence for fixed balance and risk.
func PositionSize(balance, riskPerTrade, confidence float64) float64 {
	if balance <= 0 || riskPerTrade <= 0 {
		return 0
	}
	return balance * riskPerTrade * (0.5 + confidence*0.5)
}

// protectiveLevels derives stop-loss and take-profit prices from the entry
// price and the configured percentages, on the signal's side.
func protectiveLevels(cfg Config, direction Direction, entry float64) (stopLoss, takeProfit float64) {
	if direction == DirectionBuy {
		return entry * (1 - cfg.StopLossPct), entry * (1 + cfg.TakeProfitPct)
	}
	return entry * (1 + cfg.StopLossPct), entry * (1 - cfg.TakeProfitPct)
}
