package fusion

import "math"

// fusionDecision is the aggregator's raw outcome before sizing and
// timestamping.
type fusionDecision struct {
	direction   Direction
	confidence  float64
	fusionScore float64
	merged      SignalMap
}

// aggregate merges the three phase maps into one directional decision.
// Returns nil when the evidence does not clear the configured thresholds:
// too few signals, insufficient directional strength, or low confidence.
func aggregate(cfg Config, p1, p2, p3 PhaseResult) *fusionDecision {
	merged := make(SignalMap, len(p1.Signals)+len(p2.Signals)+len(p3.Signals))
	for _, phase := range []PhaseResult{p1, p2, p3} {
		for name, v := range phase.Signals {
			merged[name] = v
		}
	}

	if len(merged) < cfg.MinSignals {
		return nil
	}

	buyStrength := 0.0
	sellStrength := 0.0
	for _, v := range merged {
		if v > 0 {
			buyStrength += v
		} else {
			sellStrength += -v
		}
	}

	direction := DirectionBuy
	strength := buyStrength
	if sellStrength > buyStrength {
		direction = DirectionSell
		strength = sellStrength
	}

	if strength < cfg.MinStrength {
		return nil
	}

	agreeing := 0
	for _, v := range merged {
		if (direction == DirectionBuy && v > 0) || (direction == DirectionSell && v < 0) {
			agreeing++
		}
	}

	confidence := float64(agreeing) / float64(len(merged)) * math.Min(strength/3.0, 1)
	if confidence < cfg.ConfidenceThreshold {
		return nil
	}

	return &fusionDecision{
		direction:   direction,
		confidence:  confidence,
		fusionScore: strength,
		merged:      merged,
	}
}
