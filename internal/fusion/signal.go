package fusion

import (
	"time"

	"binary-options-bot/internal/regime"
)

// Direction is the side of a trade recommendation
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// StrengthTier buckets the fusion score into an ordinal strength
type StrengthTier string

const (
	TierVeryWeak   StrengthTier = "very_weak"
	TierWeak       StrengthTier = "weak"
	TierModerate   StrengthTier = "moderate"
	TierStrong     StrengthTier = "strong"
	TierVeryStrong StrengthTier = "very_strong"
)

// TierForScore maps a fusion score to its strength tier
func TierForScore(score float64) StrengthTier {
	switch {
	case score >= 4.0:
		return TierVeryStrong
	case score >= 3.0:
		return TierStrong
	case score >= 2.0:
		return TierModerate
	case score >= 1.0:
		return TierWeak
	default:
		return TierVeryWeak
	}
}

// SignalMap maps an indicator name to its signed strength. Sign is
// direction, magnitude is conviction; most entries stay within [-1, 1].
type SignalMap map[string]float64

// Clone returns an independent copy of the map.
func (m SignalMap) Clone() SignalMap {
	out := make(SignalMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Scale multiplies every entry by factor in place.
func (m SignalMap) Scale(factor float64) {
	for k, v := range m {
		m[k] = v * factor
	}
}

// PhaseResult is the output of one analysis phase: its indicator signals
// plus the mean absolute magnitude as the phase score.
type PhaseResult struct {
	Signals SignalMap `json:"signals"`
	Score   float64   `json:"score"`
}

// scorePhase computes the mean absolute signal magnitude, 0 when empty.
func scorePhase(signals SignalMap) float64 {
	if len(signals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range signals {
		if v < 0 {
			sum += -v
		} else {
			sum += v
		}
	}
	return sum / float64(len(signals))
}

// FusionSignal is the engine's trade recommendation. It is created once per
// qualifying evaluation and never mutated.
type FusionSignal struct {
	Direction    Direction           `json:"direction"`
	Confidence   float64             `json:"confidence"`
	Tier         StrengthTier        `json:"tier"`
	Phase1Score  float64             `json:"phase1_score"`
	Phase2Score  float64             `json:"phase2_score"`
	Phase3Score  float64             `json:"phase3_score"`
	FusionScore  float64             `json:"fusion_score"`
	Signals      SignalMap           `json:"signals"`
	Regime       regime.MarketRegime `json:"regime"`
	PositionSize float64             `json:"position_size"`
	StopLoss     float64             `json:"stop_loss"`
	TakeProfit   float64             `json:"take_profit"`
	Timestamp    time.Time           `json:"timestamp"`
	SessionPhase int                 `json:"session_phase"`
}
