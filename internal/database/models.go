package database

import "time"

// SignalRecord is the persisted form of an emitted fusion signal
type SignalRecord struct {
	ID           string             `json:"id"`
	Asset        string             `json:"asset"`
	Direction    string             `json:"direction"`
	Confidence   float64            `json:"confidence"`
	Tier         string             `json:"tier"`
	FusionScore  float64            `json:"fusion_score"`
	Phase1Score  float64            `json:"phase1_score"`
	Phase2Score  float64            `json:"phase2_score"`
	Phase3Score  float64            `json:"phase3_score"`
	Regime       string             `json:"regime"`
	PositionSize float64            `json:"position_size"`
	SessionPhase int                `json:"session_phase"`
	Signals      map[string]float64 `json:"signals"`
	CreatedAt    time.Time          `json:"created_at"`
}

// TradeRecord is the persisted form of an executed (and later settled) trade
type TradeRecord struct {
	ID         string     `json:"id"`
	SignalID   string     `json:"signal_id"`
	Asset      string     `json:"asset"`
	Direction  string     `json:"direction"`
	EntryPrice float64    `json:"entry_price"`
	Size       float64    `json:"size"`
	ExpiryAt   time.Time  `json:"expiry_at"`
	OpenedAt   time.Time  `json:"opened_at"`
	SettledAt  *time.Time `json:"settled_at,omitempty"`
	ExitPrice  *float64   `json:"exit_price,omitempty"`
	Win        *bool      `json:"win,omitempty"`
	PnL        *float64   `json:"pnl,omitempty"`
}
