package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Repository persists the signal and trade journal
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveSignal inserts an emitted signal
func (r *Repository) SaveSignal(ctx context.Context, rec *SignalRecord) error {
	signalsJSON, err := json.Marshal(rec.Signals)
	if err != nil {
		return fmt.Errorf("failed to marshal signal map: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO signals (
			id, asset, direction, confidence, tier, fusion_score,
			phase1_score, phase2_score, phase3_score, regime,
			position_size, session_phase, signals, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		rec.ID, rec.Asset, rec.Direction, rec.Confidence, rec.Tier, rec.FusionScore,
		rec.Phase1Score, rec.Phase2Score, rec.Phase3Score, rec.Regime,
		rec.PositionSize, rec.SessionPhase, signalsJSON, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save signal: %w", err)
	}
	return nil
}

// SaveTrade inserts an opened trade
func (r *Repository) SaveTrade(ctx context.Context, rec *TradeRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO trades (
			id, signal_id, asset, direction, entry_price, size, expiry_at, opened_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.SignalID, rec.Asset, rec.Direction, rec.EntryPrice,
		rec.Size, rec.ExpiryAt, rec.OpenedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save trade: %w", err)
	}
	return nil
}

// SettleTrade records a trade outcome
func (r *Repository) SettleTrade(ctx context.Context, tradeID string, exitPrice float64, win bool, pnl float64, settledAt time.Time) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trades
		SET settled_at = $2, exit_price = $3, win = $4, pnl = $5
		WHERE id = $1`,
		tradeID, settledAt, exitPrice, win, pnl,
	)
	if err != nil {
		return fmt.Errorf("failed to settle trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade %s not found", tradeID)
	}
	return nil
}

// DailyPnL sums settled P&L since the start of day
func (r *Repository) DailyPnL(ctx context.Context, dayStart time.Time) (float64, error) {
	var pnl float64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(pnl), 0) FROM trades
		WHERE settled_at IS NOT NULL AND settled_at >= $1`,
		dayStart,
	).Scan(&pnl)
	if err != nil {
		return 0, fmt.Errorf("failed to query daily pnl: %w", err)
	}
	return pnl, nil
}

// RecentSignals returns the latest emitted signals
func (r *Repository) RecentSignals(ctx context.Context, limit int) ([]SignalRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, asset, direction, confidence, tier, fusion_score,
		       phase1_score, phase2_score, phase3_score, regime,
		       position_size, session_phase, signals, created_at
		FROM signals ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var records []SignalRecord
	for rows.Next() {
		var rec SignalRecord
		var signalsJSON []byte
		if err := rows.Scan(
			&rec.ID, &rec.Asset, &rec.Direction, &rec.Confidence, &rec.Tier, &rec.FusionScore,
			&rec.Phase1Score, &rec.Phase2Score, &rec.Phase3Score, &rec.Regime,
			&rec.PositionSize, &rec.SessionPhase, &signalsJSON, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan signal row: %w", err)
		}
		if err := json.Unmarshal(signalsJSON, &rec.Signals); err != nil {
			return nil, fmt.Errorf("failed to unmarshal signal map: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
