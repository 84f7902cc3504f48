// Package database also provides Redis-based risk state persistence so a
// restarted process resumes its session counters instead of silently
// resetting its loss limits. When Redis is unavailable the store falls back
// to an in-memory copy so trading continues without interruption.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"binary-options-bot/internal/risk"
)

const (
	// riskStateKeyPrefix is the prefix for per-asset risk state keys.
	// Format: session:risk:{asset}
	riskStateKeyPrefix = "session:risk"

	// riskStateTTL keeps stale sessions from resurrecting days later.
	riskStateTTL = 24 * time.Hour
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Enabled  bool   `json:"enabled"`
}

// RiskStateStore persists risk session state in Redis with an in-memory
// fallback.
type RiskStateStore struct {
	client *redis.Client

	mu       sync.RWMutex
	fallback map[string]*risk.State
}

// NewRiskStateStore creates a store. A nil client is allowed and forces the
// in-memory fallback (used in tests and when Redis is disabled).
func NewRiskStateStore(client *redis.Client) *RiskStateStore {
	return &RiskStateStore{
		client:   client,
		fallback: make(map[string]*risk.State),
	}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func riskStateKey(asset string) string {
	return fmt.Sprintf("%s:%s", riskStateKeyPrefix, asset)
}

// Save persists the state for an asset.
func (s *RiskStateStore) Save(ctx context.Context, asset string, state *risk.State) error {
	copied := *state
	s.mu.Lock()
	s.fallback[asset] = &copied
	s.mu.Unlock()

	if s.client == nil {
		return nil
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal risk state: %w", err)
	}

	if err := s.client.Set(ctx, riskStateKey(asset), data, riskStateTTL).Err(); err != nil {
		return fmt.Errorf("failed to save risk state: %w", err)
	}
	return nil
}

// Load returns the persisted state for an asset, or nil when none exists.
func (s *RiskStateStore) Load(ctx context.Context, asset string) (*risk.State, error) {
	if s.client != nil {
		data, err := s.client.Get(ctx, riskStateKey(asset)).Bytes()
		switch {
		case err == redis.Nil:
			// fall through to the in-memory copy
		case err != nil:
			return nil, fmt.Errorf("failed to load risk state: %w", err)
		default:
			var state risk.State
			if err := json.Unmarshal(data, &state); err != nil {
				return nil, fmt.Errorf("failed to unmarshal risk state: %w", err)
			}
			return &state, nil
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.fallback[asset]; ok {
		copied := *state
		return &copied, nil
	}
	return nil, nil
}

// Clear removes the persisted state for an asset (session boundary reset).
func (s *RiskStateStore) Clear(ctx context.Context, asset string) error {
	s.mu.Lock()
	delete(s.fallback, asset)
	s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	if err := s.client.Del(ctx, riskStateKey(asset)).Err(); err != nil {
		return fmt.Errorf("failed to clear risk state: %w", err)
	}
	return nil
}
