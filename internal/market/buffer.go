package market

import "sync"

// CandleBuffer holds the rolling window of closed candles for one asset.
// The feed appends; the trading loop takes snapshots. The engine must only
// ever see a snapshot, never the live slice.
type CandleBuffer struct {
	mu       sync.RWMutex
	candles  []Candle
	capacity int
}

// NewCandleBuffer creates a buffer that retains at most capacity candles.
func NewCandleBuffer(capacity int) *CandleBuffer {
	if capacity <= 0 {
		capacity = 500
	}
	return &CandleBuffer{
		candles:  make([]Candle, 0, capacity),
		capacity: capacity,
	}
}

// Append adds a closed candle, evicting the oldest when full.
func (b *CandleBuffer) Append(c Candle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.candles = append(b.candles, c)
	if len(b.candles) > b.capacity {
		// Shift instead of re-slicing so the backing array doesn't grow unbounded
		copy(b.candles, b.candles[1:])
		b.candles = b.candles[:b.capacity]
	}
}

// Snapshot returns a copy of the current window. The returned slice is
// owned by the caller and is not affected by later appends.
func (b *CandleBuffer) Snapshot() []Candle {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Candle, len(b.candles))
	copy(out, b.candles)
	return out
}

// Len returns the number of buffered candles.
func (b *CandleBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.candles)
}

// Last returns the most recent candle and whether one exists.
func (b *CandleBuffer) Last() (Candle, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.candles) == 0 {
		return Candle{}, false
	}
	return b.candles[len(b.candles)-1], true
}
