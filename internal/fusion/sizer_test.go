package fusion

import (
	"math"
	"testing"
)

func TestPositionSizeMonotonic(t *testing.T) {
	// For fixed balance and risk, size must never decrease as confidence rises
	prev := 0.0
	for conf := 0.0; conf <= 1.0; conf += 0.05 {
		size := PositionSize(1000, 0.02, conf)
		if size < prev {
			t.Fatalf("size decreased from %v to %v at confidence %v", prev, size, conf)
		}
		prev = size
	}
}

func TestPositionSizeBounds(t *testing.T) {
	// Zero confidence risks half the budget, full confidence the whole budget
	if got := PositionSize(1000, 0.02, 0); math.Abs(got-10) > 1e-9 {
		t.Errorf("size at zero confidence = %v, want 10", got)
	}
	if got := PositionSize(1000, 0.02, 1); math.Abs(got-20) > 1e-9 {
		t.Errorf("size at full confidence = %v, want 20", got)
	}
}

func TestPositionSizeGuards(t *testing.T) {
	if PositionSize(0, 0.02, 0.9) != 0 {
		t.Error("zero balance must size to zero")
	}
	if PositionSize(-100, 0.02, 0.9) != 0 {
		t.Error("negative balance must size to zero")
	}
	if PositionSize(1000, 0, 0.9) != 0 {
		t.Error("zero risk fraction must size to zero")
	}
}

func TestProtectiveLevels(t *testing.T) {
	cfg := DefaultConfig()

	stop, take := protectiveLevels(cfg, DirectionBuy, 100)
	if stop >= 100 {
		t.Errorf("buy stop loss %v must be below entry", stop)
	}
	if take <= 100 {
		t.Errorf("buy take profit %v must be above entry", take)
	}

	stop, take = protectiveLevels(cfg, DirectionSell, 100)
	if stop <= 100 {
		t.Errorf("sell stop loss %v must be above entry", stop)
	}
	if take >= 100 {
		t.Errorf("sell take profit %v must be below entry", take)
	}
}
