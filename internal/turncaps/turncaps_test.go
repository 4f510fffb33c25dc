package turncaps

import (
	"math"
	"testing"
)

func TestMaxTurnRateAtStandstillIsMaxTurnRate(t *testing.T) {
	c := New()
	got := c.MaxTurnRateForSpeed(0)
	if math.Abs(got-c.MaxTurnRate) > 1e-9 {
		t.Fatalf("turn rate at v=0 = %v, want %v", got, c.MaxTurnRate)
	}
}

func TestMaxTurnRateDecreasesWithSpeed(t *testing.T) {
	c := New()
	slow := c.MaxTurnRateForSpeed(0.5)
	fast := c.MaxTurnRateForSpeed(5.0)
	if fast >= slow {
		t.Fatalf("turn rate did not shrink with speed: slow=%v fast=%v", slow, fast)
	}
	if fast < 0 || slow > c.MaxTurnRate+1e-9 {
		t.Fatalf("turn rate out of bounds: slow=%v fast=%v max=%v", slow, fast, c.MaxTurnRate)
	}
}

func TestMaxTurnRateIsSymmetricInSpeedSign(t *testing.T) {
	c := New()
	fwd := c.MaxTurnRateForSpeed(2.0)
	rev := c.MaxTurnRateForSpeed(-2.0)
	if math.Abs(fwd-rev) > 1e-9 {
		t.Fatalf("turn rate not symmetric: fwd=%v rev=%v", fwd, rev)
	}
}

func TestReverseTurnsFlipsSignPastZero(t *testing.T) {
	c := New()
	c.ReverseTurns = true
	fwd := c.MaxTurnRateForSpeed(2.0)
	rev := c.MaxTurnRateForSpeed(-2.0)
	if fwd <= 0 {
		t.Fatalf("forward turn rate should stay positive, got %v", fwd)
	}
	if rev >= 0 {
		t.Fatalf("reversed turn rate should flip sign, got %v", rev)
	}
}

func TestMaxTurnRateNeverExceedsConfiguredCap(t *testing.T) {
	c := New()
	for _, v := range []float64{0, 0.01, 0.1, 1, 10, 100} {
		got := c.MaxTurnRateForSpeed(v)
		if got > c.MaxTurnRate+1e-9 {
			t.Fatalf("turn rate at v=%v exceeded cap: %v > %v", v, got, c.MaxTurnRate)
		}
	}
}
