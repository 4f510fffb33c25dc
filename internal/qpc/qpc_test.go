package qpc

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestReachesRestAndStays(t *testing.T) {
	c := New(2, 2, 1, 0)
	c.TargetX = 5

	restAt := c.Integrate(0.01)
	for time := restAt + 1; time < restAt+20; time += 1 {
		c.Integrate(time)
	}

	if !almostEqual(c.X, 5, 1e-6) {
		t.Fatalf("x = %v, want 5", c.X)
	}
	if !almostEqual(c.V, 0, 1e-6) {
		t.Fatalf("v = %v, want 0", c.V)
	}
}

func TestAllRestWhenAlreadyThere(t *testing.T) {
	c := New(2, 2, 1, 3)
	c.TargetX = 3

	restAt := c.Integrate(0.0)
	if restAt != 0 {
		t.Fatalf("rest time = %v, want 0", restAt)
	}
	if c.X != 3 || c.V != 0 {
		t.Fatalf("x,v = %v,%v want 3,0", c.X, c.V)
	}
}

func TestTimeShiftReparameterizable(t *testing.T) {
	// Integrating by 0.1 and then by a further 0.27 from the resulting
	// state must match integrating by 0.37 in one shot, since the
	// trajectory is recomputed fresh from (x, v, target) every call.
	mk := func() *Controller {
		c := New(2, 1.5, 1, -1)
		c.TargetX = 4
		c.V = 0.3
		return c
	}

	direct := mk()
	direct.Integrate(0.1)
	direct.Integrate(0.27)

	oneShot := mk()
	oneShot.Integrate(0.37)

	if !almostEqual(direct.X, oneShot.X, 1e-9) || !almostEqual(direct.V, oneShot.V, 1e-9) {
		t.Fatalf("mismatch: direct=(%v,%v) oneShot=(%v,%v)", direct.X, direct.V, oneShot.X, oneShot.V)
	}
}

func TestVelocityNeverExceedsCapsByMoreThanOneReinStep(t *testing.T) {
	c := New(1, 1, 3, 0)
	c.V = 10 // way over max_fwd_v
	c.TargetX = 0

	c.Integrate(0)
	maxCap := math.Max(c.MaxFwdV, c.MaxRevV)
	slack := c.MaxA * 0.001 // one tiny step of acceleration transient
	if math.Abs(c.V) > maxCap+slack+1e-9 {
		// At delta_time=0 no rein time has elapsed and v is still the
		// initial overspeed, so nothing is asserted here; the cap is
		// checked below after the trajectory has had time to rein it in.
	}

	c.Integrate(20)
	if math.Abs(c.V) > maxCap+1e-6 {
		t.Fatalf("v = %v exceeds cap %v after reining", c.V, maxCap)
	}
}

func TestOvershootCorrection(t *testing.T) {
	// Moving fast past the target must turn around, not overshoot forever.
	c := New(5, 5, 2, 0)
	c.V = 4
	c.TargetX = 1

	restAt := c.Integrate(0)
	c.Integrate(restAt)
	if !almostEqual(c.X, 1, 1e-4) {
		t.Fatalf("x = %v, want 1", c.X)
	}
	if !almostEqual(c.V, 0, 1e-4) {
		t.Fatalf("v = %v, want 0", c.V)
	}
}

func TestRetargetMidTrajectoryIsLegal(t *testing.T) {
	c := New(2, 2, 1, 0)
	c.TargetX = 10
	c.Integrate(0.5)
	c.TargetX = -10 // full retarget mid-flight
	restAt := c.Integrate(0)
	c.Integrate(restAt)
	if !almostEqual(c.X, -10, 1e-3) {
		t.Fatalf("x = %v, want -10", c.X)
	}
}
