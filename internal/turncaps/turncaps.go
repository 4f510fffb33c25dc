// Package turncaps derives the maximum yaw rate permitted at a given
// forward speed from a lateral-acceleration envelope.
package turncaps

import "math"

// Caps holds the lateral-acceleration envelope and turn-rate limits
// used to compute a speed-dependent maximum yaw rate.
type Caps struct {
	MaxLatAccel         float64
	MaxTurnRate         float64
	ReversingOmegaSlope float64
	ReverseTurns        bool
}

// New builds a Caps with the teacher/original firmware's defaults:
// 4 m/s^2 lateral accel (roughly highway-grade), 90 deg/s turn rate.
func New() *Caps {
	return &Caps{
		MaxLatAccel:         4.0,
		MaxTurnRate:         90.0 * math.Pi / 180.0,
		ReversingOmegaSlope: 1.0,
		ReverseTurns:        false,
	}
}

// saturatingTanhGain evaluates the tanh-shaped saturation curve used
// both for the lateral-acceleration envelope and for the reversing
// sign flip, written as the logistic-function form used by the
// original firmware (-1 + 2/(1+exp(-2kx))), which is algebraically
// tanh(kx) but avoids a second libm call on the embedded target.
func saturatingTanhGain(k, x float64) float64 {
	return -1 + 2/(1+math.Exp(-2*k*x))
}

// MaxTurnRateForSpeed returns the maximum yaw rate permitted at
// forward speed v, clamped to [0, MaxTurnRate] (or its sign-flipped
// range in ReverseTurns mode). It is total: every finite v produces a
// finite result, including v == 0.
func (c *Caps) MaxTurnRateForSpeed(v float64) float64 {
	a := c.MaxLatAccel * saturatingTanhGain(c.MaxTurnRate/c.MaxLatAccel, v)

	var omega float64
	if math.Abs(v) >= 1e-15 {
		omega = math.Max(0, math.Min(c.MaxTurnRate, a/v))
	} else {
		omega = c.MaxTurnRate
	}

	if c.ReverseTurns {
		// Reversing preserves the turning circle and flips the sign of
		// the heading-rate of change (joystick points at the turn centre).
		omega *= saturatingTanhGain(c.ReversingOmegaSlope, v)
	}
	// Otherwise (skid-steer convention) reversing preserves the sign of
	// the heading-rate of change and flips which side the turn circle
	// appears on; no extra factor is needed here.

	return omega
}
