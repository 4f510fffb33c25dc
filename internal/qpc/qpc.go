// Package qpc implements the quadratic position controller: a
// five-segment piecewise-quadratic trajectory generator that drives a
// 1-D position from any (x, v) to rest at a target position without
// exceeding velocity or acceleration limits.
package qpc

import "math"

// Controller holds the kinematic limits and live state of a single
// quadratic-position trajectory. Reused by the speed controller with
// (x, v, a) reinterpreted as (speed, accel, jerk).
type Controller struct {
	MaxFwdV float64
	MaxRevV float64
	MaxA    float64
	TargetX float64
	X       float64
	V       float64
}

// New builds a Controller at rest at x with the given velocity/accel caps.
func New(maxFwdV, maxRevV, maxA, x float64) *Controller {
	return &Controller{
		MaxFwdV: maxFwdV,
		MaxRevV: maxRevV,
		MaxA:    maxA,
		TargetX: x,
		X:       x,
		V:       0,
	}
}

// NewDefault matches the teacher's zero-value constructor: unit caps, at rest.
func NewDefault() *Controller {
	return New(1, 1, 1, 0)
}

const timeIdx, posIdx, velIdx, accIdx = 0, 1, 2, 3

type piece [4]float64

func evalPiece(p piece, deltaTime float64) (x, v float64) {
	t := deltaTime - p[timeIdx]
	x = p[posIdx] + t*(p[velIdx]+0.5*t*p[accIdx])
	v = p[velIdx] + t*p[accIdx]
	return x, v
}

// signedMag returns mag with the sign of sign, matching C's copysignf
// used throughout the original firmware (sign(0) is treated as positive).
func signedMag(mag, sign float64) float64 {
	return math.Copysign(mag, sign)
}

// Integrate advances (X, V) to the state at deltaTime seconds from now
// along the five-segment trajectory (rein, turn, lurch, cruise, brake,
// then a degenerate rest piece), and returns the wall-clock time at
// which the trajectory reaches rest. Calling Integrate repeatedly with
// an unchanged target re-derives the same trajectory each time, so it
// may be called with arbitrarily large or small deltaTime and may be
// micro-stepped.
func (c *Controller) Integrate(deltaTime float64) float64 {
	accel := signedMag(c.MaxA, c.V)
	decel := -accel

	// Rein: correct any overspeeding relative to the velocity caps.
	var rein, turn piece
	{
		dvRein := 0.0
		if c.V > c.MaxFwdV {
			dvRein = c.MaxFwdV - c.V
		} else if c.V < -c.MaxRevV {
			dvRein = -c.MaxRevV - c.V
		}
		dtRein := math.Abs(dvRein) / c.MaxA
		dxRein := (c.V + 0.5*decel*dtRein) * dtRein

		rein[timeIdx] = 0
		rein[posIdx] = c.X
		rein[velIdx] = c.V
		rein[accIdx] = decel

		turn[timeIdx] = rein[timeIdx] + dtRein
		turn[posIdx] = rein[posIdx] + dxRein
		turn[velIdx] = rein[velIdx] + dvRein
		turn[accIdx] = decel
	}

	// Turn/Lurch: decide whether the controller must first decelerate
	// to a stop (heading the wrong way, or would overshoot) before
	// lurching toward the target, or whether it may keep its momentum
	// and lurch from a back-projected virtual origin.
	var lurch piece
	var tBPLurch, xBPLurch float64
	{
		dtMSD := math.Abs(turn[velIdx]) / c.MaxA
		dxMSD := dtMSD * (turn[velIdx] + 0.5*decel*dtMSD)
		xAtMSD := turn[posIdx] + dxMSD

		headingWrongWay := (c.TargetX < turn[posIdx]) != (turn[velIdx] < 0)
		willOvershootAnyway := (c.TargetX < xAtMSD) != (dxMSD < 0)

		if headingWrongWay || willOvershootAnyway {
			lurch[timeIdx] = turn[timeIdx] + dtMSD
			lurch[posIdx] = turn[posIdx] + dxMSD
			lurch[velIdx] = 0
			tBPLurch = lurch[timeIdx]
			xBPLurch = lurch[posIdx]
		} else {
			lurch[timeIdx] = turn[timeIdx]
			lurch[posIdx] = turn[posIdx]
			lurch[velIdx] = turn[velIdx]
			tBPLurch = lurch[timeIdx] - dtMSD
			xBPLurch = lurch[posIdx] - dxMSD
		}
	}

	// From xBPLurch on, pretend position moves monotonically toward
	// target_x; lurch, cruise, brake and rest are all derived from this.
	var cruise, brake, rest piece
	{
		dx := c.TargetX - xBPLurch
		maxV := c.MaxFwdV
		if dx < 0 {
			maxV = c.MaxRevV
		}
		lurchAccel := signedMag(c.MaxA, dx)
		lurchDecel := -lurchAccel
		adx := math.Abs(dx)
		maxDxForTriangularV := (maxV * maxV) / c.MaxA

		var dtVRamp, dxForTriangularV, lsd, lst, inflectionV float64
		if adx <= maxDxForTriangularV {
			dtVRamp = math.Sqrt(adx / c.MaxA)
			dxForTriangularV = adx
			inflectionV = c.MaxA * dtVRamp
		} else {
			dtVRamp = maxV / c.MaxA
			dxForTriangularV = maxDxForTriangularV
			lsd = adx - maxDxForTriangularV
			lst = lsd / math.Max(1e-12, maxV)
			inflectionV = maxV
		}

		lurch[accIdx] = lurchAccel

		cruise[timeIdx] = tBPLurch + dtVRamp
		cruise[posIdx] = xBPLurch + 0.5*signedMag(dxForTriangularV, dx)
		cruise[velIdx] = signedMag(inflectionV, dx)
		cruise[accIdx] = 0

		brake[timeIdx] = cruise[timeIdx] + lst
		brake[posIdx] = cruise[posIdx] + signedMag(lsd, dx)
		brake[velIdx] = cruise[velIdx]
		brake[accIdx] = lurchDecel

		rest[timeIdx] = brake[timeIdx] + dtVRamp
		rest[posIdx] = c.TargetX
		rest[velIdx] = 0
		rest[accIdx] = 0
	}

	var active piece
	switch {
	case deltaTime < lurch[timeIdx]:
		if deltaTime < turn[timeIdx] {
			active = rein
		} else {
			active = turn
		}
	case deltaTime < brake[timeIdx]:
		if deltaTime < cruise[timeIdx] {
			active = lurch
		} else {
			active = cruise
		}
	default:
		if deltaTime < rest[timeIdx] {
			active = brake
		} else {
			active = rest
		}
	}

	c.X, c.V = evalPiece(active, deltaTime)
	return rest[timeIdx]
}
