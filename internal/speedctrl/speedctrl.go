// Package speedctrl implements speed control on top of the quadratic
// position controller, plus the car-level speed controller that mixes
// throttle, pedal braking and joystick-braking behavior.
package speedctrl

import (
	"github.com/SexyGoat/ArtCar/internal/motor"
	"github.com/SexyGoat/ArtCar/internal/qpc"
)

// Controller reinterprets a quadratic position controller as a speed
// controller: position becomes speed, velocity becomes acceleration,
// and acceleration becomes jerk.
type Controller struct {
	MAL          motor.AccLimits
	posCtrl      *qpc.Controller
	MaxSpeed     float64
	TargetSpeed  float64
	CurrentSpeed float64
	CurrentAccel float64
}

// New builds a Controller governed by the given motor acceleration limits.
func New(mal motor.AccLimits) *Controller {
	return &Controller{
		MAL: mal,
		posCtrl: qpc.New(
			mal.MaxFwdAccel,
			mal.MaxFwdDecel,
			mal.MaxJerk,
			0,
		),
		MaxSpeed: 0.1,
	}
}

// ForceSpeed snaps both the target and current speed to v and zeroes
// acceleration, bypassing the trajectory entirely. Used for
// "motors are magic" mode and to seed state after (re)configuration.
func (c *Controller) ForceSpeed(v float64) {
	c.TargetSpeed = v
	c.CurrentSpeed = v
	c.CurrentAccel = 0
	c.posCtrl.X = v
	c.posCtrl.TargetX = v
	c.posCtrl.V = 0
}

// Animate loads the embedded position controller from the current
// speed/accel/target and picks the correct signed acceleration caps:
// decelerating toward zero uses the opposite direction's accel limit,
// which is why current_speed's sign selects which pair of limits apply.
func (c *Controller) Animate() {
	var maxAcc, maxDec float64
	if c.CurrentSpeed >= 0 {
		maxAcc = c.MAL.MaxFwdAccel
		maxDec = c.MAL.MaxFwdDecel
	} else {
		maxAcc = c.MAL.MaxRevDecel
		maxDec = c.MAL.MaxRevAccel
	}
	c.posCtrl.MaxFwdV = maxAcc
	c.posCtrl.MaxRevV = maxDec
	c.posCtrl.MaxA = c.MAL.MaxJerk
	c.posCtrl.X = c.CurrentSpeed
	c.posCtrl.V = c.CurrentAccel
	c.posCtrl.TargetX = c.TargetSpeed
}

// Integrate advances the embedded position controller by deltaTime and
// copies its (x, v) back out as (current speed, current accel).
func (c *Controller) Integrate(deltaTime float64) {
	c.posCtrl.Integrate(deltaTime)
	c.CurrentSpeed = c.posCtrl.X
	c.CurrentAccel = c.posCtrl.V
}
