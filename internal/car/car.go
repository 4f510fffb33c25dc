// Package car assembles the quadratic position, speed and turning
// controllers into a single vehicle aggregate and the per-cycle
// animator that drives it from a joystick snapshot.
package car

import (
	"math"

	"github.com/SexyGoat/ArtCar/internal/motor"
	"github.com/SexyGoat/ArtCar/internal/qpc"
	"github.com/SexyGoat/ArtCar/internal/speedctrl"
	"github.com/SexyGoat/ArtCar/internal/turncaps"
)

// Car owns every controller needed to turn a joystick deflection into
// a pair of wheel speed targets, plus the scalar geometry that relates
// body speed, wheel speed and turn rate.
type Car struct {
	TurnCaps  *turncaps.Caps
	TurnCtrl  *qpc.Controller
	SpeedCtrl *speedctrl.CarController
	LWCtrl    *speedctrl.Controller
	RWCtrl    *speedctrl.Controller

	JogFactor     float64
	TurnJogFactor float64
	AxleWidth     float64
	MaxWheelSpeed float64
	MaxBodySpeed  float64
	MaxHPatOmega  float64
}

// New builds a Car with the same defaults as the original firmware:
// a 25% jog factor for both axes, a 1 m axle width, and unit speed
// caps that InitComputedValues will generally need to shrink.
func New(wheelMAL, cruiseMAL, brakingMAL motor.AccLimits) *Car {
	return &Car{
		TurnCaps:      turncaps.New(),
		TurnCtrl:      qpc.New(1, 1, 1, 0),
		SpeedCtrl:     speedctrl.NewDefaultCarController(cruiseMAL, brakingMAL),
		LWCtrl:        speedctrl.New(wheelMAL),
		RWCtrl:        speedctrl.New(wheelMAL),
		JogFactor:     0.25,
		TurnJogFactor: 0.25,
		AxleWidth:     1.0,
		MaxWheelSpeed: 1.0,
		MaxBodySpeed:  1.0,
		MaxHPatOmega:  1.0,
	}
}

// InitComputedValues derives max_hpat_omega from the wheel speed and
// axle geometry, caps the turn controller's max turn rate at that
// value, and iteratively shrinks max_body_speed until no turn at any
// permitted body speed demands more differential wheel speed than
// max_wheel_speed allows. It is the only method permitted to mutate
// these three fields; call it once after configuring the car and
// before entering the animate/integrate loop.
func (c *Car) InitComputedValues() {
	c.MaxHPatOmega = 2.0 * c.MaxWheelSpeed / c.AxleWidth
	c.TurnCaps.MaxTurnRate = math.Min(c.TurnCaps.MaxTurnRate, c.MaxHPatOmega)

	for {
		omega := c.TurnCaps.MaxTurnRateForSpeed(c.MaxBodySpeed)
		halfDiffSpeed := 0.5 * omega * c.AxleWidth
		if c.MaxBodySpeed+halfDiffSpeed <= c.MaxWheelSpeed {
			break
		}
		newMaxBodySpeed := c.MaxWheelSpeed - halfDiffSpeed
		if newMaxBodySpeed >= c.MaxBodySpeed {
			break
		}
		c.MaxBodySpeed = newMaxBodySpeed
	}
}
