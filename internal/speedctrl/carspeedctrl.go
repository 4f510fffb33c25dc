package speedctrl

import (
	"math"

	"github.com/SexyGoat/ArtCar/internal/motor"
)

// CarController derives an SC target from a throttle lever, a
// pedal-braking factor, and a joystick-braking state machine, and
// contains (rather than inherits from, per the design notes) a plain
// Controller that it drives through its own effective MAL.
type CarController struct {
	SC *Controller

	CruiseMAL  motor.AccLimits
	BrakingMAL motor.AccLimits

	ThrottleFactor         float64
	EnableThrottle         bool
	JoyBrakeSpeedThreshold float64
	LeverPos               float64
	InputBrakingFactor     float64
	EnableJoyBrake         bool
	EffectiveBrakingFactor float64
	JoyBrakingState        int8
	effectiveMAL           motor.AccLimits
}

// NewCarController builds a CarController with explicit throttle
// softening, joy-brake threshold and enable flag.
func NewCarController(
	cruiseMAL, brakingMAL motor.AccLimits,
	throttleFactor float64,
	enableThrottle bool,
	joyBrakeSpeedThreshold float64,
	enableJoyBrake bool,
) *CarController {
	c := &CarController{
		CruiseMAL:              cruiseMAL,
		BrakingMAL:             brakingMAL,
		ThrottleFactor:         throttleFactor,
		EnableThrottle:         enableThrottle,
		JoyBrakeSpeedThreshold: joyBrakeSpeedThreshold,
		EnableJoyBrake:         enableJoyBrake,
		effectiveMAL:           cruiseMAL,
	}
	c.SC = New(c.effectiveMAL)
	return c
}

// NewDefaultCarController matches the teacher's convenience constructor
// (full throttle, throttle softening on, joy-brake threshold 0.2, joy
// brake disabled).
func NewDefaultCarController(cruiseMAL, brakingMAL motor.AccLimits) *CarController {
	return NewCarController(cruiseMAL, brakingMAL, 1.0, true, 0.2, false)
}

// CurrentSpeed and CurrentAccel forward to the owned speed controller,
// so callers can treat CarController like a Controller without embedding.
func (c *CarController) CurrentSpeed() float64 { return c.SC.CurrentSpeed }
func (c *CarController) CurrentAccel() float64 { return c.SC.CurrentAccel }

// SetMaxSpeed and MaxSpeed mirror the corresponding SC field for
// callers that only need to read or set it.
func (c *CarController) SetMaxSpeed(v float64) { c.SC.MaxSpeed = v }
func (c *CarController) MaxSpeed() float64     { return c.SC.MaxSpeed }

// ForceSpeed forwards to the owned speed controller.
func (c *CarController) ForceSpeed(v float64) { c.SC.ForceSpeed(v) }

// Integrate forwards to the owned speed controller.
func (c *CarController) Integrate(deltaTime float64) { c.SC.Integrate(deltaTime) }

// Animate computes the eased, brake-aware target speed from the
// throttle lever and pedal/joystick braking, blends the effective
// motor limits between cruise and braking, and runs the owned speed
// controller's Animate against that freshly written effective MAL.
func (c *CarController) Animate() {
	ts0 := c.SC.MaxSpeed * c.LeverPos
	etf := 1.0
	if c.EnableThrottle {
		etf = c.ThrottleFactor
	}
	ts := c.SC.CurrentSpeed + etf*(ts0-c.SC.CurrentSpeed)
	bf := 0.0

	if c.EnableJoyBrake {
		if math.Abs(c.SC.CurrentSpeed) >= c.JoyBrakeSpeedThreshold &&
			math.Abs(ts0) >= c.JoyBrakeSpeedThreshold &&
			(ts0 < 0) != (c.SC.CurrentSpeed < 0) {
			if ts0 < 0 {
				c.JoyBrakingState = -1
			} else {
				c.JoyBrakingState = +1
			}
		}
	} else {
		c.JoyBrakingState = 0
	}

	switch c.JoyBrakingState {
	case -1:
		if ts0 < -c.JoyBrakeSpeedThreshold {
			bf = math.Abs(c.LeverPos)
			ts = math.Max(0, ts)
		} else {
			c.JoyBrakingState = 0
		}
	case +1:
		if ts0 > c.JoyBrakeSpeedThreshold {
			bf = math.Abs(c.LeverPos)
			ts = math.Min(0, ts)
		} else {
			c.JoyBrakingState = 0
		}
	}

	bf = math.Max(bf, c.InputBrakingFactor)
	c.EffectiveBrakingFactor = bf

	c.effectiveMAL.BlendFrom(c.CruiseMAL, c.BrakingMAL, bf)
	c.SC.MAL = c.effectiveMAL

	ts *= 1 - bf

	c.SC.TargetSpeed = ts
	c.SC.Animate()
}
