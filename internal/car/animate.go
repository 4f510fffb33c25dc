package car

import (
	"math"

	"github.com/SexyGoat/ArtCar/internal/gamepad"
	"github.com/SexyGoat/ArtCar/internal/xmath"
)

const (
	trigJogThreshold = 0.1
	bfThreshold      = 0.05
)

func constrain(x, lo, hi float64) float64 {
	return xmath.Constrain(x, lo, hi)
}

// AnimateGCSAndCar is the pure per-cycle animator: it reads the raw
// gamepad snapshot and calibration, derives joystick_x/joystick_y per
// the active input device mode, applies trim, jogging and braking
// logic, and drives every controller's Animate in the order the
// original firmware used (turn controller implicitly via target_x,
// then the car speed controller, then both wheel speed controllers).
// It never advances a trajectory; that is Integrate's job.
func AnimateGCSAndCar(
	gcs *GeneralCtrlState,
	inp gamepad.State,
	gpcal gamepad.GamepadCal,
	c *Car,
) {
	S := c.SpeedCtrl

	S.EnableJoyBrake = gcs.Flags.EnableJoyBrake
	c.TurnCaps.ReverseTurns = gcs.Flags.ReverseTurns

	maxOmega := c.TurnCaps.MaxTurnRate
	maxCtrlSpeed := c.MaxBodySpeed
	if gcs.IDM == HPat || gcs.IDM == ModHPat {
		if !gcs.Flags.LimitTurnRate {
			maxCtrlSpeed = c.MaxWheelSpeed
			maxOmega = c.MaxHPatOmega
		}
	}
	maxOmegaForSpeed := maxOmega

	leftTrigger := gamepad.JoyAxis2Float(inp.LeftTrigger, gpcal.LeftTrigger)
	rightTrigger := gamepad.JoyAxis2Float(inp.RightTrigger, gpcal.RightTrigger)

	leftJoyY := -gamepad.JoyAxis2Float(inp.LeftY, gpcal.LeftY)
	rightJoyY := -gamepad.JoyAxis2Float(inp.RightY, gpcal.RightY)

	var joystickX, joystickY float64

	// Input layout.
	{
		leftJoyX := gamepad.JoyAxis2Float(inp.LeftX, gpcal.LeftX)
		rightJoyX := gamepad.JoyAxis2Float(inp.RightX, gpcal.RightX)

		switch gcs.IDM {
		case HPat, ModHPat:
			rawHPatLeft := leftJoyY
			rawHPatRight := rightJoyY
			joystickX = 0.5 * (rawHPatLeft - rawHPatRight)
			joystickY = 0.5 * (rawHPatLeft + rawHPatRight)
			c.TurnCaps.ReverseTurns = false
		case ISO:
			joystickX = leftJoyX
			joystickY = leftJoyY
		case VH:
			joystickX = rightJoyX
			joystickY = leftJoyY
		default:
			joystickX = 0
			joystickY = 0
		}
	}

	// Trim adjustment.
	{
		trimButtonPressed := inp.Buttons.Circle
		if trimButtonPressed || gcs.Flags.ZeroingTrim {
			gcs.Flags.Trimming = true
		}
		if gcs.Flags.Trimming {
			if gcs.Flags.ZeroingTrim {
				if gcs.Trim == 0 && gcs.TrimVel == 0 {
					if leftTrigger == 0 && rightTrigger == 0 {
						gcs.Flags.ZeroingTrim = false
					}
				}
			} else {
				gcs.TrimVel = 0.005 * (leftTrigger - rightTrigger)
				if leftTrigger >= 0.8 && rightTrigger >= 0.8 {
					gcs.Flags.ZeroingTrim = true
				}
				if leftTrigger == 0 && rightTrigger == 0 && !trimButtonPressed {
					gcs.Flags.Trimming = false
				}
			}
			leftTrigger = 0
			rightTrigger = 0
		} else {
			gcs.TrimVel = 0
		}
	}

	// Jogging.
	isJogging := false
	jogx := b2i(inp.Buttons.Right) - b2i(inp.Buttons.Left)
	jogy := b2i(inp.Buttons.Up) - b2i(inp.Buttons.Down)
	if jogx != 0 || jogy != 0 {
		c.TurnCaps.ReverseTurns = false
		S.EnableJoyBrake = false
		S.JoyBrakingState = 0
		joystickX = c.TurnJogFactor * float64(jogx)
		joystickY = c.JogFactor * float64(jogy)
		isJogging = true
	}

	// Alternative control mode: triggers ease the throttle in place of
	// a separate throttle axis.
	if gcs.Flags.UseAltCtrlMethod && !isJogging {
		invCplTJT := 1.0 / (1.0 - trigJogThreshold)
		lt1 := (leftTrigger - trigJogThreshold) * invCplTJT
		rt1 := (rightTrigger - trigJogThreshold) * invCplTJT
		t1 := constrain(math.Max(lt1, rt1), 0, 1)
		if t1 > 0 {
			joystickY *= 1 - (1-c.JogFactor)*(1-t1)
		}
	}

	// Turn softening.
	c.TurnCtrl.TargetX = joystickX
	if !gcs.Flags.SoftenTurns {
		c.TurnCtrl.X = c.TurnCtrl.TargetX
		c.TurnCtrl.V = 0
	}
	joystickX = c.TurnCtrl.X

	// Throttle softening.
	S.EnableThrottle = gcs.Flags.SoftenThrottle

	// Speed, ideally sourced from a tachometer; here taken as the mean
	// of the two wheel speed controllers' own current speed.
	actualSpeed := 0.5 * (c.LWCtrl.CurrentSpeed + c.RWCtrl.CurrentSpeed)

	if gcs.Flags.LimitTurnRate {
		maxOmegaForSpeed = c.TurnCaps.MaxTurnRateForSpeed(actualSpeed)
	}
	omega := -maxOmegaForSpeed * joystickX
	halfDiffSpeed := 0.5 * c.AxleWidth * omega

	// The original firmware also computes moderated H-pattern
	// deflections (cmd_speed +/- half_diff_speed scaled by wheel speed)
	// here but never consumes them downstream; omitted.

	// Speed control.
	bf := 0.0
	if !gcs.Flags.UseAltCtrlMethod {
		bf = math.Max(leftTrigger, rightTrigger)
	}
	S.InputBrakingFactor = bf
	S.LeverPos = joystickY
	S.SetMaxSpeed(maxCtrlSpeed)
	S.Animate()
	if !gcs.Flags.SoftenSpeed {
		S.ForceSpeed(joystickY * maxCtrlSpeed * (1 - bf))
	}

	c.LWCtrl.TargetSpeed = S.CurrentSpeed() - halfDiffSpeed
	c.RWCtrl.TargetSpeed = S.CurrentSpeed() + halfDiffSpeed

	// Unmoderated H-pattern control overrides the moderated targets
	// entirely in raw HPat mode (but not in ModHPat).
	if gcs.IDM == HPat {
		c.LWCtrl.TargetSpeed = c.MaxWheelSpeed * leftJoyY
		c.RWCtrl.TargetSpeed = c.MaxWheelSpeed * rightJoyY
	}

	c.LWCtrl.Animate()
	c.RWCtrl.Animate()

	gcs.Flags.ReversingLamp = actualSpeed < -0.001

	a := S.CurrentAccel()
	if actualSpeed < 0 {
		a = -a
	}
	if a < -0.05 || S.JoyBrakingState != 0 || bf >= bfThreshold {
		gcs.Flags.StopLamp = true
	}
	if a >= -0.01 && S.JoyBrakingState == 0 && bf < bfThreshold {
		gcs.Flags.StopLamp = false
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// IntegrateGCSAndCar advances the turn controller, car speed
// controller and (unless motors_are_magic) both wheel speed
// controllers by deltaTime, and drives the trim trajectory: toward
// zero at a fixed rate while zeroing_trim holds, otherwise by
// trim_vel clamped to [-max_trim, +max_trim].
func IntegrateGCSAndCar(gcs *GeneralCtrlState, c *Car, deltaTime float64) {
	c.TurnCtrl.Integrate(deltaTime)
	c.SpeedCtrl.Integrate(deltaTime)
	if gcs.Flags.MotorsAreMagic {
		c.LWCtrl.ForceSpeed(c.LWCtrl.TargetSpeed)
		c.RWCtrl.ForceSpeed(c.RWCtrl.TargetSpeed)
	} else {
		c.LWCtrl.Integrate(deltaTime)
		c.RWCtrl.Integrate(deltaTime)
	}

	if gcs.Flags.ZeroingTrim {
		gcs.TrimVel = 0.05
		absDeltaTrim := gcs.TrimVel * deltaTime
		if gcs.Trim > 0 {
			gcs.Trim = math.Max(0, gcs.Trim-absDeltaTrim)
		} else if gcs.Trim < 0 {
			gcs.Trim = math.Min(0, gcs.Trim+absDeltaTrim)
		}
		// Snap floating-point residue left by repeated fixed steps.
		if math.Abs(gcs.Trim) < 1e-9 {
			gcs.Trim = 0
		}
		if gcs.Trim == 0 {
			gcs.TrimVel = 0
		}
	} else {
		gcs.Trim += deltaTime * gcs.TrimVel
		gcs.Trim = constrain(gcs.Trim, -gcs.MaxTrim, gcs.MaxTrim)
	}
}
