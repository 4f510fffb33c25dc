package gamepad

import "github.com/SexyGoat/ArtCar/internal/xmath"

// AxisCal is the low/high/slop extent of one raw 8-bit axis, as
// stored persistently and consumed by the mapping. low <= slop_low <=
// slop_high <= high is expected but not enforced here; JoyAxis2Float
// is defined for any ordering because learning can transiently violate
// it while widening.
type AxisCal struct {
	Low      uint8
	High     uint8
	SlopLow  uint8
	SlopHigh uint8
}

// GamepadCal is the full set of per-axis calibrations for one
// gamepad, matching the layout persisted in a calibration slot.
type GamepadCal struct {
	LeftX        AxisCal
	LeftY        AxisCal
	RightX       AxisCal
	RightY       AxisCal
	LeftTrigger  AxisCal
	RightTrigger AxisCal
}

// DefaultJoyAxisCal is the out-of-the-box calibration for stick axes:
// full raw range, slop band straddling the centre detent.
func DefaultJoyAxisCal() AxisCal {
	return AxisCal{Low: 0, High: 255, SlopLow: 120, SlopHigh: 134}
}

// DefaultTriggerAxisCal is the out-of-the-box calibration for trigger
// axes: full raw range, slop band hugging the released position.
func DefaultTriggerAxisCal() AxisCal {
	return AxisCal{Low: 0, High: 255, SlopLow: 0, SlopHigh: 10}
}

// DefaultGamepadCal builds a GamepadCal with factory defaults for
// every axis, suitable for first boot before any slot load succeeds.
func DefaultGamepadCal() GamepadCal {
	joy := DefaultJoyAxisCal()
	trig := DefaultTriggerAxisCal()
	return GamepadCal{
		LeftX: joy, LeftY: joy, RightX: joy, RightY: joy,
		LeftTrigger: trig, RightTrigger: trig,
	}
}

// JoyAxis2Float converts a raw axis byte to a signed unit float using
// the given calibration: values inside the slop band map to 0, values
// beyond slop_high or below slop_low are scaled linearly from the
// nearest slop boundary to the corresponding extreme.
func JoyAxis2Float(x uint8, cal AxisCal) float64 {
	x = xmath.Constrain(x, cal.Low, cal.High)
	switch {
	case x > cal.SlopHigh && cal.SlopHigh < cal.High:
		return (float64(x) - float64(cal.SlopHigh)) / (float64(cal.High) - float64(cal.SlopHigh))
	case x < cal.SlopLow && cal.SlopLow > cal.Low:
		return (float64(x) - float64(cal.SlopLow)) / (float64(cal.SlopLow) - float64(cal.Low))
	default:
		return 0
	}
}

// AxisThresholds bounds the range within which an axis is considered
// centred (not yet floating) during calibration learning.
type AxisThresholds struct {
	Low  uint8
	High uint8
}

// JoyThresholds and TriggerThresholds are the learning templates for
// stick axes and trigger axes respectively; triggers rest near 0 so
// their centred band is narrow and low, sticks rest near mid-scale.
func JoyThresholds() AxisThresholds     { return AxisThresholds{Low: 118, High: 136} }
func TriggerThresholds() AxisThresholds { return AxisThresholds{Low: 0, High: 4} }

// SlopTimeThresholdMs is the window, counted over consecutive in-band
// samples of a floating axis and restarted whenever a sample leaves
// the band, during which the slop boundary is allowed to follow the
// raw sample instead of only widening via extrema.
const SlopTimeThresholdMs = 500

// AxisLearner holds the per-axis learning state threaded alongside an
// AxisCal while a calibration procedure is in progress.
type AxisLearner struct {
	SlopTimeMs float64
	Floating   bool
}

// Learn feeds one raw sample of duration deltaMs into the learner,
// mutating cal in place per the slop/extrema widening rules: before
// the axis is seen to leave its centred band it is left untouched;
// once floating, low/high always widen to the extrema seen, and the
// slop boundary additionally follows the sample for the first
// SlopTimeThresholdMs after entering the slop band on either side.
func (l *AxisLearner) Learn(cal *AxisCal, thresholds AxisThresholds, x uint8, deltaMs float64) {
	if !l.Floating {
		if x < thresholds.Low || x > thresholds.High {
			l.Floating = true
			cal.Low = x
			cal.High = x
			l.SlopTimeMs = 0
		}
		return
	}

	if x < cal.Low {
		cal.Low = x
	}
	if x > cal.High {
		cal.High = x
	}

	inSlop := x >= thresholds.Low && x <= thresholds.High
	if !inSlop {
		l.SlopTimeMs = 0
		return
	}

	if l.SlopTimeMs < SlopTimeThresholdMs {
		if x < cal.SlopLow {
			cal.SlopLow = x
		}
		if x > cal.SlopHigh {
			cal.SlopHigh = x
		}
		l.SlopTimeMs += deltaMs
		if l.SlopTimeMs > SlopTimeThresholdMs {
			l.SlopTimeMs = SlopTimeThresholdMs
		}
	}
}

// Reset clears learning progress without touching the calibration
// collected so far, for starting a fresh learning pass on an axis
// whose extents should be kept as a starting point.
func (l *AxisLearner) Reset() {
	l.SlopTimeMs = 0
	l.Floating = false
}
