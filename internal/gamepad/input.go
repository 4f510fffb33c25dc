// Package gamepad models the raw axis/button snapshot delivered by the
// gamepad transport and the per-axis calibration used to turn raw
// 8-bit axis samples into signed unit floats.
package gamepad

// Buttons is the named bitfield read from a gamepad snapshot. Field
// order matches the wire bit order used by Telemetry, least
// significant bit first.
type Buttons struct {
	Cross    bool
	Circle   bool
	Triangle bool
	Square   bool
	L1       bool
	R1       bool
	L2       bool
	R2       bool
	Select   bool
	Start    bool
	PS       bool
	L3       bool
	R3       bool
	Up       bool
	Down     bool
	Left     bool
	Right    bool
}

// Bitfield packs the 17 named buttons into the low 17 bits of a
// uint32, in the same order they are declared in Buttons.
func (b Buttons) Bitfield() uint32 {
	var bits uint32
	set := func(i uint, v bool) {
		if v {
			bits |= 1 << i
		}
	}
	set(0, b.Cross)
	set(1, b.Circle)
	set(2, b.Triangle)
	set(3, b.Square)
	set(4, b.L1)
	set(5, b.R1)
	set(6, b.L2)
	set(7, b.R2)
	set(8, b.Select)
	set(9, b.Start)
	set(10, b.PS)
	set(11, b.L3)
	set(12, b.R3)
	set(13, b.Up)
	set(14, b.Down)
	set(15, b.Left)
	set(16, b.Right)
	return bits
}

// State is a single snapshot of raw, uncalibrated axis samples and
// the button bitfield, as delivered once per cycle by the gamepad
// transport.
type State struct {
	LeftX        uint8
	LeftY        uint8
	RightX       uint8
	RightY       uint8
	LeftTrigger  uint8
	RightTrigger uint8
	Buttons      Buttons
}
