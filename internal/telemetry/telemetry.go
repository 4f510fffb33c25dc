// Package telemetry encodes car and input state into the fixed
// 8-character frame consumed by the host simulator.
package telemetry

import (
	"math"

	"github.com/SexyGoat/ArtCar/internal/blinkers"
	"github.com/SexyGoat/ArtCar/internal/gamepad"
)

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func tricrumb2Base64(x uint32) byte {
	return base64Alphabet[x&63]
}

// int2Base64Tricrumbs renders the low n*6 bits of x (two's-complement,
// for negative x) as n base64 characters, most significant tricrumb
// first, matching the original firmware's 6-character buffer trimmed
// to its last n entries.
func int2Base64Tricrumbs(x int32, n int) string {
	u := uint32(x)
	mask := uint32(1)<<uint(6*n) - 1
	v := u & mask
	buf := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		buf[i] = tricrumb2Base64(v & 63)
		v >>= 6
	}
	return string(buf)
}

func clampInt32(x, lo, hi int32) int32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Frame is the 8 ASCII characters of one telemetry record, without
// its NUL terminator (callers needing a C-style terminated buffer can
// append one).
type Frame [8]byte

// WheelTargetToUnits maps a wheel target speed to the signed 11-bit
// integer the wire format carries, rounding to nearest and clipping
// to +-2047.
func WheelTargetToUnits(targetSpeed, maxWheelSpeed float64) int32 {
	k := 2047.0 / maxWheelSpeed
	x := int32(math.Round(k * targetSpeed))
	return clampInt32(x, -2047, 2047)
}

// Encode packs the button bitfield, reversing/stop lamps, the lit
// blinker state, and both wheel targets into one 8-character frame.
func Encode(
	buttons gamepad.Buttons,
	reversingLamp, stopLamp bool,
	blinkerState uint8,
	blinkerLit bool,
	lwTargetSpeed, rwTargetSpeed, maxWheelSpeed float64,
) Frame {
	var f Frame

	buttonChars := int2Base64Tricrumbs(int32(buttons.Bitfield()), 3)
	f[0] = buttonChars[0]
	f[1] = buttonChars[1]
	f[2] = buttonChars[2]

	lampBlinkerBits := int32(0)
	if reversingLamp {
		lampBlinkerBits |= 1 << 3
	}
	if stopLamp {
		lampBlinkerBits |= 1 << 2
	}
	litBits := uint8(0)
	if blinkerLit {
		litBits = blinkerState
	}
	lampBlinkerBits |= int32(litBits)
	lampChar := int2Base64Tricrumbs(lampBlinkerBits, 1)
	f[3] = lampChar[0]

	lw := WheelTargetToUnits(lwTargetSpeed, maxWheelSpeed)
	lwChars := int2Base64Tricrumbs(lw, 2)
	f[4] = lwChars[0]
	f[5] = lwChars[1]

	rw := WheelTargetToUnits(rwTargetSpeed, maxWheelSpeed)
	rwChars := int2Base64Tricrumbs(rw, 2)
	f[6] = rwChars[0]
	f[7] = rwChars[1]

	return f
}

// EncodeFromBlinkers is a convenience wrapper reading the lit state
// directly off a blinkers.Blinkers, mirroring how the original
// firmware inlined blinkers.phase < blinkers.on_period at the call
// site.
func EncodeFromBlinkers(
	buttons gamepad.Buttons,
	reversingLamp, stopLamp bool,
	b *blinkers.Blinkers,
	lwTargetSpeed, rwTargetSpeed, maxWheelSpeed float64,
) Frame {
	return Encode(buttons, reversingLamp, stopLamp, b.State, b.Lit(), lwTargetSpeed, rwTargetSpeed, maxWheelSpeed)
}

// String renders the frame as a Go string.
func (f Frame) String() string {
	return string(f[:])
}
