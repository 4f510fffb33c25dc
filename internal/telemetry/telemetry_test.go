package telemetry

import (
	"strings"
	"testing"

	"github.com/SexyGoat/ArtCar/internal/blinkers"
	"github.com/SexyGoat/ArtCar/internal/gamepad"
)

func base64Value(ch byte) int32 {
	return int32(strings.IndexByte(base64Alphabet, ch))
}

// decodeForTest is the inverse of Encode, used only to verify the
// round-trip property; production code never needs to decode its own
// telemetry frames.
func decodeForTest(f Frame) (buttons uint32, reversingLamp, stopLamp bool, blinkerBits uint8, lw, rw int32) {
	buttons = uint32(base64Value(f[0]))<<12 | uint32(base64Value(f[1]))<<6 | uint32(base64Value(f[2]))
	buttons &= (1 << 17) - 1

	lampBlinker := base64Value(f[3])
	reversingLamp = lampBlinker&(1<<3) != 0
	stopLamp = lampBlinker&(1<<2) != 0
	blinkerBits = uint8(lampBlinker & 0b11)

	lw = signExtend11(base64Value(f[4])<<6 | base64Value(f[5]))
	rw = signExtend11(base64Value(f[6])<<6 | base64Value(f[7]))
	return
}

func signExtend11(v int32) int32 {
	v &= (1 << 12) - 1
	if v >= 2048 {
		v -= 4096
	}
	return v
}

func TestTelemetryRoundTripZeroState(t *testing.T) {
	f := Encode(gamepad.Buttons{}, false, false, 0, false, 0, 0, 1.0)

	buttons, reversing, stop, blinkerBits, lw, rw := decodeForTest(f)
	if buttons != 0 {
		t.Fatalf("buttons = %v, want 0", buttons)
	}
	if reversing || stop {
		t.Fatalf("lamps = (%v, %v), want both false", reversing, stop)
	}
	if blinkerBits != 0 {
		t.Fatalf("blinker bits = %v, want 0", blinkerBits)
	}
	if lw != 0 || rw != 0 {
		t.Fatalf("wheel targets = (%v, %v), want (0, 0)", lw, rw)
	}
}

func TestTelemetryRoundTripButtonsAndLamps(t *testing.T) {
	b := gamepad.Buttons{Cross: true, Right: true, L2: true}
	f := Encode(b, true, true, blinkers.Left, true, 0, 0, 1.0)

	buttons, reversing, stop, blinkerBits, _, _ := decodeForTest(f)
	if buttons != b.Bitfield() {
		t.Fatalf("buttons = %#x, want %#x", buttons, b.Bitfield())
	}
	if !reversing || !stop {
		t.Fatalf("lamps = (%v, %v), want both true", reversing, stop)
	}
	if blinkerBits != blinkers.Left {
		t.Fatalf("blinker bits = %v, want %v", blinkerBits, blinkers.Left)
	}
}

func TestTelemetryWheelTargetsRoundTripSignedRange(t *testing.T) {
	f := Encode(gamepad.Buttons{}, false, false, 0, false, 1.0, -1.0, 1.0)
	_, _, _, _, lw, rw := decodeForTest(f)
	if lw != 2047 {
		t.Fatalf("lw = %v, want 2047 (full positive deflection)", lw)
	}
	// Rounding is to nearest in both directions, so a full negative
	// deflection is the mirror image of a full positive one.
	if rw != -2047 {
		t.Fatalf("rw = %v, want -2047 (full negative deflection)", rw)
	}
}

func TestTelemetryBlinkerBitsOnlyWhenLit(t *testing.T) {
	f := Encode(gamepad.Buttons{}, false, false, blinkers.Left, false, 0, 0, 1.0)
	_, _, _, blinkerBits, _, _ := decodeForTest(f)
	if blinkerBits != 0 {
		t.Fatalf("blinker bits = %v, want 0 when not lit", blinkerBits)
	}
}
