// Package gpio fans a single packed bitmask of logical pin states out
// to physical pins, each with its own sense and drive-mode behavior.
package gpio

import (
	"machine"

	"github.com/SexyGoat/ArtCar/internal/bitfiddling"
)

// Sense describes whether a pin's physical level is inverted relative
// to its logical state.
type Sense int8

const (
	ActiveHigh Sense = iota
	ActiveLow
)

// DriveMode selects how a pin is physically driven for a given
// logical state; modes other than DrivePushPull use pin direction
// changes to emulate sink-only or source-only outputs, useful for
// sharing a line with other sinks/sources on the car's wiring loom.
type DriveMode int8

const (
	// DrivePushPull drives the pin high or low directly; the common case.
	DrivePushPull DriveMode = iota
	// DriveOpenDrainPullup switches between input-pullup (released,
	// for a true state once Sense is applied) and output-low (for a
	// false state).
	DriveOpenDrainPullup
	// DriveOpenDrain switches between input (released) and output-high
	// (asserted), for pins that must never sink current.
	DriveOpenDrain
	// DriveSinkOnly switches between input (released) and output-low
	// (asserted), for pins that must never source current.
	DriveSinkOnly
)

// Pin is a virtual output pin descriptor: the physical pin it
// addresses, its sense, and how it should be driven.
type Pin struct {
	Physical  machine.Pin
	Sense     Sense
	DriveMode DriveMode
}

// Write applies logicalState to one virtual pin: the state is first
// XORed with Sense, then translated to the drive-mode-specific
// pin-direction/value pair.
func Write(logicalState bool, vo Pin) {
	state := logicalState != (vo.Sense == ActiveLow)
	switch vo.DriveMode {
	case DrivePushPull:
		vo.Physical.Set(state)
	case DriveOpenDrain:
		if state {
			vo.Physical.Configure(machine.PinConfig{Mode: machine.PinOutput})
			vo.Physical.High()
		} else {
			vo.Physical.Configure(machine.PinConfig{Mode: machine.PinInput})
		}
	case DriveSinkOnly:
		if state {
			vo.Physical.Configure(machine.PinConfig{Mode: machine.PinInput})
		} else {
			vo.Physical.Configure(machine.PinConfig{Mode: machine.PinOutput})
			vo.Physical.Low()
		}
	case DriveOpenDrainPullup:
		if state {
			vo.Physical.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		} else {
			vo.Physical.Configure(machine.PinConfig{Mode: machine.PinOutput})
			vo.Physical.Low()
		}
	}
}

// WriteMask writes each bit of voStates (bit i for pins[i]) to its
// corresponding virtual pin.
func WriteMask(voStates uint32, pins []Pin) {
	for i, vo := range pins {
		Write(bitfiddling.FetchBit(voStates, i), vo)
	}
}

// Config is like Write, but also sets a DrivePushPull pin's direction
// to output first; the other drive modes configure their direction
// entirely within Write since the right direction depends on the
// state being written.
func Config(logicalState bool, vo Pin) {
	if vo.DriveMode == DrivePushPull {
		vo.Physical.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	Write(logicalState, vo)
}

// ConfigMask configures and writes every pin in pins from voStates.
func ConfigMask(voStates uint32, pins []Pin) {
	for i, vo := range pins {
		Config(bitfiddling.FetchBit(voStates, i), vo)
	}
}
