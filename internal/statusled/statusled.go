// Package statusled drives a single addressable status LED from the
// ledpat display cycle and the btactivity connection indicator,
// generalized from the teacher's led.go (a discrete-state pin
// flasher driven by a per-tick update()) to an RGB ws2812 frame: mode
// color comes from the ledpat slot being shown, on/off comes from
// whichever of the two indicators is active.
package statusled

import (
	"image/color"

	"tinygo.org/x/drivers/ws2812"

	"github.com/SexyGoat/ArtCar/internal/btactivity"
	"github.com/SexyGoat/ArtCar/internal/ledpat"
)

// Colors assigned to each ledpat.Slot, matching the original
// firmware's battery/layout/speed color coding.
var (
	ColorBattery = color.RGBA{R: 0, G: 0x40, B: 0}
	ColorLayout  = color.RGBA{R: 0, G: 0, B: 0x40}
	ColorSpeed   = color.RGBA{R: 0x40, G: 0x20, B: 0}
	colorBTLink  = color.RGBA{R: 0, G: 0x20, B: 0x40}
	colorOff     = color.RGBA{}
)

func slotColor(slot ledpat.Slot) color.RGBA {
	switch slot {
	case ledpat.SlotBatt:
		return ColorBattery
	case ledpat.SlotLayout:
		return ColorLayout
	default:
		return ColorSpeed
	}
}

// Driver owns the ws2812 device and the two indicator state machines
// that together decide what it should show each tick.
type Driver struct {
	dev     ws2812.Device
	Display ledpat.Display
	BT      btactivity.BTActivity
}

// New wires a Driver to an already-configured ws2812 device.
func New(dev ws2812.Device) *Driver {
	return &Driver{dev: dev}
}

// Animate updates the Bluetooth-activity indicator's lamp state for
// this tick.
func (d *Driver) Animate() {
	d.BT.Animate()
}

// Integrate advances both indicators' internal clocks by deltaTimeMs
// and writes the resulting frame to the LED: the Bluetooth-activity
// indicator takes priority while it reports any non-Off state (pairing
// is more urgent to see than the mode cycle), otherwise the ledpat
// display cycle governs.
func (d *Driver) Integrate(deltaTimeMs int) error {
	d.Display.Integrate(deltaTimeMs)
	d.BT.Integrate(clampToByte(deltaTimeMs))

	c := colorOff
	if d.BT.State != btactivity.Off {
		if d.BT.LampState {
			c = colorBTLink
		}
	} else if d.Display.Lit() {
		c = slotColor(d.Display.CurrentSlot())
	}
	return d.dev.WriteColors([]color.RGBA{c})
}

func clampToByte(ms int) uint8 {
	if ms < 0 {
		return 0
	}
	if ms > 255 {
		return 255
	}
	return uint8(ms)
}
