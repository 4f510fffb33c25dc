// Package ledpat defines the status-LED blink patterns and the
// three-slot display cycle that rotates through them, each slot
// reporting a different aspect of car state (battery level, input
// layout, speed mode) on the same single-LED indicator.
package ledpat

// Pattern names a 4-bit blink pattern displayed over one display
// period: bit 3 is the first quarter shown, bit 0 the last. The numeric
// values are the original firmware's enumeration indices, not the bits
// themselves, so any external reference chart for this car stays
// valid; each constant's comment gives the 4-bit pattern it shows.
type Pattern uint8

const (
	PatternSlow        Pattern = 1  // 0001
	PatternFast        Pattern = 2  // 0010
	PatternJoyISO      Pattern = 3  // 0100
	PatternBattLevel1  Pattern = 4  // 1000
	PatternJoyHPat     Pattern = 5  // 1001
	PatternJoyModHPat  Pattern = 6  // 1010
	PatternBattLevel2  Pattern = 7  // 1100
	PatternJoyVH       Pattern = 8  // 1101
	PatternBattLevel3  Pattern = 9  // 1110
	PatternBattLevel4  Pattern = 10 // 1111
)

// PeriodMs is the display time allotted to each slot in the cycle.
const PeriodMs = 1250

// Slot identifies one of the three rotating display items.
type Slot int

const (
	SlotBatt Slot = iota
	SlotLayout
	SlotSpeed
	numSlots
)

// quarterMs is how long each of a pattern's 4 bits is shown for.
const quarterMs = PeriodMs / 4

// Display rotates through Patterns []Slot every PeriodMs and reports
// whether the LED should be lit at the current instant.
type Display struct {
	Patterns  [numSlots]Pattern
	elapsedMs int
}

// CurrentSlot reports which slot is currently showing.
func (d *Display) CurrentSlot() Slot {
	return Slot((d.elapsedMs / PeriodMs) % int(numSlots))
}

// Lit reports whether the LED should be on right now, per the active
// slot's pattern and how far into its period the display has advanced.
func (d *Display) Lit() bool {
	slot := d.CurrentSlot()
	withinSlotMs := d.elapsedMs % PeriodMs
	quarter := withinSlotMs / quarterMs
	if quarter > 3 {
		quarter = 3
	}
	bitPos := uint(3 - quarter)
	bits := [...]uint8{0b0000, 0b0001, 0b0010, 0b0100, 0b1000, 0b1001, 0b1010, 0b1100, 0b1101, 0b1110, 0b1111}
	p := int(d.Patterns[slot])
	if p >= len(bits) {
		return false
	}
	return (bits[p]>>bitPos)&1 != 0
}

// Integrate advances the display clock by deltaTimeMs, wrapping once
// a full three-slot cycle has elapsed.
func (d *Display) Integrate(deltaTimeMs int) {
	d.elapsedMs = (d.elapsedMs + deltaTimeMs) % (PeriodMs * int(numSlots))
}
