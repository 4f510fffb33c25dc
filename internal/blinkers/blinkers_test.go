package blinkers

import "testing"

func TestBlinkerSequence(t *testing.T) {
	b := New()

	// (1, 0) -> left: state should become Left (2), phase reset to 0.
	b.Input = Left
	b.Animate()
	if b.State != Left {
		t.Fatalf("state = %v, want Left after (1,0)", b.State)
	}
	if b.PhaseMs != 0 {
		t.Fatalf("phase = %v, want 0 on state change", b.PhaseMs)
	}

	b.Integrate(414)
	if !b.Lit() {
		t.Fatalf("lamp should be lit just before on_period elapses")
	}
	b.Integrate(1)
	if b.Lit() {
		t.Fatalf("lamp should be off once phase reaches on_period")
	}
	b.Integrate(415) // phase wraps past period (830) back toward 0
	if b.PhaseMs >= b.PeriodMs {
		t.Fatalf("phase should wrap modulo period, got %v", b.PhaseMs)
	}

	// (0, 0) -> no press, state unchanged (edge-triggered).
	prevState := b.State
	b.Input = None
	b.Animate()
	if b.State != prevState {
		t.Fatalf("state changed on idle input: %v -> %v", prevState, b.State)
	}

	// (0, 1) -> right: cancels left.
	b.Input = Right
	b.Animate()
	if b.State != None {
		t.Fatalf("state = %v, want None (cancel) after opposite-side press", b.State)
	}

	// (1, 1) -> hazard.
	b.Input = Both
	b.Animate()
	if b.State != Both {
		t.Fatalf("state = %v, want Both (hazard)", b.State)
	}
}

func TestDebounceHoldsStateWithoutNewPress(t *testing.T) {
	b := New()
	b.Input = Left
	b.Animate() // state -> Left
	b.Integrate(20)

	b.Input = None
	b.Animate() // drop raw input; debounce timer still running
	if b.State != Left {
		t.Fatalf("state should persist while debounce timer is still active")
	}

	b.Integrate(70) // exhaust debounce window
	b.Animate()
	// No rising edge occurs without a further press, so state remains
	// whatever it last was; debounce only gates presses, it does not
	// itself cancel a lit indicator.
	if b.State != Left {
		t.Fatalf("state should not spontaneously cancel once debounce lapses without a new press")
	}
}

func TestHazardFromAnyState(t *testing.T) {
	b := New()
	b.Input = Right
	b.Animate()
	if b.State != Right {
		t.Fatalf("state = %v, want Right", b.State)
	}
	b.Input = Both
	b.Animate()
	if b.State != Both {
		t.Fatalf("state = %v, want Both (hazard overrides single side)", b.State)
	}
}
