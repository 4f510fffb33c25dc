package xmath

import "testing"

func TestConstrain(t *testing.T) {
	if got := Constrain(5, 0, 10); got != 5 {
		t.Fatalf("got %v, want 5", got)
	}
	if got := Constrain(-5, 0, 10); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
	if got := Constrain(15, 0, 10); got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
}

func TestMapRange(t *testing.T) {
	if got := MapRange(0.5, 0.0, 1.0, 0.0, 255.0); got != 127.5 {
		t.Fatalf("got %v, want 127.5", got)
	}
	if got := MapRange(-1.0, -1.0, 1.0, 0.0, 255.0); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}
