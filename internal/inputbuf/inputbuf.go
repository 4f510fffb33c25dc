// Package inputbuf is the concurrency boundary between the (out of
// scope) gamepad transport task and the core control loop: a
// mutex-guarded snapshot buffer plus a buffered "packet ready" signal,
// generalized from the teacher's package-level RC channel array
// (firmware/src/channels.go) to a gamepad.State snapshot. The core
// never calls back into the transport; it only ever swaps snapshots
// through this buffer, per spec.md §5's external-interface rule.
package inputbuf

import (
	"sync"
	"time"

	"github.com/SexyGoat/ArtCar/internal/gamepad"
)

// Buffer holds the most recently received gamepad snapshot and the
// time it arrived, safe for one writer (the transport task) and one
// reader (the control loop) to use concurrently.
type Buffer struct {
	mu             sync.Mutex
	state          gamepad.State
	lastPacketTime time.Time
	havePacket     bool

	// Ready is a buffered channel the transport task sends on after
	// every Update, so the control loop can wait for a packet instead
	// of polling; buffered by one so a writer never blocks on a reader
	// that hasn't drained the previous notification yet.
	Ready chan struct{}
}

// New builds an empty Buffer.
func New() *Buffer {
	return &Buffer{Ready: make(chan struct{}, 1)}
}

// Update is the transport task's single write path: it stores the new
// snapshot and its arrival time, then pings Ready without blocking.
func (b *Buffer) Update(state gamepad.State, at time.Time) {
	b.mu.Lock()
	b.state = state
	b.lastPacketTime = at
	b.havePacket = true
	b.mu.Unlock()

	select {
	case b.Ready <- struct{}{}:
	default:
	}
}

// Snapshot is the control loop's single read path: it returns the
// latest stored state, the time it arrived, and whether any packet
// has ever been received.
func (b *Buffer) Snapshot() (state gamepad.State, lastPacketTime time.Time, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.lastPacketTime, b.havePacket
}
