package scan

import "time"

// WedgeBuffer distinguishes a USB keyboard-wedge scanner burst from human
// typing by inter-character timing: characters arriving with more than the
// idle gap between them are treated as typing and the buffer is discarded.
// A terminator (Enter) with a non-empty buffer finalizes a scan event.
//
// The buffer is a plain value type driven entirely by caller-supplied
// timestamps; it owns no timers and needs no cancellation.
type WedgeBuffer struct {
	idleGap time.Duration
	buf     []rune
	lastKey time.Time
}

// DefaultIdleGap is the inter-character window separating scanner bursts
// from human typing.
const DefaultIdleGap = 100 * time.Millisecond

func NewWedgeBuffer(idleGap time.Duration) *WedgeBuffer {
	if idleGap <= 0 {
		idleGap = DefaultIdleGap
	}
	return &WedgeBuffer{idleGap: idleGap}
}

// Key feeds one character. If the gap since the previous character exceeds
// the idle window the pending buffer is discarded first.
func (b *WedgeBuffer) Key(r rune, at time.Time) {
	if len(b.buf) > 0 && at.Sub(b.lastKey) > b.idleGap {
		b.buf = b.buf[:0]
	}
	b.buf = append(b.buf, r)
	b.lastKey = at
}

// Enter finalizes the buffer into a scan event. Stale or empty buffers
// yield no event. The buffer is reset either way.
func (b *WedgeBuffer) Enter(at time.Time) (Event, bool) {
	defer b.Reset()

	if len(b.buf) == 0 || at.Sub(b.lastKey) > b.idleGap {
		return Event{}, false
	}
	token := Normalize(string(b.buf))
	if token == "" {
		return Event{}, false
	}
	return Event{Token: token, Source: SourceWedge, At: at}, true
}

// Reset discards any pending characters, e.g. when the input session ends
// or another scan source is activated.
func (b *WedgeBuffer) Reset() {
	b.buf = b.buf[:0]
	b.lastKey = time.Time{}
}
