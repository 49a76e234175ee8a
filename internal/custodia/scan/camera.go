package scan

import "time"

// CameraGate deduplicates camera decode callbacks. A camera keeps decoding
// the same card for as long as it is held in front of the lens; the gate
// accepts a decode only if its token differs from the previously accepted
// one or the re-arm window has elapsed. Acceptance is recorded immediately
// so the same frame burst cannot double-fire, and evaluation silently
// resumes once the window passes.
type CameraGate struct {
	rearm      time.Duration
	lastToken  string
	lastAccept time.Time
}

// DefaultRearmDelay suppresses repeat decodes of a card held in front of
// the camera.
const DefaultRearmDelay = 3 * time.Second

func NewCameraGate(rearm time.Duration) *CameraGate {
	if rearm <= 0 {
		rearm = DefaultRearmDelay
	}
	return &CameraGate{rearm: rearm}
}

// Offer evaluates one decode result. ok=false means the decode was empty
// after cleanup or suppressed by the re-arm window.
func (g *CameraGate) Offer(decoded string, at time.Time) (Event, bool) {
	token := Normalize(decoded)
	if token == "" {
		return Event{}, false
	}
	if token == g.lastToken && at.Sub(g.lastAccept) < g.rearm {
		return Event{}, false
	}

	g.lastToken = token
	g.lastAccept = at
	return Event{Token: token, Source: SourceCamera, At: at}, true
}

// Reset clears the suppression state, e.g. when a new scan session starts.
func (g *CameraGate) Reset() {
	g.lastToken = ""
	g.lastAccept = time.Time{}
}
