package scan_test

import (
	"testing"
	"time"

	"custodia/internal/custodia/scan"
)

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// ── Normalize ────────────────────────────────────────────────────────────────

func TestNormalize_StripsLeadingZeros(t *testing.T) {
	got := scan.Normalize("00041486001051")
	if got != "41486001051" {
		t.Errorf("expected 41486001051, got %q", got)
	}
}

func TestNormalize_TrimsWhitespaceAndControl(t *testing.T) {
	got := scan.Normalize("\r\n  0012345\t\x00")
	if got != "12345" {
		t.Errorf("expected 12345, got %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"00041486001051", "  0042 ", "ABC-99", "", "0000", "\r\n"}
	for _, in := range inputs {
		once := scan.Normalize(in)
		twice := scan.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_AllZerosYieldsEmpty(t *testing.T) {
	if got := scan.Normalize("0000"); got != "" {
		t.Errorf("expected empty token, got %q", got)
	}
}

// ── Manual ───────────────────────────────────────────────────────────────────

func TestManual_AcceptsVerbatimSubmission(t *testing.T) {
	ev, ok := scan.Manual(" 0042 ", t0)
	if !ok {
		t.Fatal("expected event")
	}
	if ev.Token != "42" {
		t.Errorf("expected token=42, got %q", ev.Token)
	}
	if ev.Source != scan.SourceManual {
		t.Errorf("expected manual source, got %q", ev.Source)
	}
}

func TestManual_EmptyAfterCleanupIsNoEvent(t *testing.T) {
	if _, ok := scan.Manual("  000  ", t0); ok {
		t.Error("expected no event for zero-only input")
	}
}

// ── WedgeBuffer ──────────────────────────────────────────────────────────────

func feed(b *scan.WedgeBuffer, s string, start time.Time, gap time.Duration) time.Time {
	at := start
	for _, r := range s {
		b.Key(r, at)
		at = at.Add(gap)
	}
	return at
}

func TestWedge_BurstThenEnterProducesEvent(t *testing.T) {
	b := scan.NewWedgeBuffer(100 * time.Millisecond)
	end := feed(b, "0012345", t0, 10*time.Millisecond)

	ev, ok := b.Enter(end)
	if !ok {
		t.Fatal("expected event")
	}
	if ev.Token != "12345" {
		t.Errorf("expected token=12345, got %q", ev.Token)
	}
	if ev.Source != scan.SourceWedge {
		t.Errorf("expected wedge source, got %q", ev.Source)
	}
}

func TestWedge_IdleGapDiscardsBuffer(t *testing.T) {
	b := scan.NewWedgeBuffer(100 * time.Millisecond)
	feed(b, "999", t0, 10*time.Millisecond)

	// Human typing: next key arrives long after the burst.
	late := t0.Add(2 * time.Second)
	b.Key('1', late)
	b.Key('2', late.Add(10*time.Millisecond))

	ev, ok := b.Enter(late.Add(20 * time.Millisecond))
	if !ok {
		t.Fatal("expected event from the fresh characters")
	}
	if ev.Token != "12" {
		t.Errorf("expected stale burst discarded, token=12, got %q", ev.Token)
	}
}

func TestWedge_EnterOnEmptyBufferIsNoEvent(t *testing.T) {
	b := scan.NewWedgeBuffer(100 * time.Millisecond)
	if _, ok := b.Enter(t0); ok {
		t.Error("expected no event for empty buffer")
	}
}

func TestWedge_StaleBufferAtEnterIsNoEvent(t *testing.T) {
	b := scan.NewWedgeBuffer(100 * time.Millisecond)
	end := feed(b, "12345", t0, 10*time.Millisecond)

	if _, ok := b.Enter(end.Add(time.Second)); ok {
		t.Error("expected no event when Enter arrives after the idle gap")
	}
}

func TestWedge_EnterResetsBuffer(t *testing.T) {
	b := scan.NewWedgeBuffer(100 * time.Millisecond)
	end := feed(b, "12345", t0, 10*time.Millisecond)

	if _, ok := b.Enter(end); !ok {
		t.Fatal("expected first event")
	}
	if _, ok := b.Enter(end.Add(10 * time.Millisecond)); ok {
		t.Error("expected no second event without new characters")
	}
}

// ── CameraGate ───────────────────────────────────────────────────────────────

func TestCamera_RepeatWithinWindowSuppressed(t *testing.T) {
	g := scan.NewCameraGate(3 * time.Second)

	if _, ok := g.Offer("0042", t0); !ok {
		t.Fatal("expected first decode accepted")
	}
	if _, ok := g.Offer("0042", t0.Add(500*time.Millisecond)); ok {
		t.Error("expected repeat within re-arm window suppressed")
	}
	if _, ok := g.Offer("42", t0.Add(time.Second)); ok {
		t.Error("expected normalized repeat suppressed too")
	}
}

func TestCamera_RepeatAfterWindowAccepted(t *testing.T) {
	g := scan.NewCameraGate(3 * time.Second)

	g.Offer("0042", t0)
	ev, ok := g.Offer("0042", t0.Add(3*time.Second))
	if !ok {
		t.Fatal("expected repeat after window accepted")
	}
	if ev.Token != "42" {
		t.Errorf("expected token=42, got %q", ev.Token)
	}
}

func TestCamera_DifferentTokenAcceptedImmediately(t *testing.T) {
	g := scan.NewCameraGate(3 * time.Second)

	g.Offer("0042", t0)
	ev, ok := g.Offer("0099", t0.Add(100*time.Millisecond))
	if !ok {
		t.Fatal("expected different card accepted inside window")
	}
	if ev.Token != "99" {
		t.Errorf("expected token=99, got %q", ev.Token)
	}
}

func TestCamera_EmptyDecodeIgnored(t *testing.T) {
	g := scan.NewCameraGate(3 * time.Second)
	if _, ok := g.Offer("   ", t0); ok {
		t.Error("expected empty decode to yield no event")
	}
	// An ignored decode must not disturb the suppression state.
	if _, ok := g.Offer("42", t0.Add(time.Millisecond)); !ok {
		t.Error("expected real decode accepted after ignored one")
	}
}

func TestCamera_ResetClearsSuppression(t *testing.T) {
	g := scan.NewCameraGate(3 * time.Second)
	g.Offer("42", t0)
	g.Reset()
	if _, ok := g.Offer("42", t0.Add(time.Millisecond)); !ok {
		t.Error("expected accept after Reset")
	}
}
