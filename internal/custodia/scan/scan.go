// Package scan turns raw barcode input from heterogeneous sources (a
// keyboard-wedge USB reader, a camera decoder, or a manually typed form)
// into canonical identity tokens. It never returns errors: input that does
// not survive cleanup simply produces no event.
package scan

import (
	"strings"
	"time"
	"unicode"
)

// Source tags where a scan came from.
type Source string

const (
	SourceWedge  Source = "wedge"  // rapid-keystroke USB reader
	SourceCamera Source = "camera" // camera decode callback
	SourceManual Source = "manual" // typed form submission
)

// Event is one accepted scan: a canonical token plus its source and time.
type Event struct {
	Token  string    `json:"token"`
	Source Source    `json:"source"`
	At     time.Time `json:"at"`
}

// Normalize cleans a raw scan string into the canonical token format:
// surrounding whitespace and control characters are trimmed, then leading
// zero-padding is stripped (printed cards carry zeros that stored
// identifiers do not). Normalize is idempotent and may return "".
func Normalize(raw string) string {
	s := strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
	return strings.TrimLeft(s, "0")
}

// Manual accepts an explicitly submitted string verbatim, reporting
// ok=false when nothing remains after cleanup.
func Manual(text string, at time.Time) (Event, bool) {
	token := Normalize(text)
	if token == "" {
		return Event{}, false
	}
	return Event{Token: token, Source: SourceManual, At: at}, true
}
