// Package cursor tracks the last-known pointer position during replay.
package cursor

import (
	"time"

	"github.com/slidereel/slidereel/internal/geometry"
)

// Tracker holds the most recent pointer sample. Positions are held constant
// between samples; no interpolation is performed. A sample with a negative
// coordinate hides the cursor, matching how recordings signal the pointer
// leaving the presentation area.
type Tracker struct {
	pos  geometry.Point
	at   time.Duration
	seen bool
}

// NewTracker creates a tracker with no cursor visible.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Apply overwrites the last known position and its timestamp.
func (t *Tracker) Apply(pos geometry.Point, at time.Duration) {
	t.pos = pos
	t.at = at
	t.seen = true
}

// Position returns the last known sample and whether a cursor should be
// drawn at it.
func (t *Tracker) Position() (geometry.Point, bool) {
	if !t.seen || t.pos.X < 0 || t.pos.Y < 0 {
		return geometry.Point{}, false
	}
	return t.pos, true
}

// LastSeen returns the timestamp of the most recent sample.
func (t *Tracker) LastSeen() time.Duration {
	return t.at
}
