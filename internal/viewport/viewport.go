// Package viewport tracks the per-slide pan/zoom transform over replay time.
package viewport

import "github.com/slidereel/slidereel/internal/geometry"

// Transform maps slide space to frame space:
// frame_point = (slide_point - pan) * zoom.
type Transform struct {
	PanX float64
	PanY float64
	Zoom float64
}

// Identity is the transform of a slide that never panned or zoomed.
func Identity() Transform {
	return Transform{Zoom: 1}
}

// Apply maps a slide-space point into frame space.
func (t Transform) Apply(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: (p.X - t.PanX) * t.Zoom,
		Y: (p.Y - t.PanY) * t.Zoom,
	}
}

// VisibleRect returns the slide-space region covered by a frame of the
// given size, used for shape culling.
func (t Transform) VisibleRect(width, height float64) geometry.Rect {
	zoom := t.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return geometry.Rect{
		MinX: t.PanX,
		MinY: t.PanY,
		MaxX: t.PanX + width/zoom,
		MaxY: t.PanY + height/zoom,
	}
}

// Tracker holds the current transform of every slide. Last write wins; no
// animation or tweening between values.
type Tracker struct {
	transforms map[string]Transform
}

// NewTracker creates an empty viewport tracker.
func NewTracker() *Tracker {
	return &Tracker{transforms: make(map[string]Transform)}
}

// Apply sets the transform for a slide unconditionally.
func (t *Tracker) Apply(slideID string, transform Transform) {
	if transform.Zoom <= 0 {
		transform.Zoom = 1
	}
	t.transforms[slideID] = transform
}

// Transform returns the active transform for a slide as of the most
// recently applied event, or the identity if none has been applied.
func (t *Tracker) Transform(slideID string) Transform {
	if transform, ok := t.transforms[slideID]; ok {
		return transform
	}
	return Identity()
}
