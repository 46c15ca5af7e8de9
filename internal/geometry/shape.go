package geometry

import (
	"golang.org/x/text/unicode/norm"
)

// Shape is one annotation object. Geometry mutates only through the owning
// Engine so the outline and bounds stay consistent with the inputs.
type Shape struct {
	ID    string
	Kind  Kind
	Style Style
	// Seq is the creation sequence number; it defines z-order and is never
	// reused.
	Seq   uint64
	Alive bool

	samples []Sample
	anchors []Point
	text    string

	outline []PathCmd
	bounds  Rect
}

// Snapshot captures shape geometry for reversible mutation records.
type Snapshot struct {
	Samples []Sample
	Anchors []Point
	Text    string
}

// snapshotGeometry copies the current geometry inputs.
func (s *Shape) snapshotGeometry() Snapshot {
	snap := Snapshot{Text: s.text}
	if s.samples != nil {
		snap.Samples = append([]Sample(nil), s.samples...)
	}
	if s.anchors != nil {
		snap.Anchors = append([]Point(nil), s.anchors...)
	}
	return snap
}

// restoreGeometry replaces the geometry inputs and recomputes the outline.
func (s *Shape) restoreGeometry(snap Snapshot) {
	s.samples = append([]Sample(nil), snap.Samples...)
	s.anchors = append([]Point(nil), snap.Anchors...)
	s.text = snap.Text
	s.recompute()
}

// Outline returns the renderable geometry in slide space.
func (s *Shape) Outline() Outline {
	return Outline{
		Cmds:   s.outline,
		Filled: s.Kind.IsFreehand() || (s.Style.Filled && s.Kind != KindLine && s.Kind != KindArrow),
		Bounds: s.bounds,
	}
}

// Bounds returns the axis-aligned bounding box in slide space.
func (s *Shape) Bounds() Rect {
	return s.bounds
}

// Text returns the normalized text content of a text shape.
func (s *Shape) Text() string {
	return s.text
}

// Anchor returns the layout origin of a text shape.
func (s *Shape) Anchor() Point {
	if len(s.anchors) == 0 {
		return Point{}
	}
	return s.anchors[0]
}

// SampleCount reports how many freehand samples have been applied.
func (s *Shape) SampleCount() int {
	return len(s.samples)
}

// recompute rebuilds the outline and bounds from the full geometry inputs.
// Deterministic: identical inputs yield identical results.
func (s *Shape) recompute() {
	switch {
	case s.Kind.IsFreehand():
		size := s.Style.Thickness
		if s.Kind == KindHighlighter {
			size *= 2
		}
		s.outline = FreehandOutline(s.samples, size)
		s.bounds = boundsOf(s.outline)
	case s.Kind.IsParametric():
		s.outline = parametricOutline(s.Kind, s.anchors)
		s.bounds = boundsOf(s.outline)
		// Stroke thickness pads the box so culling stays conservative.
		if !s.bounds.IsEmpty() && s.Style.Thickness > 0 {
			s.bounds = s.bounds.Inset(-s.Style.Thickness)
		}
	case s.Kind == KindText:
		s.outline = nil
		s.bounds = textBounds(s.Anchor(), s.text, s.Style.FontSize)
	}
}

func (s *Shape) setText(text string) {
	s.text = norm.NFC.String(text)
	s.recompute()
}
