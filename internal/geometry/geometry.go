// Package geometry maintains per-shape renderable geometry, including
// incremental freehand-stroke smoothing. All computation is pure float64
// over ordered inputs, so identical input sequences produce bit-identical
// outlines.
package geometry

import "math"

// Point is a position in slide space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sample is one freehand input sample. Pressure is in [0, 1]; recordings
// without pressure information use 0.5.
type Sample struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
}

// Point returns the sample position.
func (s Sample) Point() Point {
	return Point{X: s.X, Y: s.Y}
}

// Rect is an axis-aligned bounding box in slide space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyRect returns a rect that unions as the identity.
func EmptyRect() Rect {
	return Rect{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the rect contains no points.
func (r Rect) IsEmpty() bool {
	return r.MinX > r.MaxX || r.MinY > r.MaxY
}

// ExpandPoint grows the rect to include p.
func (r Rect) ExpandPoint(p Point) Rect {
	return Rect{
		MinX: math.Min(r.MinX, p.X),
		MinY: math.Min(r.MinY, p.Y),
		MaxX: math.Max(r.MaxX, p.X),
		MaxY: math.Max(r.MaxY, p.Y),
	}
}

// Inset grows (negative d) or shrinks (positive d) the rect on all sides.
func (r Rect) Inset(d float64) Rect {
	return Rect{MinX: r.MinX + d, MinY: r.MinY + d, MaxX: r.MaxX - d, MaxY: r.MaxY - d}
}

// Intersects reports whether two rects overlap.
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

// PathOp identifies one path command.
type PathOp uint8

const (
	OpMoveTo PathOp = iota
	OpLineTo
	OpQuadTo
	OpCubicTo
	OpClose
)

// PathCmd is one command of a renderable outline. P1 holds the endpoint for
// MoveTo/LineTo; QuadTo uses P1 as control and P2 as endpoint; CubicTo uses
// P1 and P2 as controls and P3 as endpoint.
type PathCmd struct {
	Op         PathOp
	P1, P2, P3 Point
}

// Outline is the renderable geometry of a shape in slide space.
type Outline struct {
	Cmds []PathCmd
	// Filled outlines are closed regions painted with the shape color
	// (freehand stroke bodies); unfilled outlines are stroked.
	Filled bool
	Bounds Rect
}

// boundsOf computes a conservative bounding box over all command points,
// control points included.
func boundsOf(cmds []PathCmd) Rect {
	r := EmptyRect()
	for _, c := range cmds {
		switch c.Op {
		case OpMoveTo, OpLineTo:
			r = r.ExpandPoint(c.P1)
		case OpQuadTo:
			r = r.ExpandPoint(c.P1)
			r = r.ExpandPoint(c.P2)
		case OpCubicTo:
			r = r.ExpandPoint(c.P1)
			r = r.ExpandPoint(c.P2)
			r = r.ExpandPoint(c.P3)
		}
	}
	return r
}

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
