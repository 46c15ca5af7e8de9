package geometry

import "math"

// Freehand smoothing constants, matching the tldraw-style stroke pipeline:
// input samples are streamlined toward their predecessor, pressure eases the
// stroke radius, and the outline is the left and right offset polylines
// joined into one closed region.
const (
	streamline   = 0.5
	thinning     = 0.5
	minRadiusFrac = 0.25
)

type strokePoint struct {
	pos      Point
	pressure float64
	vec      Point // unit vector toward the previous point
}

// FreehandOutline computes the smoothed closed outline for a freehand stroke
// from the full sample sequence. The computation is deterministic: the same
// samples and size always produce bit-identical commands.
func FreehandOutline(samples []Sample, size float64) []PathCmd {
	if len(samples) == 0 {
		return nil
	}
	if size <= 0 {
		size = 1
	}

	pts := streamlined(samples)
	if len(pts) == 1 {
		return dotOutline(pts[0].Point(), size/2*pts[0].Pressure+size/4)
	}

	sps := strokePoints(pts)
	left, right := offsetOutlines(sps, size)

	// Closed region: left side forward, right side backward.
	outline := make([]Point, 0, len(left)+len(right))
	outline = append(outline, left...)
	for i := len(right) - 1; i >= 0; i-- {
		outline = append(outline, right[i])
	}
	return smoothClosed(outline)
}

// streamlined interpolates each raw sample toward its predecessor, damping
// input jitter without losing endpoints.
func streamlined(samples []Sample) []Sample {
	out := make([]Sample, 0, len(samples))
	prev := samples[0]
	if prev.Pressure <= 0 {
		prev.Pressure = 0.5
	}
	out = append(out, prev)
	for _, s := range samples[1:] {
		if s.Pressure <= 0 {
			s.Pressure = 0.5
		}
		p := lerp(prev.Point(), s.Point(), 1-streamline)
		next := Sample{X: p.X, Y: p.Y, Pressure: prev.Pressure + (s.Pressure-prev.Pressure)*(1-streamline)}
		if dist(prev.Point(), next.Point()) == 0 {
			continue
		}
		out = append(out, next)
		prev = next
	}
	return out
}

func strokePoints(samples []Sample) []strokePoint {
	sps := make([]strokePoint, len(samples))
	for i, s := range samples {
		sp := strokePoint{pos: s.Point(), pressure: s.Pressure}
		if i > 0 {
			sp.vec = unit(sub(samples[i-1].Point(), s.Point()))
		}
		sps[i] = sp
	}
	if len(sps) > 1 {
		sps[0].vec = sps[1].vec
	}
	return sps
}

// offsetOutlines builds the left and right offset polylines with a
// pressure-eased radius per point.
func offsetOutlines(sps []strokePoint, size float64) (left, right []Point) {
	left = make([]Point, 0, len(sps))
	right = make([]Point, 0, len(sps))
	for _, sp := range sps {
		r := strokeRadius(size, sp.pressure)
		per := perpendicular(sp.vec)
		left = append(left, Point{X: sp.pos.X + per.X*r, Y: sp.pos.Y + per.Y*r})
		right = append(right, Point{X: sp.pos.X - per.X*r, Y: sp.pos.Y - per.Y*r})
	}
	return left, right
}

// strokeRadius eases pressure into a radius, never collapsing below a
// fraction of the nominal size.
func strokeRadius(size, pressure float64) float64 {
	eased := math.Sin(pressure * math.Pi / 2) // ease-out
	r := size / 2 * (1 - thinning + thinning*eased)
	min := size / 2 * minRadiusFrac
	if r < min {
		r = min
	}
	return r
}

// smoothClosed turns a closed polygon into quadratic curves through segment
// midpoints, the same midpoint smoothing the source renderer applies.
func smoothClosed(pts []Point) []PathCmd {
	if len(pts) == 0 {
		return nil
	}
	if len(pts) < 3 {
		cmds := []PathCmd{{Op: OpMoveTo, P1: pts[0]}}
		for _, p := range pts[1:] {
			cmds = append(cmds, PathCmd{Op: OpLineTo, P1: p})
		}
		cmds = append(cmds, PathCmd{Op: OpClose})
		return cmds
	}

	cmds := make([]PathCmd, 0, len(pts)+2)
	start := midpoint(pts[len(pts)-1], pts[0])
	cmds = append(cmds, PathCmd{Op: OpMoveTo, P1: start})
	for i := 0; i < len(pts); i++ {
		next := pts[(i+1)%len(pts)]
		cmds = append(cmds, PathCmd{Op: OpQuadTo, P1: pts[i], P2: midpoint(pts[i], next)})
	}
	cmds = append(cmds, PathCmd{Op: OpClose})
	return cmds
}

// dotOutline renders a degenerate stroke as a filled circle.
func dotOutline(center Point, r float64) []PathCmd {
	if r <= 0 {
		r = 0.5
	}
	m := r * bezierCircleMagic
	return []PathCmd{
		{Op: OpMoveTo, P1: Point{X: center.X + r, Y: center.Y}},
		{Op: OpCubicTo, P1: Point{X: center.X + r, Y: center.Y + m}, P2: Point{X: center.X + m, Y: center.Y + r}, P3: Point{X: center.X, Y: center.Y + r}},
		{Op: OpCubicTo, P1: Point{X: center.X - m, Y: center.Y + r}, P2: Point{X: center.X - r, Y: center.Y + m}, P3: Point{X: center.X - r, Y: center.Y}},
		{Op: OpCubicTo, P1: Point{X: center.X - r, Y: center.Y - m}, P2: Point{X: center.X - m, Y: center.Y - r}, P3: Point{X: center.X, Y: center.Y - r}},
		{Op: OpCubicTo, P1: Point{X: center.X + m, Y: center.Y - r}, P2: Point{X: center.X + r, Y: center.Y - m}, P3: Point{X: center.X + r, Y: center.Y}},
		{Op: OpClose},
	}
}

func sub(a, b Point) Point {
	return Point{X: a.X - b.X, Y: a.Y - b.Y}
}

func unit(p Point) Point {
	l := math.Hypot(p.X, p.Y)
	if l == 0 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

func perpendicular(p Point) Point {
	return Point{X: p.Y, Y: -p.X}
}
