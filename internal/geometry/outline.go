package geometry

import "math"

// bezierCircleMagic is the control point offset that approximates a quarter
// circle with one cubic Bézier.
const bezierCircleMagic = 0.551915024494

// arrowheadFrac is the arrowhead length relative to the shaft, capped below.
const (
	arrowheadFrac   = 0.2
	arrowheadMax    = 24.0
	arrowheadSpread = math.Pi / 7
)

// rectangleOutline builds the four edges between two corner anchors.
func rectangleOutline(a, b Point) []PathCmd {
	return []PathCmd{
		{Op: OpMoveTo, P1: a},
		{Op: OpLineTo, P1: Point{X: b.X, Y: a.Y}},
		{Op: OpLineTo, P1: b},
		{Op: OpLineTo, P1: Point{X: a.X, Y: b.Y}},
		{Op: OpClose},
	}
}

// ellipseOutline inscribes an ellipse in the anchor rectangle using four
// cubic Béziers.
func ellipseOutline(a, b Point) []PathCmd {
	cx, cy := (a.X+b.X)/2, (a.Y+b.Y)/2
	rx, ry := math.Abs(b.X-a.X)/2, math.Abs(b.Y-a.Y)/2
	mx, my := rx*bezierCircleMagic, ry*bezierCircleMagic
	return []PathCmd{
		{Op: OpMoveTo, P1: Point{X: cx + rx, Y: cy}},
		{Op: OpCubicTo, P1: Point{X: cx + rx, Y: cy + my}, P2: Point{X: cx + mx, Y: cy + ry}, P3: Point{X: cx, Y: cy + ry}},
		{Op: OpCubicTo, P1: Point{X: cx - mx, Y: cy + ry}, P2: Point{X: cx - rx, Y: cy + my}, P3: Point{X: cx - rx, Y: cy}},
		{Op: OpCubicTo, P1: Point{X: cx - rx, Y: cy - my}, P2: Point{X: cx - mx, Y: cy - ry}, P3: Point{X: cx, Y: cy - ry}},
		{Op: OpCubicTo, P1: Point{X: cx + mx, Y: cy - ry}, P2: Point{X: cx + rx, Y: cy - my}, P3: Point{X: cx + rx, Y: cy}},
		{Op: OpClose},
	}
}

// CircleOutline builds a closed circle of the given radius around center,
// used for cursor and stroke-dot overlays.
func CircleOutline(center Point, radius float64) []PathCmd {
	return ellipseOutline(
		Point{X: center.X - radius, Y: center.Y - radius},
		Point{X: center.X + radius, Y: center.Y + radius},
	)
}

// lineOutline is a single segment.
func lineOutline(a, b Point) []PathCmd {
	return []PathCmd{
		{Op: OpMoveTo, P1: a},
		{Op: OpLineTo, P1: b},
	}
}

// arrowOutline draws the shaft and the two head strokes at the tip.
func arrowOutline(a, b Point) []PathCmd {
	cmds := lineOutline(a, b)

	length := dist(a, b)
	if length == 0 {
		return cmds
	}
	head := length * arrowheadFrac
	if head > arrowheadMax {
		head = arrowheadMax
	}
	angle := math.Atan2(a.Y-b.Y, a.X-b.X)
	for _, da := range [2]float64{arrowheadSpread, -arrowheadSpread} {
		p := Point{
			X: b.X + head*math.Cos(angle+da),
			Y: b.Y + head*math.Sin(angle+da),
		}
		cmds = append(cmds,
			PathCmd{Op: OpMoveTo, P1: b},
			PathCmd{Op: OpLineTo, P1: p},
		)
	}
	return cmds
}

// parametricOutline dispatches over the parametric kinds. Anchors beyond the
// first two are ignored; a single anchor degenerates to that point.
func parametricOutline(kind Kind, anchors []Point) []PathCmd {
	if len(anchors) == 0 {
		return nil
	}
	a := anchors[0]
	b := a
	if len(anchors) > 1 {
		b = anchors[1]
	}
	switch kind {
	case KindRectangle:
		return rectangleOutline(a, b)
	case KindEllipse:
		return ellipseOutline(a, b)
	case KindLine:
		return lineOutline(a, b)
	case KindArrow:
		return arrowOutline(a, b)
	default:
		return nil
	}
}

// Text metrics used only for bounding-box estimation; actual layout is done
// by the text collaborator at composition time.
const (
	textAdvanceFrac = 0.6
	textLineFrac    = 1.2
)

// textBounds estimates the box a text annotation occupies for culling.
func textBounds(anchor Point, text string, fontSize float64) Rect {
	if fontSize <= 0 {
		fontSize = 16
	}
	lines := 1
	maxLine := 0
	current := 0
	for _, r := range text {
		if r == '\n' {
			lines++
			current = 0
			continue
		}
		current++
		if current > maxLine {
			maxLine = current
		}
	}
	r := EmptyRect()
	r = r.ExpandPoint(anchor)
	r = r.ExpandPoint(Point{
		X: anchor.X + float64(maxLine)*fontSize*textAdvanceFrac,
		Y: anchor.Y + float64(lines)*fontSize*textLineFrac,
	})
	return r
}
