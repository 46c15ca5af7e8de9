// Package raster paints shape outlines onto an RGBA frame using a
// scanline rasterizer with anti-aliasing.
package raster

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/slidereel/slidereel/internal/geometry"
	"github.com/slidereel/slidereel/internal/viewport"
)

// Canvas rasterizes path outlines into one frame image. Create one canvas
// per frame; the filler and stroker share a single scanner bound to the
// frame's pixels.
type Canvas struct {
	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler
	stroker *rasterx.Stroker
}

// NewCanvas binds a canvas to the frame image.
func NewCanvas(img *image.RGBA) *Canvas {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	return &Canvas{
		scanner: scanner,
		filler:  rasterx.NewFiller(w, h, scanner),
		stroker: rasterx.NewStroker(w, h, scanner),
	}
}

// Fill paints the outline's interior. Points are mapped from slide space
// to frame space through the transform.
func (c *Canvas) Fill(cmds []geometry.PathCmd, transform viewport.Transform, col color.Color) {
	if len(cmds) == 0 {
		return
	}
	c.scanner.SetColor(col)
	addPath(c.filler, cmds, transform)
	c.filler.Draw()
	c.filler.Clear()
}

// Stroke paints the outline's boundary with round caps and joins. The
// stroke width is given in slide units and scaled by the transform's zoom.
func (c *Canvas) Stroke(cmds []geometry.PathCmd, transform viewport.Transform, col color.Color, width float64) {
	if len(cmds) == 0 {
		return
	}
	scaled := width * transform.Zoom
	if scaled < 1 {
		scaled = 1
	}
	c.scanner.SetColor(col)
	c.stroker.SetStroke(
		fixed.Int26_6(scaled*64),
		fixed.Int26_6(4*64),
		rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap,
		rasterx.Round,
	)
	addPath(c.stroker, cmds, transform)
	c.stroker.Draw()
	c.stroker.Clear()
}

// addPath feeds path commands to a rasterx adder, transforming every
// control point into frame space.
func addPath(adder rasterx.Adder, cmds []geometry.PathCmd, transform viewport.Transform) {
	open := false
	for _, cmd := range cmds {
		switch cmd.Op {
		case geometry.OpMoveTo:
			if open {
				adder.Stop(false)
			}
			adder.Start(fixedPoint(transform.Apply(cmd.P1)))
			open = true
		case geometry.OpLineTo:
			adder.Line(fixedPoint(transform.Apply(cmd.P1)))
		case geometry.OpQuadTo:
			adder.QuadBezier(
				fixedPoint(transform.Apply(cmd.P1)),
				fixedPoint(transform.Apply(cmd.P2)),
			)
		case geometry.OpCubicTo:
			adder.CubeBezier(
				fixedPoint(transform.Apply(cmd.P1)),
				fixedPoint(transform.Apply(cmd.P2)),
				fixedPoint(transform.Apply(cmd.P3)),
			)
		case geometry.OpClose:
			adder.Stop(true)
			open = false
		}
	}
	if open {
		adder.Stop(false)
	}
}

func fixedPoint(p geometry.Point) fixed.Point26_6 {
	return rasterx.ToFixedP(p.X, p.Y)
}

// WithOpacity scales a color's alpha. Style colors are opaque; the scaled
// value is returned non-premultiplied so the rasterizer blends it.
func WithOpacity(col color.RGBA, opacity float64) color.Color {
	if opacity >= 1 {
		return col
	}
	if opacity < 0 {
		opacity = 0
	}
	return color.NRGBA{
		R: col.R,
		G: col.G,
		B: col.B,
		A: uint8(float64(col.A)*opacity + 0.5),
	}
}
