// Package compose renders replay views into frame images: slide raster,
// annotations in z-order, text, and the cursor overlay.
package compose

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/slidereel/slidereel/internal/compose/raster"
	"github.com/slidereel/slidereel/internal/compose/text"
	"github.com/slidereel/slidereel/internal/geometry"
	"github.com/slidereel/slidereel/internal/replay"
	"github.com/slidereel/slidereel/internal/slides"
	"github.com/slidereel/slidereel/internal/viewport"
)

const (
	defaultFontSize = 16
	cursorRadius    = 6
)

var (
	backgroundColor = color.RGBA{R: 0x26, G: 0x26, B: 0x26, A: 0xff}
	cursorColor     = color.RGBA{R: 0xff, G: 0x24, B: 0x0d, A: 0xff}
)

// Compositor renders one frame per view. Frames are a pure function of the
// view: no per-frame state survives between Compose calls except the slide
// raster cache.
type Compositor struct {
	cache  *slides.Cache
	drawer *text.Drawer

	width  int
	height int
}

// New creates a compositor producing frames of the given size.
func New(cache *slides.Cache, drawer *text.Drawer, width, height int) *Compositor {
	return &Compositor{cache: cache, drawer: drawer, width: width, height: height}
}

// Compose renders the view into a fresh frame image.
func (c *Compositor) Compose(ctx context.Context, view replay.View, _ time.Duration) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	// Before the first slide.changed the frame is just the backdrop.
	if !view.HasSlide {
		return img, nil
	}

	slideImg, err := c.cache.Slide(ctx, view.SlideID)
	if err != nil {
		return nil, err
	}
	c.drawSlide(img, slideImg, view)

	visible := view.Transform.VisibleRect(float64(c.width), float64(c.height))
	canvas := raster.NewCanvas(img)
	for _, shape := range view.Shapes {
		if !shape.Bounds().Intersects(visible) {
			continue
		}
		c.drawShape(img, canvas, shape, view)
	}

	if view.CursorVisible {
		c.drawCursor(canvas, view)
	}
	return img, nil
}

// drawSlide maps the cached base raster through the pan/zoom transform.
func (c *Compositor) drawSlide(img *image.RGBA, slideImg *image.RGBA, view replay.View) {
	min := view.Transform.Apply(geometry.Point{X: 0, Y: 0})
	max := view.Transform.Apply(geometry.Point{X: float64(c.width), Y: float64(c.height)})
	dst := image.Rect(int(min.X+0.5), int(min.Y+0.5), int(max.X+0.5), int(max.Y+0.5))
	if dst == slideImg.Bounds() {
		draw.Draw(img, dst, slideImg, image.Point{}, draw.Src)
		return
	}
	xdraw.BiLinear.Scale(img, dst, slideImg, slideImg.Bounds(), xdraw.Over, nil)
}

func (c *Compositor) drawShape(img *image.RGBA, canvas *raster.Canvas, shape *geometry.Shape, view replay.View) {
	if shape.Kind == geometry.KindText {
		pos := view.Transform.Apply(shape.Anchor())
		size := shape.Style.FontSize
		if size <= 0 {
			size = defaultFontSize
		}
		col := raster.WithOpacity(shape.Style.Color, shape.Style.EffectiveOpacity(shape.Kind))
		c.drawer.Draw(img, shape.Text(), pos.X, pos.Y, size*view.Transform.Zoom, col)
		return
	}

	outline := shape.Outline()
	if len(outline.Cmds) == 0 {
		return
	}
	col := raster.WithOpacity(shape.Style.Color, shape.Style.EffectiveOpacity(shape.Kind))

	switch {
	case shape.Kind.IsFreehand():
		// Freehand outlines already trace the stroke's boundary.
		canvas.Fill(outline.Cmds, view.Transform, col)
	case outline.Filled:
		fill := raster.WithOpacity(shape.Style.FillColor, shape.Style.EffectiveOpacity(shape.Kind))
		canvas.Fill(outline.Cmds, view.Transform, fill)
		canvas.Stroke(outline.Cmds, view.Transform, col, shape.Style.Thickness)
	default:
		canvas.Stroke(outline.Cmds, view.Transform, col, shape.Style.Thickness)
	}
}

// drawCursor paints a filled dot at the transformed pointer position. The
// dot keeps a fixed on-screen size regardless of zoom.
func (c *Compositor) drawCursor(canvas *raster.Canvas, view replay.View) {
	pos := view.Transform.Apply(view.CursorPos)
	cmds := geometry.CircleOutline(pos, cursorRadius)
	canvas.Fill(cmds, viewport.Identity(), cursorColor)
}
