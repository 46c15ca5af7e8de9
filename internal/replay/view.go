package replay

import (
	"github.com/slidereel/slidereel/internal/geometry"
	"github.com/slidereel/slidereel/internal/viewport"
)

// View is the render-facing snapshot of session state at one frame time.
type View struct {
	// SlideID is the active slide. HasSlide is false until the first
	// slide.changed event; compositors render a placeholder frame then.
	SlideID  string
	HasSlide bool
	// Transform is the active slide's pan/zoom transform.
	Transform viewport.Transform
	// Shapes are the alive annotations of the active slide in z-order.
	Shapes []*geometry.Shape
	// CursorPos is the pointer position in slide space, valid only when
	// CursorVisible is true.
	CursorPos     geometry.Point
	CursorVisible bool
}
