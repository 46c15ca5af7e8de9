// Package encode turns composited frames into video output. Sinks consume
// frames strictly in presentation order; the pipeline decouples composition
// from encoding behind a bounded queue.
package encode

import (
	"context"
	"image"
	"time"
)

// Frame is one composited video frame.
type Frame struct {
	// Index is the zero-based frame number.
	Index int
	// PTS is the presentation timestamp relative to the start of the
	// recording.
	PTS time.Duration
	// Image holds the composited RGBA pixels.
	Image *image.RGBA
}

// Sink consumes frames in strict index order.
type Sink interface {
	WriteFrame(ctx context.Context, frame Frame) error
	Close() error
}
