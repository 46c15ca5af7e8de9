package encode

import "context"

// Discard is a sink that drops frames and counts them. It backs dry runs
// and deterministic replay tests.
type Discard struct {
	frames int
}

// NewDiscard creates a frame-dropping sink.
func NewDiscard() *Discard {
	return &Discard{}
}

// WriteFrame drops the frame.
func (d *Discard) WriteFrame(ctx context.Context, _ Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.frames++
	return nil
}

// Close is a no-op.
func (d *Discard) Close() error { return nil }

// Frames returns how many frames were written.
func (d *Discard) Frames() int { return d.frames }
