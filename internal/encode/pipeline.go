package encode

import (
	"context"
	"fmt"
	"sync"

	"github.com/slidereel/slidereel/internal/platform/errors"
)

// Pipeline decouples frame production from encoding with a bounded queue
// and a single writer goroutine. It enforces strict frame ordering: frames
// must arrive with consecutive indexes starting at zero.
type Pipeline struct {
	sink   Sink
	frames chan Frame
	next   int

	wg   sync.WaitGroup
	mu   sync.Mutex
	fail error

	closeOnce sync.Once
	closeErr  error
}

// NewPipeline wraps sink with an asynchronous writer holding at most depth
// in-flight frames.
func NewPipeline(ctx context.Context, sink Sink, depth int) *Pipeline {
	if depth < 1 {
		depth = 1
	}
	p := &Pipeline{
		sink:   sink,
		frames: make(chan Frame, depth),
	}
	p.wg.Add(1)
	go p.run(ctx)
	return p
}

func (p *Pipeline) run(ctx context.Context) {
	defer p.wg.Done()
	for frame := range p.frames {
		if p.failure() != nil {
			continue // drain
		}
		if err := p.sink.WriteFrame(ctx, frame); err != nil {
			p.setFailure(err)
		}
	}
}

func (p *Pipeline) failure() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fail
}

func (p *Pipeline) setFailure(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail == nil {
		p.fail = err
	}
}

// WriteFrame queues a frame for encoding. It fails fast once the underlying
// sink has failed, and rejects frames arriving out of order.
func (p *Pipeline) WriteFrame(ctx context.Context, frame Frame) error {
	if err := p.failure(); err != nil {
		return err
	}
	if frame.Index != p.next {
		return errors.New(errors.CodeEncoderFrameOutOfOrder,
			fmt.Sprintf("expected frame %d, got %d", p.next, frame.Index))
	}
	p.next++

	select {
	case p.frames <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the queue, closes the underlying sink, and returns the first
// error observed anywhere in the pipeline.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		close(p.frames)
		p.wg.Wait()
		err := p.failure()
		if closeErr := p.sink.Close(); err == nil {
			err = closeErr
		}
		p.closeErr = err
	})
	return p.closeErr
}
