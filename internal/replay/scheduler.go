package replay

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/slidereel/slidereel/internal/encode"
	"github.com/slidereel/slidereel/internal/events"
	"github.com/slidereel/slidereel/internal/platform/errors"
)

// Compositor renders a view into one frame image.
type Compositor interface {
	Compose(ctx context.Context, view View, pts time.Duration) (*image.RGBA, error)
}

// Config carries the frame-clock parameters of one run.
type Config struct {
	// Duration is the length of the recording. The final frame is the last
	// tick at or before this instant.
	Duration time.Duration
	// FrameRate is the number of frames per second of output.
	FrameRate int
}

// Scheduler advances the event clock and the frame clock in lockstep.
type Scheduler struct {
	applier    *Applier
	compositor Compositor
	sink       encode.Sink
}

// NewScheduler wires a run's applier, compositor, and frame sink.
func NewScheduler(applier *Applier, compositor Compositor, sink encode.Sink) *Scheduler {
	return &Scheduler{applier: applier, compositor: compositor, sink: sink}
}

// Run replays the recorded events and writes one frame per tick, returning
// the number of frames written. Frame n has timestamp n/FrameRate seconds,
// computed with integer arithmetic so the clock never drifts; ticks run
// from zero through the last instant at or before Duration inclusive.
func (s *Scheduler) Run(ctx context.Context, recorded []events.Event, cfg Config) (int, error) {
	if cfg.Duration < 0 {
		return 0, errors.New(errors.CodeReplayNegativeDuration,
			fmt.Sprintf("duration %s is negative", cfg.Duration))
	}
	if cfg.FrameRate <= 0 {
		return 0, errors.New(errors.CodeReplayInvalidFrameRate,
			fmt.Sprintf("frame rate %d is not positive", cfg.FrameRate))
	}

	stream := make([]events.Event, len(recorded))
	copy(stream, recorded)
	events.Sort(stream)

	tracer := otel.Tracer("slidereel/replay")
	ctx, span := tracer.Start(ctx, "replay.run")
	defer span.End()

	var eventClock time.Duration
	nextEvent := 0
	frames := 0

	for frame := 0; ; frame++ {
		pts := time.Duration(frame) * time.Second / time.Duration(cfg.FrameRate)
		if pts > cfg.Duration {
			break
		}
		if err := ctx.Err(); err != nil {
			return frames, err
		}

		// Advance the event clock: apply every event at or before this
		// frame's timestamp, each exactly once.
		for nextEvent < len(stream) && stream[nextEvent].Timestamp <= pts {
			evt := stream[nextEvent]
			if evt.Timestamp < eventClock {
				return frames, errors.New(errors.CodeReplayClockRegression,
					fmt.Sprintf("event seq %d at %s behind clock %s", evt.Seq, evt.Timestamp, eventClock))
			}
			eventClock = evt.Timestamp
			if err := s.applier.Apply(ctx, evt); err != nil {
				return frames, err
			}
			nextEvent++
		}

		img, err := s.compositor.Compose(ctx, s.applier.View(), pts)
		if err != nil {
			return frames, err
		}
		if err := s.sink.WriteFrame(ctx, encode.Frame{Index: frame, PTS: pts, Image: img}); err != nil {
			return frames, err
		}
		frames++
	}

	span.SetAttributes(
		attribute.Int("frames", frames),
		attribute.Int("events", nextEvent),
	)
	return frames, nil
}
