package replay

import (
	"context"
	"image"
	"reflect"
	"testing"
	"time"

	"github.com/slidereel/slidereel/internal/encode"
	"github.com/slidereel/slidereel/internal/events"
	"github.com/slidereel/slidereel/internal/geometry"
	"github.com/slidereel/slidereel/internal/platform/errors"
	"github.com/slidereel/slidereel/internal/telemetry"
)

// viewSummary is a comparable digest of what a frame would show.
type viewSummary struct {
	pts      time.Duration
	slideID  string
	hasSlide bool
	zoom     float64
	shapes   int
	samples  int
	cursor   bool
}

// digestCompositor records a summary per composed frame.
type digestCompositor struct {
	summaries []viewSummary
}

func (d *digestCompositor) Compose(_ context.Context, view View, pts time.Duration) (*image.RGBA, error) {
	samples := 0
	for _, shape := range view.Shapes {
		samples += shape.SampleCount()
	}
	d.summaries = append(d.summaries, viewSummary{
		pts:      pts,
		slideID:  view.SlideID,
		hasSlide: view.HasSlide,
		zoom:     view.Transform.Zoom,
		shapes:   len(view.Shapes),
		samples:  samples,
		cursor:   view.CursorVisible,
	})
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func sessionEvents(t *testing.T) []events.Event {
	t.Helper()
	evts := []events.Event{
		mustEvent(t, 0, events.TypeSlideChanged, "", events.SlideChangedPayload{SlideID: "slide-1"}),
		mustEvent(t, 500*time.Millisecond, events.TypeShapeCreated, "u1", events.ShapeCreatedPayload{
			SlideID: "slide-1", ShapeID: "pencil-1", Kind: "freehand",
			Style:   geometry.Style{Thickness: 2, Opacity: 1},
			Samples: []geometry.Sample{{X: 1, Y: 1, Pressure: 0.5}, {X: 2, Y: 2, Pressure: 0.5}},
		}),
		mustEvent(t, time.Second, events.TypeViewportChanged, "", events.ViewportChangedPayload{
			SlideID: "slide-1", PanX: 5, PanY: 5, Zoom: 2,
		}),
		// Beyond the run's duration, must never influence a frame.
		mustEvent(t, 5*time.Second, events.TypeCursorMoved, "", events.CursorMovedPayload{X: 9, Y: 9}),
	}
	for i := range evts {
		evts[i].Seq = uint64(i + 1)
	}
	return evts
}

func runSession(t *testing.T) (*digestCompositor, int) {
	t.Helper()
	compositor := &digestCompositor{}
	scheduler := NewScheduler(NewApplier(telemetry.NewEmitter("run-test", nil)), compositor, encode.NewDiscard())
	frames, err := scheduler.Run(context.Background(), sessionEvents(t),
		Config{Duration: 2 * time.Second, FrameRate: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return compositor, frames
}

func TestRunFrameCountIncludesFinalTick(t *testing.T) {
	// 2.0s at 10fps: ticks at 0.0s through 2.0s inclusive.
	_, frames := runSession(t)
	if frames != 21 {
		t.Fatalf("expected 21 frames, got %d", frames)
	}
}

func TestRunAppliesEventsAtFrameBoundaries(t *testing.T) {
	compositor, _ := runSession(t)
	s := compositor.summaries

	if s[0].shapes != 0 || !s[0].hasSlide {
		t.Fatalf("frame 0: expected slide active with no shapes, got %+v", s[0])
	}
	// The pencil lands at 0.5s, exactly frame 5.
	if s[4].shapes != 0 {
		t.Fatalf("frame 4: expected shape not yet applied, got %+v", s[4])
	}
	if s[5].shapes != 1 || s[5].samples != 2 {
		t.Fatalf("frame 5: expected pencil with 2 samples, got %+v", s[5])
	}
	// The zoom lands at 1.0s, exactly frame 10.
	if s[9].zoom != 1 {
		t.Fatalf("frame 9: expected identity zoom, got %+v", s[9])
	}
	if s[10].zoom != 2 {
		t.Fatalf("frame 10: expected zoom applied, got %+v", s[10])
	}
	// Events are applied exactly once: sample count never grows again.
	for i := 5; i < len(s); i++ {
		if s[i].samples != 2 {
			t.Fatalf("frame %d: expected stable sample count, got %+v", i, s[i])
		}
	}
	// The 5s cursor event is outside the run.
	for i, summary := range s {
		if summary.cursor {
			t.Fatalf("frame %d: expected out-of-range event to stay inert", i)
		}
	}
}

func TestRunSurvivesKindMismatchedDelta(t *testing.T) {
	evts := []events.Event{
		mustEvent(t, 0, events.TypeSlideChanged, "", events.SlideChangedPayload{SlideID: "slide-1"}),
		mustEvent(t, 200*time.Millisecond, events.TypeShapeCreated, "u1", events.ShapeCreatedPayload{
			SlideID: "slide-1", ShapeID: "pencil-1", Kind: "freehand",
			Style:   geometry.Style{Thickness: 2, Opacity: 1},
			Samples: []geometry.Sample{{X: 1, Y: 1, Pressure: 0.5}, {X: 2, Y: 2, Pressure: 0.5}},
		}),
		// Anchors never apply to a freehand stroke; this delta must be
		// skipped and logged, not abort the run.
		mustEvent(t, 400*time.Millisecond, events.TypeShapeUpdated, "u1", events.ShapeUpdatedPayload{
			ShapeID: "pencil-1",
			Anchors: []geometry.Point{{X: 0, Y: 0}, {X: 4, Y: 4}},
		}),
	}
	for i := range evts {
		evts[i].Seq = uint64(i + 1)
	}

	store := &captureStore{}
	compositor := &digestCompositor{}
	scheduler := NewScheduler(NewApplier(telemetry.NewEmitter("run-test", store)), compositor, encode.NewDiscard())
	frames, err := scheduler.Run(context.Background(), evts, Config{Duration: time.Second, FrameRate: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if frames != 11 {
		t.Fatalf("expected the full 11 frames, got %d", frames)
	}

	if len(store.entries) != 1 || store.entries[0].Code != "SHAPE_NOT_PARAMETRIC" {
		t.Fatalf("expected one SHAPE_NOT_PARAMETRIC entry, got %+v", store.entries)
	}

	// The stroke keeps rendering with its original geometry.
	last := compositor.summaries[len(compositor.summaries)-1]
	if last.shapes != 1 || last.samples != 2 {
		t.Fatalf("expected untouched stroke on the final frame, got %+v", last)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first, _ := runSession(t)
	second, _ := runSession(t)
	if !reflect.DeepEqual(first.summaries, second.summaries) {
		t.Fatal("expected identical frame sequences from identical input")
	}
}

func TestRunSortsUnorderedInput(t *testing.T) {
	evts := sessionEvents(t)
	// Reverse the stream; replay order must come from (timestamp, seq).
	for i, j := 0, len(evts)-1; i < j; i, j = i+1, j-1 {
		evts[i], evts[j] = evts[j], evts[i]
	}

	compositor := &digestCompositor{}
	scheduler := NewScheduler(NewApplier(telemetry.NewEmitter("run-test", nil)), compositor, encode.NewDiscard())
	if _, err := scheduler.Run(context.Background(), evts, Config{Duration: 2 * time.Second, FrameRate: 10}); err != nil {
		t.Fatalf("run: %v", err)
	}

	ordered, _ := runSession(t)
	if !reflect.DeepEqual(compositor.summaries, ordered.summaries) {
		t.Fatal("expected identical output regardless of input order")
	}
}

func TestRunValidatesConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantCode errors.Code
	}{
		{"negative duration", Config{Duration: -time.Second, FrameRate: 10}, errors.CodeReplayNegativeDuration},
		{"zero frame rate", Config{Duration: time.Second, FrameRate: 0}, errors.CodeReplayInvalidFrameRate},
		{"negative frame rate", Config{Duration: time.Second, FrameRate: -30}, errors.CodeReplayInvalidFrameRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewScheduler(NewApplier(telemetry.NewEmitter("run-test", nil)),
				&digestCompositor{}, encode.NewDiscard())
			_, err := scheduler.Run(context.Background(), nil, tt.cfg)
			if errors.CodeOf(err) != tt.wantCode {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestRunZeroDurationProducesOneFrame(t *testing.T) {
	compositor := &digestCompositor{}
	scheduler := NewScheduler(NewApplier(telemetry.NewEmitter("run-test", nil)), compositor, encode.NewDiscard())
	frames, err := scheduler.Run(context.Background(), nil, Config{Duration: 0, FrameRate: 30})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if frames != 1 {
		t.Fatalf("expected a single frame at t=0, got %d", frames)
	}
}

type failingCompositor struct{}

func (failingCompositor) Compose(context.Context, View, time.Duration) (*image.RGBA, error) {
	return nil, errors.New(errors.CodeSlideDecodeFailed, "corrupt slide raster")
}

func TestRunAbortsOnCompositorFailure(t *testing.T) {
	scheduler := NewScheduler(NewApplier(telemetry.NewEmitter("run-test", nil)),
		failingCompositor{}, encode.NewDiscard())
	_, err := scheduler.Run(context.Background(), nil, Config{Duration: time.Second, FrameRate: 10})
	if errors.CodeOf(err) != errors.CodeSlideDecodeFailed {
		t.Fatalf("expected decode failure to abort, got %v", err)
	}
}

type countingSink struct {
	frames []encode.Frame
	failAt int
}

func (c *countingSink) WriteFrame(_ context.Context, frame encode.Frame) error {
	if c.failAt > 0 && frame.Index >= c.failAt {
		return errors.New(errors.CodeEncoderSinkFailed, "sink closed")
	}
	c.frames = append(c.frames, frame)
	return nil
}

func (c *countingSink) Close() error { return nil }

func TestRunAbortsOnSinkFailure(t *testing.T) {
	sink := &countingSink{failAt: 3}
	scheduler := NewScheduler(NewApplier(telemetry.NewEmitter("run-test", nil)),
		&digestCompositor{}, sink)
	frames, err := scheduler.Run(context.Background(), nil, Config{Duration: time.Second, FrameRate: 10})
	if errors.CodeOf(err) != errors.CodeEncoderSinkFailed {
		t.Fatalf("expected sink failure to abort, got %v", err)
	}
	if frames != 3 {
		t.Fatalf("expected 3 frames written before failure, got %d", frames)
	}
}

func TestRunFramePTSUsesIntegerClock(t *testing.T) {
	sink := &countingSink{}
	scheduler := NewScheduler(NewApplier(telemetry.NewEmitter("run-test", nil)),
		&digestCompositor{}, sink)
	if _, err := scheduler.Run(context.Background(), nil, Config{Duration: time.Second, FrameRate: 30}); err != nil {
		t.Fatalf("run: %v", err)
	}
	for i, frame := range sink.frames {
		want := time.Duration(i) * time.Second / 30
		if frame.PTS != want {
			t.Fatalf("frame %d: expected pts %v, got %v", i, want, frame.PTS)
		}
		if frame.Index != i {
			t.Fatalf("expected consecutive indexes, got %d at %d", frame.Index, i)
		}
	}
	if len(sink.frames) != 31 {
		t.Fatalf("expected 31 frames for 1s at 30fps, got %d", len(sink.frames))
	}
}
