package replay

import (
	"context"
	"testing"
	"time"

	"github.com/slidereel/slidereel/internal/events"
	"github.com/slidereel/slidereel/internal/geometry"
	"github.com/slidereel/slidereel/internal/storage"
	"github.com/slidereel/slidereel/internal/telemetry"
)

type captureStore struct {
	entries []storage.TelemetryEvent
}

func (c *captureStore) AppendTelemetryEvent(_ context.Context, evt storage.TelemetryEvent) error {
	c.entries = append(c.entries, evt)
	return nil
}

func testApplier() (*Applier, *captureStore) {
	store := &captureStore{}
	return NewApplier(telemetry.NewEmitter("run-test", store)), store
}

func mustEvent(t *testing.T, at time.Duration, typ events.Type, userID string, payload any) events.Event {
	t.Helper()
	evt, err := events.NewEvent(at, typ, userID, payload)
	if err != nil {
		t.Fatalf("new %s event: %v", typ, err)
	}
	return evt
}

func apply(t *testing.T, a *Applier, evt events.Event) {
	t.Helper()
	if err := a.Apply(context.Background(), evt); err != nil {
		t.Fatalf("apply %s: %v", evt.Type, err)
	}
}

func TestViewBeforeFirstSlide(t *testing.T) {
	a, _ := testApplier()
	view := a.View()
	if view.HasSlide {
		t.Fatal("expected no active slide before slide.changed")
	}
	if view.CursorVisible {
		t.Fatal("expected no cursor before cursor.moved")
	}
	if view.Transform.Zoom != 1 {
		t.Fatalf("expected identity transform, got %+v", view.Transform)
	}
}

func TestSlideAndViewportProjection(t *testing.T) {
	a, _ := testApplier()
	apply(t, a, mustEvent(t, 0, events.TypeSlideChanged, "", events.SlideChangedPayload{SlideID: "slide-1"}))
	apply(t, a, mustEvent(t, time.Second, events.TypeViewportChanged, "",
		events.ViewportChangedPayload{SlideID: "slide-1", PanX: 10, PanY: 20, Zoom: 2}))

	view := a.View()
	if !view.HasSlide || view.SlideID != "slide-1" {
		t.Fatalf("expected slide-1 active, got %+v", view)
	}
	if view.Transform.PanX != 10 || view.Transform.PanY != 20 || view.Transform.Zoom != 2 {
		t.Fatalf("unexpected transform %+v", view.Transform)
	}

	// Switching slides switches transforms; slide-2 never panned.
	apply(t, a, mustEvent(t, 2*time.Second, events.TypeSlideChanged, "", events.SlideChangedPayload{SlideID: "slide-2"}))
	if got := a.View().Transform; got.Zoom != 1 || got.PanX != 0 {
		t.Fatalf("expected identity transform for fresh slide, got %+v", got)
	}
}

func TestShapeLifecycleProjection(t *testing.T) {
	a, _ := testApplier()
	apply(t, a, mustEvent(t, 0, events.TypeSlideChanged, "", events.SlideChangedPayload{SlideID: "slide-1"}))
	apply(t, a, mustEvent(t, time.Second, events.TypeShapeCreated, "u1", events.ShapeCreatedPayload{
		SlideID: "slide-1",
		ShapeID: "s1",
		Kind:    "freehand",
		Style:   geometry.Style{Thickness: 2, Opacity: 1},
		Samples: []geometry.Sample{{X: 1, Y: 1, Pressure: 0.5}},
	}))

	view := a.View()
	if len(view.Shapes) != 1 || view.Shapes[0].ID != "s1" {
		t.Fatalf("expected shape s1 alive, got %d shapes", len(view.Shapes))
	}

	apply(t, a, mustEvent(t, 2*time.Second, events.TypeShapeUpdated, "u1", events.ShapeUpdatedPayload{
		ShapeID: "s1",
		Samples: []geometry.Sample{{X: 5, Y: 5, Pressure: 0.5}},
	}))
	if view.Shapes[0].SampleCount() != 2 {
		t.Fatalf("expected appended sample, got %d", view.Shapes[0].SampleCount())
	}

	apply(t, a, mustEvent(t, 3*time.Second, events.TypeShapeDeleted, "u1", events.ShapeDeletedPayload{ShapeID: "s1"}))
	if got := len(a.View().Shapes); got != 0 {
		t.Fatalf("expected no alive shapes after delete, got %d", got)
	}

	apply(t, a, mustEvent(t, 4*time.Second, events.TypeUndoRequested, "u1", events.UndoRequestedPayload{}))
	if got := len(a.View().Shapes); got != 1 {
		t.Fatalf("expected delete undone, got %d alive", got)
	}
}

func TestClearProjectionDefaultsToActiveSlide(t *testing.T) {
	a, _ := testApplier()
	apply(t, a, mustEvent(t, 0, events.TypeSlideChanged, "", events.SlideChangedPayload{SlideID: "slide-1"}))
	apply(t, a, mustEvent(t, time.Second, events.TypeShapeCreated, "u1", events.ShapeCreatedPayload{
		SlideID: "slide-1", ShapeID: "s1", Kind: "rectangle",
		Anchors: []geometry.Point{{X: 0, Y: 0}, {X: 4, Y: 4}},
	}))
	apply(t, a, mustEvent(t, 2*time.Second, events.TypeWhiteboardCleared, "u1", events.WhiteboardClearedPayload{}))

	if got := len(a.View().Shapes); got != 0 {
		t.Fatalf("expected cleared active slide, got %d alive", got)
	}
}

func TestCursorProjection(t *testing.T) {
	a, _ := testApplier()
	apply(t, a, mustEvent(t, time.Second, events.TypeCursorMoved, "", events.CursorMovedPayload{X: 3, Y: 4}))

	view := a.View()
	if !view.CursorVisible || view.CursorPos.X != 3 || view.CursorPos.Y != 4 {
		t.Fatalf("unexpected cursor state %+v", view)
	}

	apply(t, a, mustEvent(t, 2*time.Second, events.TypeCursorMoved, "", events.CursorMovedPayload{X: -1, Y: -1}))
	if a.View().CursorVisible {
		t.Fatal("expected negative sample to hide the cursor")
	}
}

func TestRecoverableAnomaliesAreSkippedAndLogged(t *testing.T) {
	tests := []struct {
		name     string
		evt      func(t *testing.T) events.Event
		wantCode string
	}{
		{
			name: "unknown event type",
			evt: func(t *testing.T) events.Event {
				return events.Event{Type: events.Type("presenter.changed"), Timestamp: time.Second}
			},
			wantCode: "EVENT_UNKNOWN_TYPE",
		},
		{
			name: "update unknown shape",
			evt: func(t *testing.T) events.Event {
				return mustEvent(t, time.Second, events.TypeShapeUpdated, "u1",
					events.ShapeUpdatedPayload{ShapeID: "ghost"})
			},
			wantCode: "SHAPE_NOT_FOUND",
		},
		{
			name: "undo with no history",
			evt: func(t *testing.T) events.Event {
				return mustEvent(t, time.Second, events.TypeUndoRequested, "nobody",
					events.UndoRequestedPayload{})
			},
			wantCode: "HISTORY_USER_NOT_FOUND",
		},
		{
			name: "malformed payload",
			evt: func(t *testing.T) events.Event {
				return events.Event{Type: events.TypeSlideChanged, Timestamp: time.Second,
					PayloadJSON: []byte("{not json")}
			},
			wantCode: "EVENT_INVALID_PAYLOAD",
		},
		{
			name: "created shape with unknown kind",
			evt: func(t *testing.T) events.Event {
				return mustEvent(t, time.Second, events.TypeShapeCreated, "u1",
					events.ShapeCreatedPayload{SlideID: "slide-1", ShapeID: "s1", Kind: "scribble"})
			},
			wantCode: "EVENT_INVALID_PAYLOAD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, store := testApplier()
			if err := a.Apply(context.Background(), tt.evt(t)); err != nil {
				t.Fatalf("expected recoverable skip, got %v", err)
			}
			if len(store.entries) != 1 {
				t.Fatalf("expected 1 telemetry entry, got %d", len(store.entries))
			}
			if store.entries[0].Code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, store.entries[0].Code)
			}
		})
	}
}
