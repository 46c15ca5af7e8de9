package replay

import (
	"context"
	"fmt"

	"github.com/slidereel/slidereel/internal/board"
	"github.com/slidereel/slidereel/internal/cursor"
	"github.com/slidereel/slidereel/internal/events"
	"github.com/slidereel/slidereel/internal/geometry"
	"github.com/slidereel/slidereel/internal/platform/errors"
	"github.com/slidereel/slidereel/internal/telemetry"
	"github.com/slidereel/slidereel/internal/viewport"
)

// Applier dispatches journal events to the session state machines. It is
// the single projection of the event stream: one Apply call per event, in
// replay order.
type Applier struct {
	board     *board.Store
	viewports *viewport.Tracker
	cursors   *cursor.Tracker
	emitter   *telemetry.Emitter

	activeSlide string
	hasSlide    bool
}

// NewApplier creates an applier over fresh state machines.
func NewApplier(emitter *telemetry.Emitter) *Applier {
	return &Applier{
		board:     board.NewStore(),
		viewports: viewport.NewTracker(),
		cursors:   cursor.NewTracker(),
		emitter:   emitter,
	}
}

// Apply projects one event into session state. Recoverable anomalies are
// reported to telemetry and skipped; only fatal conditions return an error.
func (a *Applier) Apply(ctx context.Context, evt events.Event) error {
	switch evt.Type {
	case events.TypeSlideChanged:
		p, err := events.DecodeSlideChanged(evt)
		if err != nil {
			a.skip(ctx, evt, errors.Wrap(errors.CodeEventInvalidPayload, "slide.changed", err))
			return nil
		}
		a.activeSlide = p.SlideID
		a.hasSlide = true

	case events.TypeViewportChanged:
		p, err := events.DecodeViewportChanged(evt)
		if err != nil {
			a.skip(ctx, evt, errors.Wrap(errors.CodeEventInvalidPayload, "viewport.changed", err))
			return nil
		}
		slideID := p.SlideID
		if slideID == "" {
			slideID = a.activeSlide
		}
		a.viewports.Apply(slideID, viewport.Transform{PanX: p.PanX, PanY: p.PanY, Zoom: p.Zoom})

	case events.TypeCursorMoved:
		p, err := events.DecodeCursorMoved(evt)
		if err != nil {
			a.skip(ctx, evt, errors.Wrap(errors.CodeEventInvalidPayload, "cursor.moved", err))
			return nil
		}
		a.cursors.Apply(geometry.Point{X: p.X, Y: p.Y}, evt.Timestamp)

	case events.TypeShapeCreated:
		return a.applyShapeCreated(ctx, evt)

	case events.TypeShapeUpdated:
		p, err := events.DecodeShapeUpdated(evt)
		if err != nil {
			a.skip(ctx, evt, errors.Wrap(errors.CodeEventInvalidPayload, "shape.updated", err))
			return nil
		}
		delta := board.Delta{Samples: p.Samples, Anchors: p.Anchors, Text: p.Text, HasText: p.HasText}
		return a.apply(ctx, evt, a.board.Update(p.ShapeID, events.TrimUser(evt.UserID), delta))

	case events.TypeShapeDeleted:
		p, err := events.DecodeShapeDeleted(evt)
		if err != nil {
			a.skip(ctx, evt, errors.Wrap(errors.CodeEventInvalidPayload, "shape.deleted", err))
			return nil
		}
		return a.apply(ctx, evt, a.board.Delete(p.ShapeID, events.TrimUser(evt.UserID)))

	case events.TypeWhiteboardCleared:
		p, err := events.DecodeWhiteboardCleared(evt)
		if err != nil {
			a.skip(ctx, evt, errors.Wrap(errors.CodeEventInvalidPayload, "whiteboard.cleared", err))
			return nil
		}
		slideID := p.SlideID
		if slideID == "" {
			slideID = a.activeSlide
		}
		return a.apply(ctx, evt, a.board.Clear(slideID, events.TrimUser(evt.UserID)))

	case events.TypeUndoRequested:
		return a.apply(ctx, evt, a.board.Undo(events.TrimUser(evt.UserID)))

	case events.TypeRedoRequested:
		return a.apply(ctx, evt, a.board.Redo(events.TrimUser(evt.UserID)))

	default:
		a.skip(ctx, evt, errors.WithMetadata(errors.CodeEventUnknownType, "unknown event type",
			map[string]string{"event_type": string(evt.Type)}))
	}
	return nil
}

func (a *Applier) applyShapeCreated(ctx context.Context, evt events.Event) error {
	p, err := events.DecodeShapeCreated(evt)
	if err != nil {
		a.skip(ctx, evt, errors.Wrap(errors.CodeEventInvalidPayload, "shape.created", err))
		return nil
	}
	kind, ok := geometry.ParseKind(p.Kind)
	if !ok {
		a.skip(ctx, evt, errors.WithMetadata(errors.CodeEventInvalidPayload, "unknown shape kind",
			map[string]string{"shape_id": p.ShapeID, "kind": p.Kind}))
		return nil
	}
	slideID := p.SlideID
	if slideID == "" {
		slideID = a.activeSlide
	}
	userID := events.TrimUser(evt.UserID)

	if _, err := a.board.Create(slideID, p.ShapeID, userID, kind, p.Style); err != nil {
		// A shape the journal could not describe is skipped, never fatal.
		a.skip(ctx, evt, errors.Wrap(errors.CodeEventInvalidPayload, "create shape", err))
		return nil
	}

	if len(p.Samples) == 0 && len(p.Anchors) == 0 && p.Text == "" {
		return nil
	}
	delta := board.Delta{Samples: p.Samples, Anchors: p.Anchors, Text: p.Text, HasText: p.Text != ""}
	return a.apply(ctx, evt, a.board.Update(p.ShapeID, userID, delta))
}

// apply routes a state-machine result: recoverable anomalies go to
// telemetry, anything else aborts the run.
func (a *Applier) apply(ctx context.Context, evt events.Event, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsRecoverable(err) {
		a.skip(ctx, evt, err)
		return nil
	}
	return err
}

func (a *Applier) skip(ctx context.Context, evt events.Event, err error) {
	a.emitter.Emit(ctx, telemetry.SeverityWarn, string(errors.CodeOf(err)),
		fmt.Sprintf("seq %d at %s: %v", evt.Seq, evt.Timestamp, err))
}

// View snapshots the render-facing state for the current frame.
func (a *Applier) View() View {
	view := View{
		SlideID:   a.activeSlide,
		HasSlide:  a.hasSlide,
		Transform: a.viewports.Transform(a.activeSlide),
	}
	if a.hasSlide {
		view.Shapes = a.board.AliveShapes(a.activeSlide)
	}
	view.CursorPos, view.CursorVisible = a.cursors.Position()
	return view
}

// Board exposes the underlying whiteboard store for inspection tooling.
func (a *Applier) Board() *board.Store {
	return a.board
}
