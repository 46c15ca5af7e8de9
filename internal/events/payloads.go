package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/slidereel/slidereel/internal/geometry"
)

// SlideChangedPayload carries the new active slide.
type SlideChangedPayload struct {
	SlideID string `json:"slide_id"`
}

// ViewportChangedPayload carries a slide's pan offset and zoom scale.
type ViewportChangedPayload struct {
	SlideID string  `json:"slide_id"`
	PanX    float64 `json:"pan_x"`
	PanY    float64 `json:"pan_y"`
	Zoom    float64 `json:"zoom"`
}

// CursorMovedPayload carries a pointer sample in slide space. Negative
// coordinates hide the cursor.
type CursorMovedPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShapeCreatedPayload carries a new shape and any initial geometry recorded
// with the create.
type ShapeCreatedPayload struct {
	SlideID string            `json:"slide_id"`
	ShapeID string            `json:"shape_id"`
	Kind    string            `json:"kind"`
	Style   geometry.Style    `json:"style"`
	Samples []geometry.Sample `json:"samples,omitempty"`
	Anchors []geometry.Point  `json:"anchors,omitempty"`
	Text    string            `json:"text,omitempty"`
}

// ShapeUpdatedPayload carries a geometry delta: new samples to append for
// freehand kinds, replacement anchors for parametric kinds, or replacement
// text content.
type ShapeUpdatedPayload struct {
	ShapeID string            `json:"shape_id"`
	Samples []geometry.Sample `json:"samples,omitempty"`
	Anchors []geometry.Point  `json:"anchors,omitempty"`
	Text    string            `json:"text,omitempty"`
	HasText bool              `json:"has_text,omitempty"`
}

// ShapeDeletedPayload identifies the deleted shape.
type ShapeDeletedPayload struct {
	ShapeID string `json:"shape_id"`
}

// WhiteboardClearedPayload identifies the cleared slide.
type WhiteboardClearedPayload struct {
	SlideID string `json:"slide_id"`
}

// UndoRequestedPayload and RedoRequestedPayload have no fields beyond the
// event's user; they exist so every type round-trips through the journal
// the same way.
type UndoRequestedPayload struct{}

// RedoRequestedPayload is the redo counterpart of UndoRequestedPayload.
type RedoRequestedPayload struct{}

// NewEvent marshals a typed payload into a journal event. Seq is assigned
// by storage on append.
func NewEvent(timestamp time.Duration, typ Type, userID string, payload any) (Event, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return Event{
		Timestamp:   timestamp,
		Type:        typ,
		UserID:      userID,
		PayloadJSON: payloadJSON,
	}, nil
}

func decode[T any](evt Event, out *T) error {
	if err := json.Unmarshal(evt.PayloadJSON, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", evt.Type, err)
	}
	return nil
}

// DecodeSlideChanged decodes a slide.changed payload.
func DecodeSlideChanged(evt Event) (SlideChangedPayload, error) {
	var p SlideChangedPayload
	err := decode(evt, &p)
	return p, err
}

// DecodeViewportChanged decodes a viewport.changed payload.
func DecodeViewportChanged(evt Event) (ViewportChangedPayload, error) {
	var p ViewportChangedPayload
	err := decode(evt, &p)
	return p, err
}

// DecodeCursorMoved decodes a cursor.moved payload.
func DecodeCursorMoved(evt Event) (CursorMovedPayload, error) {
	var p CursorMovedPayload
	err := decode(evt, &p)
	return p, err
}

// DecodeShapeCreated decodes a shape.created payload.
func DecodeShapeCreated(evt Event) (ShapeCreatedPayload, error) {
	var p ShapeCreatedPayload
	err := decode(evt, &p)
	return p, err
}

// DecodeShapeUpdated decodes a shape.updated payload.
func DecodeShapeUpdated(evt Event) (ShapeUpdatedPayload, error) {
	var p ShapeUpdatedPayload
	err := decode(evt, &p)
	return p, err
}

// DecodeShapeDeleted decodes a shape.deleted payload.
func DecodeShapeDeleted(evt Event) (ShapeDeletedPayload, error) {
	var p ShapeDeletedPayload
	err := decode(evt, &p)
	return p, err
}

// DecodeWhiteboardCleared decodes a whiteboard.cleared payload.
func DecodeWhiteboardCleared(evt Event) (WhiteboardClearedPayload, error) {
	var p WhiteboardClearedPayload
	err := decode(evt, &p)
	return p, err
}
