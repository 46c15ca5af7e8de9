// Package events defines the typed event model of a recorded session and
// its deterministic replay ordering.
package events

import (
	"sort"
	"strings"
	"time"
)

// Type identifies the type of a recorded session event.
type Type string

// Presentation events.
const (
	// TypeSlideChanged records the active slide switching.
	TypeSlideChanged Type = "slide.changed"
	// TypeViewportChanged records a pan/zoom change for a slide.
	TypeViewportChanged Type = "viewport.changed"
	// TypeCursorMoved records a pointer position sample.
	TypeCursorMoved Type = "cursor.moved"
)

// Whiteboard events.
const (
	// TypeShapeCreated records a new annotation shape.
	TypeShapeCreated Type = "shape.created"
	// TypeShapeUpdated records a geometry mutation of an existing shape.
	TypeShapeUpdated Type = "shape.updated"
	// TypeShapeDeleted records an annotation shape being removed.
	TypeShapeDeleted Type = "shape.deleted"
	// TypeWhiteboardCleared records every shape on a slide being removed
	// in one action.
	TypeWhiteboardCleared Type = "whiteboard.cleared"
	// TypeUndoRequested records a user's undo action.
	TypeUndoRequested Type = "undo.requested"
	// TypeRedoRequested records a user's redo action.
	TypeRedoRequested Type = "redo.requested"
)

// IsValid reports whether the event type is part of the closed enumeration.
func (t Type) IsValid() bool {
	switch t {
	case TypeSlideChanged, TypeViewportChanged, TypeCursorMoved,
		TypeShapeCreated, TypeShapeUpdated, TypeShapeDeleted,
		TypeWhiteboardCleared, TypeUndoRequested, TypeRedoRequested:
		return true
	default:
		return false
	}
}

// Domain returns the domain prefix of the event type (e.g., "shape").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}

// Event represents one immutable entry of a recorded session's event journal.
type Event struct {
	// Seq is the original log position. Assigned by storage on append; it
	// breaks ties between events with equal timestamps.
	Seq uint64
	// Timestamp is the event time relative to recording start. Timestamps
	// are non-decreasing per source stream, but streams may interleave.
	Timestamp time.Duration
	// Type identifies the kind of event.
	Type Type
	// UserID is the acting user for whiteboard and undo/redo events.
	UserID string
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// Sort orders events for replay: by timestamp, ties broken by original log
// order. The sort is stable by construction since Seq values are unique.
func Sort(evts []Event) {
	sort.Slice(evts, func(i, j int) bool {
		if evts[i].Timestamp != evts[j].Timestamp {
			return evts[i].Timestamp < evts[j].Timestamp
		}
		return evts[i].Seq < evts[j].Seq
	})
}

// TrimUser normalizes a recorded user id; unattributed events fall back to
// a shared history.
func TrimUser(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "presenter"
	}
	return userID
}
