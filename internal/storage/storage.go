package storage

import (
	"context"
	"errors"
	"time"

	"github.com/slidereel/slidereel/internal/events"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Recording describes one recorded session.
type Recording struct {
	ID       string
	Duration time.Duration
	Width    int
	Height   int
}

// RecordingStore persists recording metadata.
type RecordingStore interface {
	PutRecording(ctx context.Context, rec Recording) error
	GetRecording(ctx context.Context, id string) (Recording, error)
}

// EventJournal persists a recording's typed event stream. Events load in
// replay order: by timestamp, ties broken by append order.
type EventJournal interface {
	// AppendEvent stores an event and returns it with its sequence assigned.
	AppendEvent(ctx context.Context, recordingID string, evt events.Event) (events.Event, error)
	// LoadEvents returns every event of a recording in replay order.
	LoadEvents(ctx context.Context, recordingID string) ([]events.Event, error)
}

// TelemetryEvent records one operational anomaly observed during a run.
type TelemetryEvent struct {
	RunID     string
	Severity  string
	Code      string
	Message   string
	Timestamp time.Time
}

// TelemetryStore persists render-run telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}
