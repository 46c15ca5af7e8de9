// Package telemetry records operational anomalies observed during replay.
package telemetry

import (
	"context"
	"log"
	"time"

	"github.com/slidereel/slidereel/internal/storage"
)

// Severity classifies a telemetry event.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Emitter records operational telemetry events for one render run.
type Emitter struct {
	runID string
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates a telemetry emitter for a run. A nil store degrades to
// log-only emission.
func NewEmitter(runID string, store storage.TelemetryStore) *Emitter {
	return &Emitter{runID: runID, store: store, clock: time.Now}
}

// Emit records a telemetry event. Storage failures are logged rather than
// propagated; telemetry must never abort a replay.
func (e *Emitter) Emit(ctx context.Context, severity Severity, code, message string) {
	if e == nil {
		return
	}
	log.Printf("[%s] %s: %s", severity, code, message)
	if e.store == nil {
		return
	}
	evt := storage.TelemetryEvent{
		RunID:    e.runID,
		Severity: string(severity),
		Code:     code,
		Message:  message,
	}
	if e.clock != nil {
		evt.Timestamp = e.clock().UTC()
	} else {
		evt.Timestamp = time.Now().UTC()
	}
	if err := e.store.AppendTelemetryEvent(ctx, evt); err != nil {
		log.Printf("append telemetry event: %v", err)
	}
}
