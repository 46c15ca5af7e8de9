// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Event errors
	CodeEventUnknownType    Code = "EVENT_UNKNOWN_TYPE"
	CodeEventInvalidPayload Code = "EVENT_INVALID_PAYLOAD"

	// Shape errors
	CodeShapeNotFound      Code = "SHAPE_NOT_FOUND"
	CodeShapeInvalidKind   Code = "SHAPE_INVALID_KIND"
	CodeShapeEmptyID       Code = "SHAPE_EMPTY_ID"
	CodeShapeNotFreehand   Code = "SHAPE_NOT_FREEHAND"
	CodeShapeNotParametric Code = "SHAPE_NOT_PARAMETRIC"
	CodeShapeNotText       Code = "SHAPE_NOT_TEXT"

	// Undo/redo history errors
	CodeHistoryUserNotFound Code = "HISTORY_USER_NOT_FOUND"
	CodeHistoryEmptyUndo    Code = "HISTORY_EMPTY_UNDO"
	CodeHistoryEmptyRedo    Code = "HISTORY_EMPTY_REDO"

	// Replay errors
	CodeReplayNegativeDuration Code = "REPLAY_NEGATIVE_DURATION"
	CodeReplayInvalidFrameRate Code = "REPLAY_INVALID_FRAME_RATE"
	CodeReplayClockRegression  Code = "REPLAY_CLOCK_REGRESSION"

	// Compositor errors
	CodeSlideDecodeFailed Code = "SLIDE_DECODE_FAILED"
	CodeFontLoadFailed    Code = "FONT_LOAD_FAILED"

	// Encoder errors
	CodeEncoderSinkFailed      Code = "ENCODER_SINK_FAILED"
	CodeEncoderFrameOutOfOrder Code = "ENCODER_FRAME_OUT_OF_ORDER"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Recoverable reports whether the code marks a condition replay is allowed
// to continue past. Every other code aborts the run.
func (c Code) Recoverable() bool {
	switch c {
	case CodeEventUnknownType,
		CodeEventInvalidPayload,
		CodeShapeNotFound,
		CodeShapeNotFreehand,
		CodeShapeNotParametric,
		CodeShapeNotText,
		CodeHistoryUserNotFound,
		CodeHistoryEmptyUndo,
		CodeHistoryEmptyRedo:
		return true
	default:
		return false
	}
}
