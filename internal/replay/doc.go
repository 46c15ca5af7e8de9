// Package replay drives a recorded event stream through the session state
// machines and emits one composited frame per tick of the frame clock.
//
// The applier owns event dispatch: each journal event mutates exactly one of
// the board, viewport, or cursor trackers. The scheduler owns the two
// clocks: the event clock advances through the recorded stream while the
// frame clock produces presentation timestamps at a fixed rate. Every event
// whose timestamp is at or before a frame's timestamp is applied exactly
// once before that frame is composited, which makes the output a pure
// function of the journal.
package replay
