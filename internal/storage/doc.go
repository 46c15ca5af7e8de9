// Package storage defines the persistence interfaces for slidereel.
//
// It abstracts the recorded event journal a render run replays from, the
// recording metadata describing that run, and the render log that collects
// recoverable replay anomalies. The SQLite implementation of these
// interfaces lives in the sqlite subpackage.
package storage
