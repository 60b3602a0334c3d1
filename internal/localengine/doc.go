// Package localengine is a reference playback engine backed by the catalog.
//
// It keeps no audio pipeline: a ticker advances the play head at the current
// speed and persists progress, which is enough to exercise the bridge end to
// end. Position, queue, and speed transitions emit the same snapshots a real
// engine would.
package localengine
