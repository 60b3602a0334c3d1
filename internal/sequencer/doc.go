// Package sequencer provides the bounded, ordered execution queue that
// serializes control commands against the playback engine.
//
// Submit never blocks the caller; a single worker drains commands strictly in
// submission order and awaits each one before starting the next, so
// conflicting commands from concurrent sources can never interleave. When the
// queue is full the newest submission is dropped and reported through the
// diagnostics logger.
package sequencer
