// Package protocol models the external session-protocol surface: the
// published playback descriptor, now-playing metadata, queue items, and the
// Sink interface consumed by the state change pipeline.
//
// Descriptors are disposable projections; nothing in this package retains one
// beyond the latest value held by SessionState for status queries.
package protocol
