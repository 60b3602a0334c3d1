// Package pipeline drives the one-way flow from engine snapshots to
// session-protocol publications.
//
// A single goroutine drains the engine subscription, drops low-signal
// repeats, resolves the current episode against the library, projects the
// descriptor and now-playing record, and publishes them with bounded
// retries. Publication failures never stop the flow; the next snapshot gets
// a fresh attempt.
package pipeline
