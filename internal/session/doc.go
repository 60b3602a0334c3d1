// Package session is the inbound half of the bridge: it accepts control
// callbacks from the session-protocol consumer and turns them into engine
// and catalog operations.
//
// Engine-facing commands go through the sequencer so at most one runs at a
// time in arrival order. Catalog writes and speed changes run directly, the
// way a consumer expects an immediate acknowledgement, and nudge the
// pipeline to republish so the advertised controls reflect the new state.
package session
