// Package mediakeys converts raw media-button presses into single, double, or
// triple tap intents.
//
// Presses arriving within the timeout window extend the current cluster; a
// cluster resolves when the window expires or the press cap is reached, and
// emits exactly one intent to the most recent caller. All state transitions
// are serialized behind one mutex with a generation counter, so an expiring
// timer and a new press have exactly one deterministic winner.
package mediakeys
