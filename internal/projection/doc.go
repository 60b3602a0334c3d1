// Package projection maps internal playback snapshots into the external
// session-protocol descriptor.
//
// Project and ProjectMetadata are pure: identical inputs always yield
// identical outputs, so the pipeline can recompute them on every admitted
// change. Device- and manufacturer-specific capability differences live in a
// data-driven profile rather than scattered conditionals, and the
// change-speed icon comes from a fixed bucket table over 0.1 speed
// increments.
package projection
