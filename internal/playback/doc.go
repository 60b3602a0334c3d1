// Package playback defines the playback engine surface the bridge consumes:
// immutable state snapshots tagged with a change reason, the episode variants
// shared with the catalog, and the Engine interface covering the asynchronous
// control operations.
//
// The bridge never mutates playback state directly; it only issues Engine
// calls and observes the snapshot stream. Engine implementations must deliver
// a fresh Snapshot on every observable change and never mutate one after
// publication.
package playback
