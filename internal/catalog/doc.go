// Package catalog persists the podcast library in SQLite and answers the
// lookups the bridge needs: episode resolution for the state pipeline,
// title and full-text matching for voice search, latest-unfinished
// resolution for podcast playback, and the star/archive/mark-played
// mutations behind the custom media actions.
//
// The database is owned by podbridge; the playback engine and CLI share it
// through this package. Schema changes bump schemaVersion in schema.go.
package catalog
