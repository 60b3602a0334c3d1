// Package logging assembles the structured slog loggers used across podbridge.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes typed attribute helpers plus standardized field-name constants so
// every component emits diagnostics with the same shape. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// The diagnostics sink the session bridge reports into (queue overflow notices,
// publish retry exhaustion) is a logger built here; prefer these constructors
// over hand-rolled slog setup.
package logging
