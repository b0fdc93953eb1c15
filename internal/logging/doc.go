// Package logging assembles structured slog loggers used across zobioscan.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and standardizes the attribute keys scan code tags log lines with
// (operation, project, barcode, slot). The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
