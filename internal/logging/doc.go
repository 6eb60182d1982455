// Package logging builds the slog loggers used across discmapper and
// provides the shared attribute helpers and field name constants.
package logging
