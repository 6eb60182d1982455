// Package manifest ingests the two spreadsheets that drive capture runs:
// the hand-maintained TV manifest (one row per expected episode) and the
// collection-manager movie export (one row per owned disc). Both arrive as
// CSV with loosely standardized headers, so parsing is tolerant about
// header variants and sloppy cell values.
package manifest
