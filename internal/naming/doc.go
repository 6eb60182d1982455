// Package naming builds the library-facing folder and file names for
// finished deliverables. All names pass through Windows-safe character
// sanitization because the staging tree is commonly exported over SMB.
package naming
