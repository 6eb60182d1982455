// Package config loads, normalizes, and validates the discmapper
// configuration file. The resulting Config is immutable after Load and is
// passed explicitly to every component that needs it.
package config
