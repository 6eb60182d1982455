// Package classify matches ripped title files to the deliverables a disc is
// expected to contain, using duration evidence only.
//
// The flow for a TV disc: TypicalDuration derives a robust per-episode
// runtime from the measured files, BuildWindows converts each episode's
// declared runtime range (when present) plus the typical runtime into an
// acceptance window, and MatchSequence computes the cheapest order-preserving
// assignment of files to episodes, skipping junk titles at a cost. Movie
// discs use SelectKeeper instead, which clusters feature-length titles by
// duration and either auto-picks the main cut or reports ambiguity.
package classify
