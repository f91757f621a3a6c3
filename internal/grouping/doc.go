// Package grouping folds frame matches into duplicate segments.
//
// Matches are ordered by the time of their first frame and merged into a run
// while consecutive matches stay within MaxGapSeconds of each other on both
// sides and reference the same clip pair. Runs of at least MinSegmentMatches
// are emitted as an original/duplicate segment pair; shorter runs are noise
// and are dropped silently.
package grouping
