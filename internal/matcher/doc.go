// Package matcher pairs up frames from different clips whose similarity
// clears a threshold.
//
// Frames are grouped by clip first; every unordered pair of distinct clips
// is compared all-pairs. A clip is never compared against itself.
package matcher
