// Package audiorefine confirms or rejects visual duplicate pairs by
// cross-correlating the audio under each side.
//
// Each pair's waveform slices are cut from the clip's audio track by
// proportional index mapping, the longer slice is downsampled to the shorter
// length, and the normalized cross-correlation decides acceptance. Accepted
// pairs have their similarity re-weighted toward the audio score; rejected
// pairs are dropped as a unit. Pairs without audio on both sides pass
// through untouched.
package audiorefine
