// Package timeline models the editing timeline that duplicate detection reads.
//
// The types here are supplied by an external collaborator (an editor bridge
// or the extract command) and are treated as read-only by the detection
// core:
//   - Frame: a timestamped feature sample (luminance histogram, optional motion)
//   - ClipRef: identity and bounds of one clip on a track
//   - AudioTrack: mono waveform samples for a clip
//   - Manifest: the JSON document that bundles all of the above
//
// TagChecker answers whether a clip is marked to be preserved, which lets the
// detector skip clips the editor asked to keep.
package timeline
