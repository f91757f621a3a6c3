// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size)
//
// Inspect executes ffprobe and returns the parsed Result; Parse decodes
// output captured elsewhere. Helper methods give duration, frame rate and
// stream filtering without callers touching the raw strings.
package ffprobe
