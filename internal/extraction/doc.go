// Package extraction turns media files into the frame and waveform features
// the detector compares.
//
// FFmpegExtractor probes each file with ffprobe, decodes downscaled
// grayscale frames and mono PCM with ffmpeg, and derives luminance
// histograms and coarse motion vectors from the raw pixels. Results are
// optionally memoized in a featurecache.Cache. BuildManifest lays a list of
// files end to end on a single track and assembles a timeline.Manifest the
// analyze command can consume.
package extraction
