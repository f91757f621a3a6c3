// Package featurecache persists extracted clip features on disk so repeated
// extraction of unchanged media skips ffmpeg entirely.
//
// Entries are JSON files named by an xxhash digest of the media identity and
// the extraction parameters. A gofrs/flock lock file serializes writers
// across processes; an empty directory disables the cache.
package featurecache
