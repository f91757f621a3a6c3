// Package store persists analysis runs and clip preserve tags in SQLite.
//
// A run records the manifest it analysed, the options in force, per-stage
// statistics and the surviving duplicate segments in emission order. Tags are
// free-form labels attached to clip ids; "preserve" and "keep" make a clip
// exempt from duplicate reporting, so the Store satisfies timeline.TagChecker.
//
// Schema changes bump the version in schema.go; users delete the database to
// adopt the new schema.
package store
