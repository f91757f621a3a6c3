// Package main hosts the dupsweep CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, opens the SQLite store on
// demand and hands manifests to the detector. Extraction turns media files
// into manifests; analysis results are saved as runs that can be listed,
// shown and deleted later. Clip tags recorded with `dupsweep tag` protect
// clips from being reported.
//
// Keep this package lean: behaviour belongs in the internal packages, and
// commands here only translate flags and render output.
package main
