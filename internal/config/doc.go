// Package config loads, normalizes, and validates dupsweep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DUPSWEEP_FFMPEG. The Config type centralizes the analysis defaults, the
// extraction tool settings, and the state/cache directories so the CLI can
// discover everything in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
