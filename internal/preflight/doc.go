// Package preflight provides readiness checks for the filesystem paths and
// external tools dupsweep depends on.
//
// The CLI "dupsweep doctor" command runs RunAll and renders the results;
// "dupsweep extract" runs the tool checks before decoding anything so a
// missing ffmpeg fails fast with a clear message.
package preflight
