// Package audio chooses which audio stream of a clip represents its
// programme sound for waveform comparison.
//
// Commentary and audio-description tracks are skipped when anything else is
// available; among the rest the default-flagged stream wins, then the one
// with the most channels, then container order.
package audio
