package timeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dupsweep/internal/fileutil"
)

// ErrNoActiveSequence reports a manifest without any clips.
var ErrNoActiveSequence = errors.New("no active sequence found")

// Manifest bundles everything the detector needs about one sequence.
type Manifest struct {
	Sequence         string       `json:"sequence"`
	CreatedAt        time.Time    `json:"createdAt"`
	SamplingInterval float64      `json:"samplingInterval,omitempty"`
	Clips            []ClipRef    `json:"clips"`
	Frames           []Frame      `json:"frames"`
	Audio            []AudioTrack `json:"audio,omitempty"`
}

// ManifestError describes a structural problem in a manifest.
type ManifestError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ManifestError) Error() string {
	if e.Field == "" {
		return "manifest: " + e.Reason
	}
	return fmt.Sprintf("manifest: %s: %s", e.Field, e.Reason)
}

func (e *ManifestError) Unwrap() error { return e.Err }

// LoadManifest reads and decodes a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("load manifest: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()
	return ReadManifest(file)
}

// ReadManifest decodes a manifest from r.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// WriteManifest encodes m as indented JSON to path, creating parent directories.
func WriteManifest(path string, m *Manifest) error {
	if m == nil {
		return errors.New("write manifest: nil manifest")
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ClipIndex maps clip ids to their references.
func (m *Manifest) ClipIndex() map[string]ClipRef {
	if m == nil {
		return nil
	}
	index := make(map[string]ClipRef, len(m.Clips))
	for _, clip := range m.Clips {
		index[clip.ID] = clip
	}
	return index
}

// Validate checks that clips are uniquely identified and every frame and
// audio track points at a known clip.
func (m *Manifest) Validate() error {
	if m == nil || len(m.Clips) == 0 {
		return &ManifestError{Field: "clips", Reason: ErrNoActiveSequence.Error(), Err: ErrNoActiveSequence}
	}
	seen := make(map[string]struct{}, len(m.Clips))
	for i, clip := range m.Clips {
		id := clip.ID
		if strings.TrimSpace(id) == "" {
			return &ManifestError{Field: fmt.Sprintf("clips[%d].id", i), Reason: "must be set"}
		}
		if _, dup := seen[id]; dup {
			return &ManifestError{Field: fmt.Sprintf("clips[%d].id", i), Reason: fmt.Sprintf("duplicate clip id %q", id)}
		}
		seen[id] = struct{}{}
	}
	for i, frame := range m.Frames {
		if _, ok := seen[frame.ClipID]; !ok {
			return &ManifestError{Field: fmt.Sprintf("frames[%d].clipId", i), Reason: fmt.Sprintf("unknown clip %q", frame.ClipID)}
		}
	}
	for i, track := range m.Audio {
		if _, ok := seen[track.ClipID]; !ok {
			return &ManifestError{Field: fmt.Sprintf("audio[%d].clipId", i), Reason: fmt.Sprintf("unknown clip %q", track.ClipID)}
		}
	}
	return nil
}
