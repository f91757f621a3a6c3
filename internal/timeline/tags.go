package timeline

import (
	"context"
	"strings"
)

// Tags that mark a clip as one the editor wants to keep.
const (
	TagPreserve = "preserve"
	TagKeep     = "keep"
)

// TagChecker reports whether a clip carries a preserve/keep tag.
type TagChecker interface {
	IsPreserved(ctx context.Context, clip ClipRef) (bool, error)
}

// TagCheckerFunc adapts a function to TagChecker.
type TagCheckerFunc func(ctx context.Context, clip ClipRef) (bool, error)

func (f TagCheckerFunc) IsPreserved(ctx context.Context, clip ClipRef) (bool, error) {
	return f(ctx, clip)
}

// IsPreserveTag reports whether tag is one of the recognized preserve tags.
func IsPreserveTag(tag string) bool {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case TagPreserve, TagKeep:
		return true
	default:
		return false
	}
}

// ManifestTags checks the tags embedded in manifest clip references. Clips
// are looked up by id so segment-side copies without tags still resolve.
type ManifestTags struct {
	clips map[string]ClipRef
}

// NewManifestTags indexes the given clips.
func NewManifestTags(clips []ClipRef) *ManifestTags {
	index := make(map[string]ClipRef, len(clips))
	for _, clip := range clips {
		index[clip.ID] = clip
	}
	return &ManifestTags{clips: index}
}

func (m *ManifestTags) IsPreserved(_ context.Context, clip ClipRef) (bool, error) {
	tags := clip.Tags
	if known, ok := m.clips[clip.ID]; ok {
		tags = append(append([]string(nil), tags...), known.Tags...)
	}
	for _, tag := range tags {
		if IsPreserveTag(tag) {
			return true, nil
		}
	}
	return false, nil
}

type anyTagChecker []TagChecker

// AnyTagChecker reports a clip preserved when any non-nil checker does.
func AnyTagChecker(checkers ...TagChecker) TagChecker {
	out := make(anyTagChecker, 0, len(checkers))
	for _, c := range checkers {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (a anyTagChecker) IsPreserved(ctx context.Context, clip ClipRef) (bool, error) {
	for _, checker := range a {
		ok, err := checker.IsPreserved(ctx, clip)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
