package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dupsweep/internal/timeline"
)

// Tag is a label attached to a clip id.
type Tag struct {
	ClipID    string    `json:"clipId"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"createdAt"`
}

func normalizeTag(clipID, tag string) (string, string, error) {
	clipID = strings.TrimSpace(clipID)
	tag = strings.ToLower(strings.TrimSpace(tag))
	if clipID == "" {
		return "", "", errors.New("clip id is required")
	}
	if tag == "" {
		return "", "", errors.New("tag is required")
	}
	return clipID, tag, nil
}

// AddTag attaches tag to clipID. Tags are stored lower-cased; adding an
// existing tag is a no-op.
func (s *Store) AddTag(ctx context.Context, clipID, tag string) error {
	clipID, tag, err := normalizeTag(clipID, tag)
	if err != nil {
		return fmt.Errorf("add tag: %w", err)
	}
	if _, err := s.execWithRetry(ctx,
		"INSERT OR IGNORE INTO clip_tags (clip_id, tag, created_at) VALUES (?, ?, ?)",
		clipID, tag, formatTime(time.Now()),
	); err != nil {
		return fmt.Errorf("add tag: %w", err)
	}
	return nil
}

// RemoveTag detaches tag from clipID, reporting whether it was present.
func (s *Store) RemoveTag(ctx context.Context, clipID, tag string) (bool, error) {
	clipID, tag, err := normalizeTag(clipID, tag)
	if err != nil {
		return false, fmt.Errorf("remove tag: %w", err)
	}
	res, err := s.execWithRetry(ctx, "DELETE FROM clip_tags WHERE clip_id = ? AND tag = ?", clipID, tag)
	if err != nil {
		return false, fmt.Errorf("remove tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove tag: %w", err)
	}
	return n > 0, nil
}

// ListTags returns tags for clipID, or for every clip when clipID is empty,
// ordered by clip then tag.
func (s *Store) ListTags(ctx context.Context, clipID string) ([]Tag, error) {
	ctx = ensureContext(ctx)
	query := "SELECT clip_id, tag, created_at FROM clip_tags"
	var args []any
	if id := strings.TrimSpace(clipID); id != "" {
		query += " WHERE clip_id = ?"
		args = append(args, id)
	}
	query += " ORDER BY clip_id, tag"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()
	var out []Tag
	for rows.Next() {
		var (
			tag     Tag
			created string
		)
		if err := rows.Scan(&tag.ClipID, &tag.Tag, &created); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tag.CreatedAt = parseTime(created)
		out = append(out, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

// IsPreserved reports whether clip carries a preserve or keep tag in the store.
func (s *Store) IsPreserved(ctx context.Context, clip timeline.ClipRef) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM clip_tags WHERE clip_id = ? AND tag IN (?, ?)",
			clip.ID, timeline.TagPreserve, timeline.TagKeep,
		).Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("check preserve tags for %s: %w", clip.ID, err)
	}
	return count > 0, nil
}

var _ timeline.TagChecker = (*Store)(nil)
