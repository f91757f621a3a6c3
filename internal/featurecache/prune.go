package featurecache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"dupsweep/internal/logging"
)

// PruneResult contains the outcome of a Prune call.
type PruneResult struct {
	Removed []string
	Errors  []PruneError
}

// PruneError pairs an entry path with its removal error.
type PruneError struct {
	Path  string
	Error error
}

// Prune removes entries last written more than maxAge ago.
func (c *Cache) Prune(maxAge time.Duration) PruneResult {
	result := PruneResult{}
	if !c.Enabled() {
		return result
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			result.Errors = append(result.Errors, PruneError{Path: c.dir, Error: err})
		}
		return result
	}
	if err := c.lock.Lock(); err != nil {
		result.Errors = append(result.Errors, PruneError{Path: c.lock.Path(), Error: err})
		return result
	}
	defer func() { _ = c.lock.Unlock() }()

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, PruneError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, PruneError{Path: path, Error: err})
			c.logger.Warn("failed to remove stale cache entry",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "feature_cache_prune_failed"),
				logging.String(logging.FieldErrorHint, "check cache_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		c.logger.Debug("removed stale cache entry",
			logging.String("path", path),
			logging.Duration("age", time.Since(info.ModTime())),
		)
	}
	return result
}
