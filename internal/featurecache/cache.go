package featurecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"

	"dupsweep/internal/fileutil"
	"dupsweep/internal/logging"
	"dupsweep/internal/timeline"
)

const lockFileName = ".lock"

// KeyInput identifies one extraction of one media file.
type KeyInput struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Interval float64
	Bins     int
	Width    int
	Height   int
	Audio    bool
}

// Key returns the cache key for the given extraction parameters.
func Key(in KeyInput) string {
	parts := []string{
		in.Path,
		strconv.FormatInt(in.Size, 10),
		strconv.FormatInt(in.ModTime.UnixNano(), 10),
		strconv.FormatFloat(in.Interval, 'g', -1, 64),
		strconv.Itoa(in.Bins),
		strconv.Itoa(in.Width),
		strconv.Itoa(in.Height),
		strconv.FormatBool(in.Audio),
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(parts, "|")))
}

// KeyForFile stats path and builds its key.
func KeyForFile(path string, interval float64, bins, width, height int, audio bool) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat media: %w", err)
	}
	return Key(KeyInput{
		Path:     path,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Interval: interval,
		Bins:     bins,
		Width:    width,
		Height:   height,
		Audio:    audio,
	}), nil
}

type entry struct {
	Key      string                `json:"key"`
	CachedAt time.Time             `json:"cached_at"`
	Features timeline.ClipFeatures `json:"features"`
}

// Cache stores ClipFeatures under dir.
type Cache struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
	lock   *flock.Flock
}

// New creates a cache rooted at dir. If dir is empty, the cache is
// non-functional and every operation is a no-op.
func New(dir string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Cache{
		dir:    strings.TrimSpace(dir),
		logger: logging.NewComponentLogger(logger, "featurecache"),
	}
	if c.dir != "" {
		c.lock = flock.New(filepath.Join(c.dir, lockFileName))
	}
	return c
}

// Enabled reports whether a directory is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.dir != ""
}

// Dir returns the configured directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Load returns the features cached under key. Unreadable entries count as
// misses.
func (c *Cache) Load(key string) (timeline.ClipFeatures, bool) {
	key = strings.TrimSpace(key)
	if !c.Enabled() || key == "" {
		return timeline.ClipFeatures{}, false
	}

	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(c.logger, "failed to read feature cache entry", "feature_cache_read_failed",
				logging.String("key", key),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check cache_dir permissions"),
				logging.String(logging.FieldImpact, "features will be re-extracted"))
		}
		return timeline.ClipFeatures{}, false
	}

	var cached entry
	if err := json.Unmarshal(data, &cached); err != nil || cached.Key != key {
		logging.WarnWithContext(c.logger, "discarding corrupt feature cache entry", "feature_cache_corrupt",
			logging.String("key", key),
			logging.String(logging.FieldErrorHint, "the entry will be rewritten on next extraction"),
			logging.String(logging.FieldImpact, "features will be re-extracted"))
		return timeline.ClipFeatures{}, false
	}

	c.logger.Debug("feature cache hit", logging.String("key", key), logging.String(logging.FieldClipID, cached.Features.ClipID))
	return cached.Features, true
}

// Store writes features under key, replacing any previous entry.
func (c *Cache) Store(key string, features timeline.ClipFeatures) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(entry{Key: key, CachedAt: time.Now().UTC(), Features: features})
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	defer func() {
		if err := c.lock.Unlock(); err != nil {
			c.logger.Warn("failed to release cache lock", logging.Error(err))
		}
	}()

	if err := fileutil.WriteFileAtomic(c.entryPath(key), data, 0o644); err != nil {
		return fmt.Errorf("persist features: %w", err)
	}

	c.logger.Debug("cached clip features",
		logging.String("key", key),
		logging.String(logging.FieldClipID, features.ClipID),
		logging.Int("frames", len(features.Frames)))
	return nil
}

// Clear removes every cached entry and returns how many were deleted.
func (c *Cache) Clear() (int, error) {
	if !c.Enabled() {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache directory: %w", err)
	}
	if err := c.lock.Lock(); err != nil {
		return 0, fmt.Errorf("acquire cache lock: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	removed := 0
	for _, item := range entries {
		if item.IsDir() || filepath.Ext(item.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, item.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove %s: %w", item.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}
