package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dupsweep/internal/detector"
	"dupsweep/internal/timeline"
)

// ErrRunNotFound reports that no run matches an id or prefix.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRunID reports an id prefix matching more than one run.
var ErrAmbiguousRunID = errors.New("run id prefix is ambiguous")

// RunRecord is a saved analysis. Segments keep their emission order.
type RunRecord struct {
	ID           string                      `json:"id"`
	CreatedAt    time.Time                   `json:"createdAt"`
	ManifestPath string                      `json:"manifestPath,omitempty"`
	Sequence     string                      `json:"sequence,omitempty"`
	Options      detector.Options            `json:"options"`
	Stats        detector.Stats              `json:"stats"`
	Segments     []timeline.DuplicateSegment `json:"segments"`
}

// RunSummary is the listing form of a run, without segments.
type RunSummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	ManifestPath string    `json:"manifestPath,omitempty"`
	Sequence     string    `json:"sequence,omitempty"`
	PairCount    int       `json:"pairCount"`
}

// SaveRun stores a run and returns it with ID and CreatedAt assigned when they
// were empty.
func (s *Store) SaveRun(ctx context.Context, run RunRecord) (RunRecord, error) {
	ctx = ensureContext(ctx)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	optionsJSON, err := json.Marshal(run.Options)
	if err != nil {
		return RunRecord{}, fmt.Errorf("encode run options: %w", err)
	}
	statsJSON, err := json.Marshal(run.Stats)
	if err != nil {
		return RunRecord{}, fmt.Errorf("encode run stats: %w", err)
	}
	encoded := make([]string, len(run.Segments))
	for i, seg := range run.Segments {
		data, err := json.Marshal(seg)
		if err != nil {
			return RunRecord{}, fmt.Errorf("encode segment %d: %w", i, err)
		}
		encoded[i] = string(data)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, created_at, manifest_path, sequence, options_json, stats_json, pair_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, formatTime(run.CreatedAt), run.ManifestPath, run.Sequence,
			string(optionsJSON), string(statsJSON), len(run.Segments)/2,
		); err != nil {
			return err
		}
		for i, data := range encoded {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO run_segments (run_id, position, segment_json) VALUES (?, ?, ?)",
				run.ID, i, data,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return RunRecord{}, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

// ListRuns returns the newest runs first. A limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	ctx = ensureContext(ctx)
	query := "SELECT id, created_at, manifest_path, sequence, pair_count FROM runs ORDER BY created_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			summary  RunSummary
			created  string
			manifest sql.NullString
			sequence sql.NullString
		)
		if err := rows.Scan(&summary.ID, &created, &manifest, &sequence, &summary.PairCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		summary.CreatedAt = parseTime(created)
		summary.ManifestPath = manifest.String
		summary.Sequence = sequence.String
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}

// GetRun loads a run with its segments. A missing run returns nil, nil.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	ctx = ensureContext(ctx)
	var (
		run         RunRecord
		created     string
		manifest    sql.NullString
		sequence    sql.NullString
		optionsJSON string
		statsJSON   string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, created_at, manifest_path, sequence, options_json, stats_json FROM runs WHERE id = ?", id,
	).Scan(&run.ID, &created, &manifest, &sequence, &optionsJSON, &statsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	run.CreatedAt = parseTime(created)
	run.ManifestPath = manifest.String
	run.Sequence = sequence.String
	if err := json.Unmarshal([]byte(optionsJSON), &run.Options); err != nil {
		return nil, fmt.Errorf("decode run options: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &run.Stats); err != nil {
		return nil, fmt.Errorf("decode run stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT segment_json FROM run_segments WHERE run_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("load run segments: %w", err)
	}
	defer rows.Close()
	run.Segments = []timeline.DuplicateSegment{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		var seg timeline.DuplicateSegment
		if err := json.Unmarshal([]byte(data), &seg); err != nil {
			return nil, fmt.Errorf("decode segment: %w", err)
		}
		run.Segments = append(run.Segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load run segments: %w", err)
	}
	return &run, nil
}

// ResolveRunID expands an id prefix to the full id of exactly one run.
func (s *Store) ResolveRunID(ctx context.Context, prefix string) (string, error) {
	ctx = ensureContext(ctx)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrRunNotFound
	}
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(prefix)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`, prefix, escaped+"%")
	if err != nil {
		return "", fmt.Errorf("resolve run id: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve run id: %w", err)
		}
		if id == prefix {
			return id, nil
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve run id: %w", err)
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousRunID, prefix)
	}
}

// DeleteRun removes a run and its segments, reporting whether it existed.
func (s *Store) DeleteRun(ctx context.Context, id string) (bool, error) {
	ctx = ensureContext(ctx)
	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM run_segments WHERE run_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete run %s: %w", id, err)
	}
	return deleted, nil
}
