package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/campus-states/internal/model"
	"github.com/sells-group/campus-states/pkg/geocode"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS region_cache (
	query_hash   TEXT PRIMARY KEY,
	provider     TEXT NOT NULL,
	region       TEXT NOT NULL DEFAULT '',
	abbreviation TEXT NOT NULL DEFAULT '',
	matched      INTEGER NOT NULL DEFAULT 0,
	cached_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	variant     TEXT NOT NULL,
	input       TEXT NOT NULL,
	output      TEXT NOT NULL,
	stats       TEXT NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_region_cache_cached_at ON region_cache(cached_at);
CREATE INDEX IF NOT EXISTS idx_runs_variant ON runs(variant);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetRegion returns a cached lookup. Entries older than ttl are treated as
// misses; a zero ttl never expires.
func (s *SQLiteStore) GetRegion(ctx context.Context, key string, ttl time.Duration) (*geocode.CacheEntry, error) {
	query := `SELECT region, abbreviation, matched, cached_at FROM region_cache WHERE query_hash = ?`
	args := []any{key}
	if ttl > 0 {
		query += ` AND cached_at > ?`
		args = append(args, s.now().Add(-ttl).Unix())
	}

	var e geocode.CacheEntry
	var cachedAt int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&e.Region, &e.Abbreviation, &e.Matched, &cachedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get cached region")
	}
	e.CachedAt = time.Unix(cachedAt, 0).UTC()
	return &e, nil
}

func (s *SQLiteStore) PutRegion(ctx context.Context, key, provider string, entry geocode.CacheEntry) error {
	cachedAt := entry.CachedAt
	if cachedAt.IsZero() {
		cachedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO region_cache (query_hash, provider, region, abbreviation, matched, cached_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (query_hash) DO UPDATE SET
			provider = excluded.provider,
			region = excluded.region,
			abbreviation = excluded.abbreviation,
			matched = excluded.matched,
			cached_at = excluded.cached_at`,
		key, provider, entry.Region, entry.Abbreviation, entry.Matched, cachedAt.Unix(),
	)
	return eris.Wrap(err, "sqlite: put cached region")
}

func (s *SQLiteStore) DeleteExpiredRegions(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM region_cache WHERE cached_at <= ?`,
		s.now().Add(-ttl).Unix(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired regions")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// RecordRun inserts a finished run, assigning an ID when it has none.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *model.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	statsJSON, err := json.Marshal(run.Stats)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal stats")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, variant, input, output, stats, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Variant), run.Input, run.Output, string(statsJSON), run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, variant, input, output, stats, started_at, finished_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, variant, input, output, stats, started_at, finished_at FROM runs WHERE 1=1`
	var args []any

	if filter.Variant != "" {
		query += ` AND variant = ?`
		args = append(args, string(filter.Variant))
	}
	query += ` ORDER BY started_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var variant, statsJSON string

	err := row.Scan(&r.ID, &variant, &r.Input, &r.Output, &statsJSON, &r.StartedAt, &r.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	r.Variant = model.Variant(variant)

	if err := json.Unmarshal([]byte(statsJSON), &r.Stats); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal stats")
	}
	return &r, nil
}
