package grepcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Registers the pure Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS digests (
    cwd          TEXT NOT NULL,
    command      TEXT NOT NULL,
    total        INTEGER NOT NULL,
    cached_path  TEXT NOT NULL,
    refreshed_at INTEGER NOT NULL,
    PRIMARY KEY (cwd, command)
);
`

// Digest describes one cached search index.
type Digest struct {
	// Cwd is the directory the search ran in.
	Cwd string

	// Command is the shell command that produced the index.
	Command string

	// Total is the number of result lines.
	Total int

	// CachedPath is the file holding the results.
	CachedPath string

	// RefreshedAt is when the index was last written.
	RefreshedAt time.Time
}

// Store persists digests in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the database at path. ":memory:" gives a
// private in-memory store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open digest store: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init digest store: %w", err)
	}

	return &Store{db: db}, nil
}

// Put inserts or replaces the digest for d.Cwd and d.Command.
func (s *Store) Put(ctx context.Context, d Digest) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO digests (cwd, command, total, cached_path, refreshed_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (cwd, command) DO UPDATE SET
    total = excluded.total,
    cached_path = excluded.cached_path,
    refreshed_at = excluded.refreshed_at`,
		d.Cwd, d.Command, d.Total, d.CachedPath, d.RefreshedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("put digest for %s: %w", d.Cwd, err)
	}
	return nil
}

// Get returns the digest for cwd and command. It reports false when none
// was stored.
func (s *Store) Get(ctx context.Context, cwd, command string) (Digest, bool, error) {
	var (
		d  = Digest{Cwd: cwd, Command: command}
		ns int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT total, cached_path, refreshed_at FROM digests WHERE cwd = ? AND command = ?`,
		cwd, command,
	).Scan(&d.Total, &d.CachedPath, &ns)
	if errors.Is(err, sql.ErrNoRows) {
		return Digest{}, false, nil
	}
	if err != nil {
		return Digest{}, false, fmt.Errorf("get digest for %s: %w", cwd, err)
	}

	d.RefreshedAt = time.Unix(0, ns)
	return d, true, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
