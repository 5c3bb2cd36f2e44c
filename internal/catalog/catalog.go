// Package catalog keeps a small SQLite index of the curriculum files that
// have been downloaded: which program codes exist, where the file lives, how
// many courses it holds and which scrape run fetched it.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned by Get for an unknown code.
var ErrNotFound = errors.New("curriculum not found in catalog")

const schema = `
CREATE TABLE IF NOT EXISTS curricula (
	code         TEXT PRIMARY KEY,
	path         TEXT NOT NULL,
	course_count INTEGER NOT NULL,
	run_id       TEXT NOT NULL,
	fetched_at   TEXT NOT NULL
);
`

// Entry is one indexed curriculum file.
type Entry struct {
	Code        string
	Path        string
	CourseCount int
	RunID       string
	FetchedAt   time.Time
}

// Store is the SQLite-backed catalog.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database at path. The special path
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := "file::memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create catalog dir: %w", err)
			}
		}
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	// Scrape workers record concurrently; one connection serialises writes
	// and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate catalog db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts or replaces the entry for e.Code.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO curricula (code, path, course_count, run_id, fetched_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET path = excluded.path, course_count = excluded.course_count,
		 run_id = excluded.run_id, fetched_at = excluded.fetched_at`,
		e.Code, e.Path, e.CourseCount, e.RunID, e.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record curriculum %s: %w", e.Code, err)
	}
	return nil
}

// Get returns the entry for code, or ErrNotFound.
func (s *Store) Get(ctx context.Context, code string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT code, path, course_count, run_id, fetched_at FROM curricula WHERE code = ?`, code)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get curriculum %s: %w", code, err)
	}
	return e, nil
}

// List returns all entries ordered by code.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, path, course_count, run_id, fetched_at FROM curricula ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list curricula: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan curriculum: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var (
		e         Entry
		fetchedAt string
	)
	if err := sc.Scan(&e.Code, &e.Path, &e.CourseCount, &e.RunID, &fetchedAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parse fetched_at %q: %w", fetchedAt, err)
	}
	e.FetchedAt = t
	return &e, nil
}
