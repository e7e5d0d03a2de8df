// Package session persists small per-user browsing state across launches:
// the list scroll offset and the last address.
//
// It is best effort. Callers should treat read errors as "nothing stored".
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const (
	keyScrollOffset = "scroll_offset"
	keyLastQuery    = "last_query"
)

const opTimeout = 2 * time.Second

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the session database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The TUI and a concurrent CLI invocation may share the file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("session: %s: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS session (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session: migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM session WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Store) set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `INSERT INTO session (k, v, updated_at_unixms) VALUES (?, ?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at_unixms = excluded.updated_at_unixms`,
		key, value, s.now().UnixMilli())
	return err
}

// ScrollOffset returns the saved list offset, if any.
func (s *Store) ScrollOffset() (int, bool, error) {
	v, ok, err := s.get(keyScrollOffset)
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		// Corrupt value: behave as if nothing was stored.
		return 0, false, nil
	}
	return n, true, nil
}

func (s *Store) SetScrollOffset(offset int) error {
	if offset < 0 {
		offset = 0
	}
	return s.set(keyScrollOffset, strconv.Itoa(offset))
}

// LastQuery returns the last committed address ("" when none).
func (s *Store) LastQuery() (string, error) {
	v, _, err := s.get(keyLastQuery)
	return v, err
}

func (s *Store) SetLastQuery(q string) error {
	return s.set(keyLastQuery, q)
}
