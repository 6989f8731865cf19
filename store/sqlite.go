package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"github.com/arloliu/voxsec/section"
)

// SQLiteStore keeps records in one SQLite table.
//
// The database runs with a single connection in WAL mode; SQLite serializes writers
// anyway, and one connection avoids busy errors between them.
type SQLiteStore struct {
	db   *sql.DB
	once sync.Once

	closed atomic.Bool
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database at path, creating parent directories.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS sections (
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		z INTEGER NOT NULL,
		blob BLOB NOT NULL,
		PRIMARY KEY (x, y, z)
	);`)

	return err
}

func (s *SQLiteStore) Put(ctx context.Context, pos section.Pos, blob []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sections (x, y, z, blob) VALUES (?, ?, ?, ?)
		 ON CONFLICT (x, y, z) DO UPDATE SET blob = excluded.blob`,
		pos.X, pos.Y, pos.Z, blob)

	return err
}

func (s *SQLiteStore) Get(ctx context.Context, pos section.Pos) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT blob FROM sections WHERE x = ? AND y = ? AND z = ?`,
		pos.X, pos.Y, pos.Z).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return blob, nil
}

// Delete removes the record at pos. Deleting a missing record is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, pos section.Pos) error {
	if s.closed.Load() {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sections WHERE x = ? AND y = ? AND z = ?`,
		pos.X, pos.Y, pos.Z)

	return err
}

func (s *SQLiteStore) Positions(ctx context.Context) ([]section.Pos, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `SELECT x, y, z FROM sections ORDER BY x, y, z`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []section.Pos
	for rows.Next() {
		var p section.Pos
		if err := rows.Scan(&p.X, &p.Y, &p.Z); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		err = s.db.Close()
	})

	return err
}

