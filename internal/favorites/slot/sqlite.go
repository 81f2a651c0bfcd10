package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/pkg/database"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv_slots (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteSlot stores slot values in a SQLite key-value table
type SQLiteSlot struct {
	db *sql.DB
}

// OpenSQLite opens the SQLite file at path and prepares the slot table
func OpenSQLite(path string) (*SQLiteSlot, error) {
	db, err := database.NewSQLiteConnection(database.Config{Path: path})
	if err != nil {
		return nil, err
	}
	s, err := NewSQLiteSlot(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteSlot wraps an open database. The slot takes ownership of db.
func NewSQLiteSlot(db *sql.DB) (*SQLiteSlot, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("create kv_slots table: %w", err)
	}
	return &SQLiteSlot{db: db}, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readValue(ctx context.Context, q queryer, key string) ([]byte, bool, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SQLiteSlot) Read(ctx context.Context, key string) ([]byte, bool, error) {
	return readValue(ctx, s.db, key)
}

const upsertValue = `
INSERT INTO kv_slots (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`

func (s *SQLiteSlot) Write(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, upsertValue, key, string(value))
	return err
}

// Update runs fn inside BEGIN IMMEDIATE, which takes the database write lock
// before the read so no other connection can commit in between.
func (s *SQLiteSlot) Update(ctx context.Context, key string, fn domain.UpdateFunc) (err error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_, _ = conn.ExecContext(context.WithoutCancel(ctx), "ROLLBACK")
		}
	}()

	current, found, err := readValue(ctx, conn, key)
	if err != nil {
		return &domain.StorageReadError{Key: key, Err: err}
	}

	next, err := fn(current, found)
	if err != nil {
		return err
	}

	if _, err = conn.ExecContext(ctx, upsertValue, key, string(next)); err != nil {
		return err
	}
	if _, err = conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
