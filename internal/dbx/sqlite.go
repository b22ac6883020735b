package dbx

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteDSN builds a modernc.org/sqlite DSN for path with WAL journaling,
// a busy timeout and foreign keys enabled.
func SQLiteDSN(path string, busy time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()))
	q.Add("_pragma", "foreign_keys(1)")
	if path == MemoryPath {
		return "file::memory:?" + q.Encode()
	}
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

// OpenSQLite opens (creating parent directories if needed) the SQLite file
// at path and verifies the connection. The pool is limited to one
// connection: SQLite serialises writers anyway and an in-memory database
// only exists on a single connection.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
			return nil, fmt.Errorf("mkdir for %s: %w", path, err)
		}
	}

	db, err := sqlx.Open("sqlite", SQLiteDSN(path, 5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	return db, nil
}
