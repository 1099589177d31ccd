// Package sqlite is the index database's persistence layer: a thin
// *sql.DB wrapper plus hand-written SQL repositories, modeled on the
// teacher's internal/repository/sqlite query style (raw "?"-placeholder
// queries, integer POSIX-second timestamps, isUniqueViolation/isNoRows
// classification) but grounded on modernc.org/sqlite instead of
// Postgres, since serac's index is a single local embedded database
// (spec §4.3), never a second RDBMS.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/prn-tf/serac/internal/serac"
)

const schema = `
CREATE TABLE archived (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	hash TEXT NOT NULL,
	size INTEGER NOT NULL
);

CREATE TABLE files (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	path          TEXT NOT NULL,
	archived_id   INTEGER NOT NULL REFERENCES archived(id),
	action        INTEGER NOT NULL,
	last_modified INTEGER NOT NULL,
	owner         INTEGER NOT NULL,
	file_group    INTEGER NOT NULL,
	permissions   INTEGER NOT NULL
);

CREATE UNIQUE INDEX idx_files_path_last_modified ON files(path, last_modified);
CREATE INDEX idx_files_path ON files(path);
`

// DB wraps a *sql.DB handle to the index database. All writes are
// serialized within the owning process (spec §5): the engine opens
// exactly one DB per run.
type DB struct {
	*sql.DB
}

// Create initializes a brand new index database at path. Fails with
// serac.ErrDatabaseExists if a file already exists there.
func Create(ctx context.Context, path string) (*DB, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, serac.ErrDatabaseExists
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat index path: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		sqlDB.Close()
		os.Remove(path)
		return nil, fmt.Errorf("initialize index schema: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// Connect opens an existing index database at path. Fails with
// serac.ErrDatabaseMissing if the file does not exist (modernc.org/sqlite
// otherwise happily creates an empty file, which would silently violate
// this contract).
func Connect(ctx context.Context, path string) (*DB, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, serac.ErrDatabaseMissing
	} else if err != nil {
		return nil, fmt.Errorf("stat index path: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connect to index database: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// Disconnect closes the database cleanly.
func (db *DB) Disconnect() error {
	return db.Close()
}
