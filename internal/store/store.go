// Package store persists and retrieves the data the scan harness needs
// outside of the per-chunk event streams themselves: lightning strokes
// from the ground network database, and per-day scan completion
// bookkeeping. Both ride on a single SQLite database.
package store

import (
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

//go:embed migrations/*.sql
var migrationsFS embed.FS

// TimeFormat is the layout used for every timestamp column in this
// database: microsecond precision, sortable lexically, UTC throughout.
const TimeFormat = "2006-01-02 15:04:05.000000"

// DB wraps a SQLite connection opened against the scan harness's
// database file.
type DB struct {
	*sql.DB
}

// Open opens path, applying WAL-friendly PRAGMAs, and initializes the
// schema on a fresh database. It does not attempt version detection or
// baselining against pre-existing legacy databases: the scan harness
// owns its database file outright, so a fresh schema.sql run is always
// the right thing to do on first open.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := applyPragmas(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	db := &DB{sqlDB}

	var tableCount int
	err = sqlDB.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	`).Scan(&tableCount)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("count existing tables: %w", err)
	}

	if tableCount == 0 {
		if _, err := sqlDB.Exec(schemaSQL); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("initialize schema: %w", err)
		}
		if err := db.baselineMigrations(); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	return db, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}
	return nil
}
