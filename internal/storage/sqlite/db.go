// Package sqlite implements the read-only data stores over local SQLite
// files. Every handle is opened in read-only mode at startup and closed
// on shutdown; no query in this package writes.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenReadOnly opens a SQLite database file in read-only mode and
// verifies it is reachable. The caller owns the handle and must close it.
func OpenReadOnly(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_time_format=sqlite", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}

	// modernc.org/sqlite serializes writes through a single connection;
	// reads are safe to run concurrently on a small pool.
	db.SetMaxOpenConns(4)

	return db, nil
}

// buildPlaceholders returns "?, ?, ..." for n parameters.
func buildPlaceholders(n int) string {
	if n == 0 {
		return ""
	}
	b := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		b = append(b, '?')
	}
	return string(b)
}
