package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database and pings it.
func Open(ctx context.Context, dialect, source string) (*sql.DB, error) {
	if source == "" {
		return nil, errors.New("database source cannot be empty")
	}

	dsn := source
	if dialect == "sqlite" {
		dsn = "file:" + source + "?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == "sqlite" {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, nil
}

// Migrate applies the goose migrations found in <dir>/<dialect>.
func Migrate(db *sql.DB, dialect, dir string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetLogger(goose.NopLogger())

	return goose.Up(db, filepath.Join(dir, dialect))
}
