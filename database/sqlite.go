package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// SQLiteDB is a local, single-file database
type SQLiteDB struct {
	*sql.DB
	Path string
}

// OpenSQLite opens (creating if needed) the database at path and applies
// migrations. The pool is limited to one connection and transactions take
// the write lock immediately, so at most one ledger transaction runs at a time.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := sqliteDSN(cleanPath)

	if err := migrateSQLite(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	log.WithField("path", cleanPath).Debug("Opened sqlite database")
	return &SQLiteDB{DB: db, Path: cleanPath}, nil
}

func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}
