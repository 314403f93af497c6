package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Open creates a connection pool for the database at path.
// The PRAGMAs are passed in the DSN so that every pooled connection gets them.
func Open(path string, cfg Config) (*sql.DB, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Join(ErrOpenFailed, err)
	}

	conns := max(cfg.MaxOpenConns, 1)
	db.SetMaxOpenConns(conns)
	db.SetMaxIdleConns(conns)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrOpenFailed, err)
	}

	return db, nil
}
