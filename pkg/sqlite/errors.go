package sqlite

import "errors"

var (
	ErrEmptyPath     = errors.New("sqlite.empty_path")
	ErrOpenFailed    = errors.New("sqlite.open_failed")
	ErrMigrateFailed = errors.New("sqlite.migrate_failed")
)
