// Package sqlite keeps the journey session in a local SQLite database.
//
// Open configures a connection pool over the pure-Go modernc.org/sqlite driver
// with WAL journaling and a busy timeout applied to every connection.
// SessionStore implements journey.Store on a single-row table, which suits
// embedded hosts that already ship a database file.
//
//	db, err := sqlite.Open(cfg.Path, cfg)
//	if err != nil {
//		return err
//	}
//	store, err := sqlite.NewSessionStore(ctx, db)
//	if err != nil {
//		return err
//	}
package sqlite
