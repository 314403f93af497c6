package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/journey/pkg/journey"
)

const schemaVersion = 1

// lastSlot is the only row the store ever writes.
const lastSlot = "last"

// SessionStore implements journey.Store on the journey_sessions table.
type SessionStore struct {
	db    *sql.DB
	clock journey.Clock
	ids   journey.IDGenerator
}

var _ journey.Store = (*SessionStore)(nil)

// StoreOption configures a SessionStore.
type StoreOption func(*SessionStore)

// WithClock sets the clock used to fill defaults when decoding.
func WithClock(clock journey.Clock) StoreOption {
	return func(s *SessionStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator sets the generator used for documents without an id.
func WithIDGenerator(ids journey.IDGenerator) StoreOption {
	return func(s *SessionStore) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// NewSessionStore migrates the schema and returns a store over db.
// The caller keeps ownership of db.
func NewSessionStore(ctx context.Context, db *sql.DB, opts ...StoreOption) (*SessionStore, error) {
	s := &SessionStore{
		db:    db,
		clock: journey.SystemClock{},
		ids:   journey.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(ctx); err != nil {
		return nil, errors.Join(ErrMigrateFailed, err)
	}
	return s, nil
}

func (s *SessionStore) migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS journey_sessions (
		slot TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		document TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadLast reads and decodes the stored session
func (s *SessionStore) LoadLast(ctx context.Context) (*journey.Session, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM journey_sessions WHERE slot = ?`, lastSlot,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, journey.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return journey.ParseSession([]byte(doc), s.clock, s.ids)
}

// Save upserts the session into the single slot
func (s *SessionStore) Save(ctx context.Context, session *journey.Session) error {
	if session == nil {
		return journey.ErrNilSession
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	query := `
	INSERT INTO journey_sessions (slot, session_id, document, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(slot) DO UPDATE SET
		session_id = excluded.session_id,
		document = excluded.document,
		updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		lastSlot, session.ID, string(data), s.clock.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}
