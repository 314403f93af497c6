package journey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// DefaultStateFileName is the file the current session is written to.
const DefaultStateFileName = "journey.session.json"

// DefaultStatePath returns DefaultStateFileName inside the per-user cache
// directory, or inside the working directory when that cannot be determined.
func DefaultStatePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return DefaultStateFileName
	}
	return filepath.Join(dir, DefaultStateFileName)
}

// FileStore implements Store as a single JSON document on disk.
// Writes are atomic: a crash mid-save leaves the previous document intact.
type FileStore struct {
	path  string
	clock Clock
	ids   IDGenerator
}

// NewFileStore creates a store backed by the file at path.
// Nil clock and ids fall back to SystemClock and UUIDGenerator; they are used
// to fill defaults when decoding.
func NewFileStore(path string, clock Clock, ids IDGenerator) *FileStore {
	if clock == nil {
		clock = SystemClock{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &FileStore{path: path, clock: clock, ids: ids}
}

// Path returns the backing file path
func (f *FileStore) Path() string {
	return f.path
}

// LoadLast reads and decodes the stored session
func (f *FileStore) LoadLast(ctx context.Context) (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return ParseSession(data, f.clock, f.ids)
}

// Save encodes the session and atomically replaces the file
func (f *FileStore) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrNilSession
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	if err := renameio.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
