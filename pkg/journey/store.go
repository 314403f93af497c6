package journey

import "context"

// Store defines the interface for persisting the current session
type Store interface {
	// LoadLast returns the most recently saved session or ErrSessionNotFound
	LoadLast(ctx context.Context) (*Session, error)

	// Save persists the session. Implementations must not retain the pointer.
	Save(ctx context.Context, session *Session) error
}

// Reporter defines the interface for shipping sessions to the collector
type Reporter interface {
	// PostSessionHeader reports the start of a session
	PostSessionHeader(ctx context.Context, header *SessionHeader) error

	// PostSession reports the accumulated tail of a finished session
	PostSession(ctx context.Context, session *Session) error
}
