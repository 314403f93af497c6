package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/journey/pkg/journey"
)

// SessionStore implements journey.Store on top of a single Redis key.
type SessionStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	clock  journey.Clock
	ids    journey.IDGenerator
}

var _ journey.Store = (*SessionStore)(nil)

// StoreOption configures a SessionStore.
type StoreOption func(*SessionStore)

// WithSessionKey overrides DefaultSessionKey. Empty keys are ignored.
func WithSessionKey(key string) StoreOption {
	return func(s *SessionStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithSessionTTL expires the stored document. Zero disables expiry.
func WithSessionTTL(ttl time.Duration) StoreOption {
	return func(s *SessionStore) {
		s.ttl = ttl
	}
}

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

// NewSessionStore wraps client.
func NewSessionStore(client redis.UniversalClient, opts ...StoreOption) *SessionStore {
	s := &SessionStore{
		client: client,
		key:    DefaultSessionKey,
		clock:  journey.SystemClock{},
		ids:    journey.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSessionStoreFromConfig applies the session key and TTL from cfg.
func NewSessionStoreFromConfig(client redis.UniversalClient, cfg Config, opts ...StoreOption) (*SessionStore, error) {
	if cfg.SessionKey == "" {
		return nil, ErrEmptySessionKey
	}
	base := []StoreOption{WithSessionKey(cfg.SessionKey), WithSessionTTL(cfg.SessionTTL)}
	return NewSessionStore(client, append(base, opts...)...), nil
}

// Key returns the Redis key in use
func (s *SessionStore) Key() string {
	return s.key
}

// LoadLast fetches and decodes the stored session.
// A missing key yields journey.ErrSessionNotFound.
func (s *SessionStore) LoadLast(ctx context.Context) (*journey.Session, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, journey.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return journey.ParseSession(data, s.clock, s.ids)
}

// Save overwrites the stored session.
func (s *SessionStore) Save(ctx context.Context, session *journey.Session) error {
	if session == nil {
		return journey.ErrNilSession
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
