package collector

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/journey/pkg/logger"
)

// Document is an accepted header or tail as received on the wire.
type Document struct {
	Kind       string
	ID         string
	AccountID  string
	AppID      string
	ReceivedAt time.Time
	Body       json.RawMessage
}

// Sink receives validated documents.
type Sink interface {
	Accept(ctx context.Context, doc Document) error
}

// MemorySink keeps every document in memory.
type MemorySink struct {
	mu   sync.RWMutex
	docs []Document
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Accept appends doc. It never fails.
func (m *MemorySink) Accept(ctx context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, doc)
	return nil
}

// Documents returns the accepted documents in arrival order.
func (m *MemorySink) Documents() []Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.docs)
}

// ByKind returns the accepted documents of one kind in arrival order.
func (m *MemorySink) ByKind(kind string) []Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for _, d := range m.docs {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// LogSink writes one record per accepted document.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink writing to l. A nil logger discards everything.
func NewLogSink(l *slog.Logger) *LogSink {
	if l == nil {
		l = logger.Nop()
	}
	return &LogSink{logger: l}
}

// Accept logs the document envelope at info level. The body is not logged.
func (s *LogSink) Accept(ctx context.Context, doc Document) error {
	s.logger.InfoContext(ctx, "document received",
		logger.Kind(doc.Kind),
		logger.SessionID(doc.ID),
		logger.AccountID(doc.AccountID),
		logger.AppID(doc.AppID),
		slog.Int("bytes", len(doc.Body)),
	)
	return nil
}

// FanOut delivers every document to each sink in order and stops at the
// first failure.
type FanOut []Sink

// Accept hands doc to each sink and returns the first error.
func (f FanOut) Accept(ctx context.Context, doc Document) error {
	for _, s := range f {
		if err := s.Accept(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}
