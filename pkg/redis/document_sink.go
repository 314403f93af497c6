package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/journey/pkg/collector"
)

// DefaultDocumentsKey is the list collector documents are pushed to.
const DefaultDocumentsKey = "journey:documents"

// DocumentSink appends every accepted collector document to a capped Redis
// list, newest first.
type DocumentSink struct {
	client redis.UniversalClient
	key    string
	maxLen int64
}

var _ collector.Sink = (*DocumentSink)(nil)

// NewDocumentSink keeps at most maxLen documents under key. A non-positive
// maxLen disables trimming.
func NewDocumentSink(client redis.UniversalClient, key string, maxLen int64) *DocumentSink {
	if key == "" {
		key = DefaultDocumentsKey
	}
	return &DocumentSink{client: client, key: key, maxLen: maxLen}
}

type storedDocument struct {
	Kind       string          `json:"t"`
	ID         string          `json:"id"`
	AccountID  string          `json:"acc"`
	AppID      string          `json:"aid"`
	ReceivedAt time.Time       `json:"received_at"`
	Body       json.RawMessage `json:"body"`
}

// Accept pushes doc and trims the list in one transaction.
func (s *DocumentSink) Accept(ctx context.Context, doc collector.Document) error {
	data, err := json.Marshal(storedDocument{
		Kind:       doc.Kind,
		ID:         doc.ID,
		AccountID:  doc.AccountID,
		AppID:      doc.AppID,
		ReceivedAt: doc.ReceivedAt,
		Body:       doc.Body,
	})
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, s.key, data)
		if s.maxLen > 0 {
			p.LTrim(ctx, s.key, 0, s.maxLen-1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis push %s: %w", s.key, err)
	}
	return nil
}
