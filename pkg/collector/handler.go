package collector

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/journey/pkg/journey"
	"github.com/dmitrymomot/journey/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20

type handler struct {
	sink         Sink
	logger       *slog.Logger
	clock        journey.Clock
	ids          journey.IDGenerator
	maxBodyBytes int64
}

// HandlerOption configures the ingest handler
type HandlerOption func(*handler)

// WithMaxBodyBytes limits the accepted document size
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// WithHandlerLogger sets the logger for rejected documents
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithHandlerClock sets the clock used for ReceivedAt and for decoding tails
func WithHandlerClock(c journey.Clock) HandlerOption {
	return func(h *handler) {
		if c != nil {
			h.clock = c
		}
	}
}

// envelope is the part of a document the collector inspects
type envelope struct {
	T         string `json:"t"`
	V         string `json:"v"`
	ID        string `json:"id"`
	AccountID string `json:"acc"`
	AppID     string `json:"aid"`
}

// NewHandler returns a router accepting POST /session_head and
// POST /session_tail, plus GET /healthz.
func NewHandler(sink Sink, opts ...HandlerOption) http.Handler {
	h := &handler{
		sink:         sink,
		logger:       logger.Nop(),
		clock:        journey.SystemClock{},
		ids:          journey.UUIDGenerator{},
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(logger.Component("collector"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post(headPath, h.ingest(journey.SessionHeadType))
	r.Post(tailPath, h.ingest(journey.SessionTailType))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func (h *handler) ingest(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		doc, err := h.decode(w, r, kind)
		if err != nil {
			status := http.StatusBadRequest
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			h.logger.WarnContext(ctx, "document rejected", logger.RequestID(middleware.GetReqID(ctx)), logger.Kind(kind), logger.StatusCode(status), logger.Error(err))
			writeError(w, status, err)
			return
		}

		if err := h.sink.Accept(ctx, doc); err != nil {
			h.logger.ErrorContext(ctx, "sink failed", logger.RequestID(middleware.GetReqID(ctx)), logger.Kind(kind), logger.SessionID(doc.ID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, errors.New("failed to store document"))
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"id": doc.ID})
	}
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, kind string) (Document, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		return Document{}, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if env.T != kind {
		return Document{}, fmt.Errorf("%w: got %q, want %q", ErrWrongKind, env.T, kind)
	}
	if env.V != journey.ProtocolVersion {
		return Document{}, fmt.Errorf("%w: %q", ErrWrongProtocol, env.V)
	}
	if env.ID == "" {
		return Document{}, fmt.Errorf("%w: id is required", ErrInvalidBody)
	}

	if kind == journey.SessionTailType {
		if _, err := journey.ParseSession(raw, h.clock, h.ids); err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
	}

	return Document{
		Kind:       kind,
		ID:         env.ID,
		AccountID:  env.AccountID,
		AppID:      env.AppID,
		ReceivedAt: h.clock.Now(),
		Body:       json.RawMessage(raw),
	}, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"err": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
