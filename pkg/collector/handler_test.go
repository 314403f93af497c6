package collector_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/journey/pkg/collector"
)

type failingSink struct{}

func (failingSink) Accept(context.Context, collector.Document) error {
	return errors.New("disk full")
}

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandler_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		body    string
		status  int
		wantErr string
	}{
		{
			name:    "not json",
			path:    "/session_head",
			body:    "{",
			status:  http.StatusBadRequest,
			wantErr: "invalid document",
		},
		{
			name:    "tail posted to head",
			path:    "/session_head",
			body:    `{"t":"stail","v":"1.1.0","id":"s1"}`,
			status:  http.StatusBadRequest,
			wantErr: "unexpected document type",
		},
		{
			name:    "old protocol",
			path:    "/session_tail",
			body:    `{"t":"stail","v":"1.0.0","id":"s1"}`,
			status:  http.StatusBadRequest,
			wantErr: "unsupported protocol version",
		},
		{
			name:    "missing id",
			path:    "/session_head",
			body:    `{"t":"shead","v":"1.1.0"}`,
			status:  http.StatusBadRequest,
			wantErr: "id is required",
		},
		{
			name:    "tail with since but no start",
			path:    "/session_tail",
			body:    `{"t":"stail","v":"1.1.0","id":"s1","since":"2022-01-01T00:00:00Z"}`,
			status:  http.StatusBadRequest,
			wantErr: "malformed_session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := collector.NewMemorySink()
			w, resp := post(t, collector.NewHandler(sink), tt.path, tt.body)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, resp["err"], tt.wantErr)
			assert.Empty(t, sink.Documents())
		})
	}
}

func TestHandler_BodyTooLarge(t *testing.T) {
	t.Parallel()

	h := collector.NewHandler(collector.NewMemorySink(), collector.WithMaxBodyBytes(16))
	w, resp := post(t, h, "/session_head", `{"t":"shead","v":"1.1.0","id":"a-very-long-session-id"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.NotEmpty(t, resp["err"])
}

func TestHandler_SinkFailure(t *testing.T) {
	t.Parallel()

	w, resp := post(t, collector.NewHandler(failingSink{}), "/session_head", `{"t":"shead","v":"1.1.0","id":"s1"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to store document", resp["err"])
}

func TestHandler_AcceptsHeadAndFansOut(t *testing.T) {
	t.Parallel()

	first, second := collector.NewMemorySink(), collector.NewMemorySink()
	h := collector.NewHandler(
		collector.FanOut{first, second, collector.NewLogSink(nil)},
		collector.WithHandlerClock(clock()),
	)

	w, resp := post(t, h, "/session_head", `{"t":"shead","v":"1.1.0","id":"s1","acc":"acc","aid":"app"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", resp["id"])
	require.Len(t, first.Documents(), 1)
	require.Len(t, second.Documents(), 1)
	assert.Equal(t, "shead", first.Documents()[0].Kind)
	assert.Equal(t, now, first.Documents()[0].ReceivedAt)
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	collector.NewHandler(collector.NewMemorySink()).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
