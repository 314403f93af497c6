package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/journey/pkg/journey"
)

const (
	headPath = "/session_head"
	tailPath = "/session_tail"

	// maxErrorBody bounds how much of an error response is read
	maxErrorBody = 64 * 1024
)

var _ journey.Reporter = (*Client)(nil)

// Client reports sessions to the collector over HTTP.
type Client struct {
	baseURL   string
	timeout   time.Duration
	userAgent string
	http      *http.Client
}

// NewClient creates a client for DefaultBaseURL unless overridden by options.
func NewClient(opts ...ClientOption) *Client {
	cfg := DefaultConfig()
	c := &Client{
		baseURL:   cfg.BaseURL,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return c
}

// NewClientFromConfig creates a client from Config; options are applied on top.
func NewClientFromConfig(cfg Config, opts ...ClientOption) *Client {
	configOpts := []ClientOption{
		WithBaseURL(cfg.BaseURL),
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
	}
	return NewClient(append(configOpts, opts...)...)
}

// PostSessionHeader reports the start of a session.
func (c *Client) PostSessionHeader(ctx context.Context, header *journey.SessionHeader) error {
	if header == nil {
		return ErrNilDocument
	}
	return c.post(ctx, headPath, header)
}

// PostSession reports the tail of a finished session.
func (c *Client) PostSession(ctx context.Context, session *journey.Session) error {
	if session == nil {
		return ErrNilDocument
	}
	return c.post(ctx, tailPath, session)
}

func (c *Client) post(ctx context.Context, path string, doc any) error {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %w", ErrReportFailed, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%w: POST %s returned %d %s: %s",
		ErrReportFailed, path, resp.StatusCode, http.StatusText(resp.StatusCode), errorMessage(raw))
}

func (c *Client) endpoint(path string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	return strings.TrimSuffix(u.String(), "/") + path, nil
}

// errorMessage extracts the "err" field of a JSON error body, falling back to
// a sanitised prefix of the raw body.
func errorMessage(raw []byte) string {
	var e struct {
		Err string `json:"err"`
	}
	if err := json.Unmarshal(raw, &e); err == nil {
		return e.Err
	}
	msg := strings.ReplaceAll(string(raw), "\n", " ")
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}
