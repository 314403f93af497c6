package journey_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/journey/pkg/journey"
)

const (
	prevSessionID = "SESSION0"
	sessionID     = "SESSION1"
	accountID     = "accid"
	appID         = "appid"
	prevVersion   = "1.0"
	version       = "2.0"
	releaseBuild  = true
)

var (
	lastYear = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	now      = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	later    = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
)

// fakeClock is a settable Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixedIDs string

func (f fixedIDs) NewID() string { return string(f) }

// sequenceIDs hands out id-1, id-2, ...
type sequenceIDs struct {
	n atomic.Int64
}

func (s *sequenceIDs) NewID() string {
	return fmt.Sprintf("id-%d", s.n.Add(1))
}

// MockReporter is a mock implementation of journey.Reporter.
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) PostSessionHeader(ctx context.Context, header *journey.SessionHeader) error {
	args := m.Called(ctx, header)
	return args.Error(0)
}

func (m *MockReporter) PostSession(ctx context.Context, session *journey.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// acceptingReporter returns a reporter that accepts everything.
func acceptingReporter() *MockReporter {
	r := &MockReporter{}
	r.On("PostSessionHeader", mock.Anything, mock.Anything).Return(nil)
	r.On("PostSession", mock.Anything, mock.Anything).Return(nil)
	return r
}

// brokenStore fails on demand and counts calls.
type brokenStore struct {
	journey.MemoryStore
	loadErr error
	saveErr error
	saves   atomic.Int32
}

func (b *brokenStore) LoadLast(ctx context.Context) (*journey.Session, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.MemoryStore.LoadLast(ctx)
}

func (b *brokenStore) Save(ctx context.Context, s *journey.Session) error {
	b.saves.Add(1)
	if b.saveErr != nil {
		return b.saveErr
	}
	return b.MemoryStore.Save(ctx, s)
}

// panickingStore panics on Save once armed.
type panickingStore struct {
	journey.MemoryStore
	armed atomic.Bool
}

func (p *panickingStore) Save(ctx context.Context, s *journey.Session) error {
	if p.armed.Load() {
		panic("disk controller on fire")
	}
	return p.MemoryStore.Save(ctx, s)
}

func assertSession(t *testing.T, want, got *journey.Session) {
	t.Helper()
	if !assert.NotNil(t, got) {
		return
	}
	assert.True(t, want.Equal(got), cmp.Diff(*want, *got, cmpopts.EquateEmpty()))
}

func assertHeader(t *testing.T, want, got *journey.SessionHeader) {
	t.Helper()
	if !assert.NotNil(t, got) {
		return
	}
	assert.True(t, want.Equal(got), cmp.Diff(*want, *got))
}

// headerArg returns the header passed to the first PostSessionHeader call.
func headerArg(t *testing.T, r *MockReporter) *journey.SessionHeader {
	t.Helper()
	for _, c := range r.Calls {
		if c.Method == "PostSessionHeader" {
			return c.Arguments.Get(1).(*journey.SessionHeader)
		}
	}
	t.Fatal("PostSessionHeader was not called")
	return nil
}
