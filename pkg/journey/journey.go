package journey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmitrymomot/journey/pkg/async"
	"github.com/dmitrymomot/journey/pkg/logger"
)

// Journey owns the current session and serialises every mutation of it.
// Create one per process with New and share it.
type Journey struct {
	mu      sync.Mutex
	current *Session

	store    Store
	reporter Reporter
	clock    Clock
	ids      IDGenerator
	logger   *slog.Logger
	config   Config
}

// New creates a Journey with the given options.
// A Reporter is required. Without a Store the session is kept in a FileStore
// at Config.StateFile, or in memory when no state file is configured.
func New(opts ...Option) *Journey {
	j := &Journey{
		clock:  SystemClock{},
		ids:    UUIDGenerator{},
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(j)
	}

	if j.reporter == nil {
		// Fail fast: a tracker that can never report is a wiring mistake
		panic("journey: reporter is required")
	}

	if j.store == nil {
		if j.config.StateFile != "" {
			j.store = NewFileStore(j.config.StateFile, j.clock, j.ids)
		} else {
			j.store = NewMemoryStore()
		}
	}

	j.logger = j.logger.With(logger.Component("journey"))

	return j
}

// Initialize starts a new session, reporting the tail of the previous one and
// the header of the new one. It never returns an error: report and save
// failures are logged and the new session is installed regardless.
//
// If the previous session cannot be read for any reason other than it not
// existing, Initialize logs a warning and aborts, leaving the current session
// untouched. Nothing is saved or reported, so a returning user is never
// counted as a first launch.
func (j *Journey) Initialize(ctx context.Context, accountID, appID, version string, isRelease bool) {
	prev, err := j.loadPrevious(ctx)
	if err != nil {
		j.logger.WarnContext(ctx, "failed to load the previous session, initialization aborted",
			logger.AccountID(accountID),
			logger.AppID(appID),
			logger.Error(err),
		)
		return
	}

	header := NewSessionHeader(accountID, appID, version, isRelease, j.clock, j.ids)
	// The header and the session carry independent ids.
	session := NewSession(j.ids.NewID(), accountID, appID, version, isRelease, header.Start, j.clock)

	log := j.logger.With(logger.SessionID(session.ID), slog.String("header_id", header.ID))
	log.InfoContext(ctx, "started new session",
		logger.AccountID(accountID),
		logger.AppID(appID),
		logger.Version(version),
	)

	if prev != nil {
		log.InfoContext(ctx, "reporting the end of the previous session", slog.String("previous_session_id", prev.ID))
		if err := j.reporter.PostSession(ctx, prev); err != nil {
			log.WarnContext(ctx, "failed to report the end of the previous session", logger.Error(err))
		}
	}

	if prev == nil {
		header.markFirstLaunchEver()
		session.FirstLaunch = true
	} else {
		now := j.clock.Now()
		last := prev.Start

		header.FirstLaunchThisHour = !SameHour(last, now)
		header.FirstLaunchToday = !SameDay(last, now)
		header.FirstLaunchThisMonth = !SameMonth(last, now)
		header.FirstLaunchThisYear = !SameYear(last, now)
		header.FirstLaunchThisVersion = prev.Version != version

		session.PrevStage = prev.NewStage
		session.NewStage = prev.NewStage
		header.PrevStage = prev.NewStage

		session.Since = prev.Since
		header.Since = prev.Since
	}

	j.install(ctx, session, log)

	log.InfoContext(ctx, "reporting the start of a new session")
	if err := j.reporter.PostSessionHeader(ctx, header); err != nil {
		log.WarnContext(ctx, "failed to report the start of a new session", logger.Error(err))
	}
}

// install swaps in the new session and saves it under the mutex.
func (j *Journey) install(ctx context.Context, session *Session, log *slog.Logger) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.current = session
	if err := j.store.Save(ctx, session); err != nil {
		log.WarnContext(ctx, "failed to save the new session", logger.Error(err))
	}
}

// InitializeAsync runs Initialize in the background.
// The task completes once Initialize has been attempted and carries no error
// from Initialize itself. If ctx is already done, Initialize is skipped, a
// warning is logged and the task carries ctx.Err().
func (j *Journey) InitializeAsync(ctx context.Context, accountID, appID, version string, isRelease bool) *async.Task {
	if err := ctx.Err(); err != nil {
		j.logger.WarnContext(ctx, "context already done, initialization skipped",
			logger.AccountID(accountID),
			logger.AppID(appID),
			logger.Error(err),
		)
	}
	return async.Go(ctx, func(ctx context.Context) error {
		j.Initialize(ctx, accountID, appID, version, isRelease)
		return nil
	})
}

// loadPrevious returns the last saved session, or nil when there is none.
func (j *Journey) loadPrevious(ctx context.Context) (*Session, error) {
	prev, err := j.store.LoadLast(ctx)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return prev, nil
}

// ReportEvent registers an event in the current session.
//
// Events are distinguished by name, e.g. "click_play" or "use_search". Do not
// put personal data into event names.
//
// Collapsible events appear in the sequence once per run of repetitions, in
// brackets: "(scroll_to_next_album)". Their count still grows on every call.
func (j *Journey) ReportEvent(ctx context.Context, name string, collapsible bool) error {
	return j.reportEvent(ctx, name, collapsible, false, false)
}

// ReportError registers an error event and marks the session as having errors.
func (j *Journey) ReportError(ctx context.Context, name string) error {
	return j.reportEvent(ctx, name, false, true, false)
}

// ReportCrash registers a crash event and marks the session as having both
// errors and a crash.
func (j *Journey) ReportCrash(ctx context.Context, name string) error {
	return j.reportEvent(ctx, name, false, true, true)
}

func (j *Journey) reportEvent(ctx context.Context, name string, collapsible, isError, isCrash bool) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: event name must not be blank", ErrInvalidArgument)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.current == nil {
		j.logger.WarnContext(ctx, "cannot update session: journey has not been initialized", logger.Event(name))
		return nil
	}

	s := j.current
	s.addEvent(name, collapsible)
	if isError {
		s.HasError = true
	}
	if isCrash {
		s.HasCrash = true
	}
	s.End = j.clock.Now()

	if err := j.store.Save(ctx, s); err != nil {
		j.logger.WarnContext(ctx, "cannot update session",
			logger.SessionID(s.ID),
			logger.Event(name),
			logger.Error(err),
		)
	}
	return nil
}

// ReportStageTransition moves the session to a higher funnel stage, e.g.
// "engagement", "checkout" or "payment".
//
// Stage must be within [MinStage..MaxStage]. Transitions to the current or a
// lower stage are ignored, so callers need not track the current stage. The
// session end time is updated either way.
func (j *Journey) ReportStageTransition(ctx context.Context, stage int, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: stage name must not be blank", ErrInvalidArgument)
	}
	if stage < MinStage || stage > MaxStage {
		return fmt.Errorf("%w: invalid stage %d, must be between %d and %d", ErrInvalidArgument, stage, MinStage, MaxStage)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.current == nil {
		j.logger.WarnContext(ctx, "cannot update session: journey has not been initialized", logger.Stage(stage))
		return nil
	}

	s := j.current
	if stage > s.NewStage.Index {
		s.NewStage = NewStage(stage, name, j.clock)
	}
	s.End = j.clock.Now()

	if err := j.store.Save(ctx, s); err != nil {
		j.logger.WarnContext(ctx, "cannot update session",
			logger.SessionID(s.ID),
			logger.Stage(stage),
			logger.Error(err),
		)
	}
	return nil
}

// Current returns a copy of the current session, or nil before Initialize.
func (j *Journey) Current() *Session {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.current.Clone()
}
