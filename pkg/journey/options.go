package journey

import "log/slog"

// Option is a functional option for configuring the Journey
type Option func(*Journey)

// WithStore sets the session store
func WithStore(store Store) Option {
	return func(j *Journey) {
		j.store = store
	}
}

// WithReporter sets the collector reporter
func WithReporter(reporter Reporter) Option {
	return func(j *Journey) {
		j.reporter = reporter
	}
}

// WithClock overrides the time source
func WithClock(clock Clock) Option {
	return func(j *Journey) {
		if clock != nil {
			j.clock = clock
		}
	}
}

// WithIDGenerator overrides the session id source
func WithIDGenerator(ids IDGenerator) Option {
	return func(j *Journey) {
		if ids != nil {
			j.ids = ids
		}
	}
}

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(j *Journey) {
		if l != nil {
			j.logger = l
		}
	}
}

// WithConfig sets custom configuration
func WithConfig(cfg Config) Option {
	return func(j *Journey) {
		j.config = cfg
	}
}
