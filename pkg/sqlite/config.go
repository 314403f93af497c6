package sqlite

import "time"

// Config defines SQLite connection parameters.
type Config struct {
	Path         string        `env:"JOURNEY_SQLITE_PATH" envDefault:"journey.db"`
	BusyTimeout  time.Duration `env:"JOURNEY_SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
	MaxOpenConns int           `env:"JOURNEY_SQLITE_MAX_OPEN_CONNS" envDefault:"4"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		Path:         "journey.db",
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 4,
	}
}
