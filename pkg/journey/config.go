package journey

// Config holds journey configuration
type Config struct {
	// StateFile is where the current session is persisted.
	// Empty keeps the session in memory only.
	StateFile string `env:"JOURNEY_STATE_FILE"`
}

// DefaultConfig persists the session under the user's cache directory
func DefaultConfig() Config {
	return Config{
		StateFile: DefaultStatePath(),
	}
}

// NewFromConfig creates a Journey from the provided Config.
// A Reporter is still required via options.
func NewFromConfig(cfg Config, opts ...Option) *Journey {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
