package collector

import "time"

// DefaultBaseURL is the public ingest endpoint.
const DefaultBaseURL = "https://journey3-ingest.artemkv.net:8060"

// Config holds client configuration
type Config struct {
	BaseURL   string        `env:"JOURNEY_COLLECTOR_URL" envDefault:"https://journey3-ingest.artemkv.net:8060"`
	Timeout   time.Duration `env:"JOURNEY_COLLECTOR_TIMEOUT" envDefault:"30s"`
	UserAgent string        `env:"JOURNEY_COLLECTOR_USER_AGENT" envDefault:"journey-go/1.1.0"`
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   30 * time.Second,
		UserAgent: "journey-go/1.1.0",
	}
}

// ServerConfig holds configuration of the development collector
type ServerConfig struct {
	MaxBodyBytes int64  `env:"JOURNEY_MAX_BODY_BYTES" envDefault:"1048576"`
	LogFormat    string `env:"JOURNEY_LOG_FORMAT" envDefault:"text"`
	Environment  string `env:"JOURNEY_ENV" envDefault:"development"`
	RedisSink    bool   `env:"JOURNEY_COLLECTOR_REDIS" envDefault:"false"`
	RedisMaxDocs int64  `env:"JOURNEY_COLLECTOR_REDIS_MAX_DOCS" envDefault:"10000"`
}
