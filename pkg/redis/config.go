package redis

import "time"

// DefaultSessionKey is the key the current journey session is stored under.
const DefaultSessionKey = "journey:session"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the URL of the database, e.g. "redis://:password@localhost:6379/0"
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`                      // RetryAttempts is the number of ping attempts before giving up.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`                     // RetryInterval is the pause between attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                   // ConnectTimeout bounds the whole connect loop.
	SessionKey     string        `env:"REDIS_JOURNEY_KEY" envDefault:"journey:session"`           // SessionKey is the key holding the last session document.
	SessionTTL     time.Duration `env:"REDIS_JOURNEY_TTL" envDefault:"0"`                         // SessionTTL expires the stored session. Zero keeps it forever.
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		ConnectionURL:  "redis://localhost:6379/0",
		RetryAttempts:  3,
		RetryInterval:  5 * time.Second,
		ConnectTimeout: 30 * time.Second,
		SessionKey:     DefaultSessionKey,
	}
}
