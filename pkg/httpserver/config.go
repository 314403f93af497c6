package httpserver

import "time"

type Config struct {
	Addr            string        `env:"JOURNEY_LISTEN_ADDR" envDefault:":8060"`        // Addr is the address the collector listens on.
	ReadTimeout     time.Duration `env:"JOURNEY_HTTP_READ_TIMEOUT" envDefault:"30s"`    // ReadTimeout bounds reading the whole request.
	WriteTimeout    time.Duration `env:"JOURNEY_HTTP_WRITE_TIMEOUT" envDefault:"30s"`   // WriteTimeout bounds writing the response.
	IdleTimeout     time.Duration `env:"JOURNEY_HTTP_IDLE_TIMEOUT" envDefault:"120s"`   // IdleTimeout bounds keep-alive idling.
	ShutdownTimeout time.Duration `env:"JOURNEY_HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"` // ShutdownTimeout bounds graceful shutdown.
}

// NewFromConfig creates a Server from cfg. Zero values keep the defaults.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	configOpts := make([]Option, 0, 5+len(opts))

	if cfg.Addr != "" {
		configOpts = append(configOpts, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		configOpts = append(configOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}

	return New(append(configOpts, opts...)...)
}
