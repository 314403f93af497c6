// Command journey-collector is a development ingest server that accepts the
// session documents posted by collector.Client and logs them.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/journey/pkg/collector"
	"github.com/dmitrymomot/journey/pkg/config"
	"github.com/dmitrymomot/journey/pkg/httpserver"
	"github.com/dmitrymomot/journey/pkg/logger"
	"github.com/dmitrymomot/journey/pkg/redis"
)

const serviceName = "journey-collector"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg collector.ServerConfig
	config.MustLoad(&cfg)

	opts := []logger.Option{logger.WithEnvironment(cfg.Environment, serviceName)}
	if cfg.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(cfg.LogFormat)))
	}
	log := logger.New(opts...)

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		log.Error("failed to load http config", logger.Error(err))
		return err
	}

	memory := collector.NewMemorySink()
	sinks := collector.FanOut{collector.NewLogSink(log), memory}
	var checks []httpserver.Check

	if cfg.RedisSink {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			log.Error("failed to load redis config", logger.Error(err))
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			log.Error("failed to connect to redis", logger.Error(err))
			return err
		}
		defer client.Close()

		sinks = append(sinks, redis.NewDocumentSink(client, redis.DefaultDocumentsKey, cfg.RedisMaxDocs))
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		log.Info("redis sink enabled", slog.Int64("max_docs", cfg.RedisMaxDocs))
	}

	r := chi.NewRouter()
	r.Get("/readyz", httpserver.ReadinessHandler(log, checks...))
	r.Mount("/", collector.NewHandler(sinks,
		collector.WithMaxBodyBytes(cfg.MaxBodyBytes),
		collector.WithHandlerLogger(log),
	))

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.Error("collector stopped with error", logger.Error(err))
		return err
	}

	log.Info("collector stopped", slog.Int("documents", len(memory.Documents())))
	return nil
}
