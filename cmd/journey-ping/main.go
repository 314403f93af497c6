// Command journey-ping records one short session against a collector.
//
// It loads configuration from the environment (and an optional .env file),
// initializes tracking for the given account and app, reports the events named
// on the command line and exits. Run it twice to see the previous session
// reported as a tail.
//
//	JOURNEY_COLLECTOR_URL=http://localhost:8060 journey-ping -acc demo -app cli click click scroll
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/journey/pkg/collector"
	"github.com/dmitrymomot/journey/pkg/config"
	"github.com/dmitrymomot/journey/pkg/journey"
	"github.com/dmitrymomot/journey/pkg/logger"
	"github.com/dmitrymomot/journey/pkg/redis"
	"github.com/dmitrymomot/journey/pkg/sqlite"
)

type pingConfig struct {
	Store       string `env:"JOURNEY_STORE" envDefault:"file"`
	Environment string `env:"JOURNEY_ENV" envDefault:"development"`
}

func main() {
	accountID := flag.String("acc", "", "account id")
	appID := flag.String("app", "", "app id")
	version := flag.String("version", "1.0.0", "app version")
	release := flag.Bool("release", false, "mark as a release build")
	stage := flag.Int("stage", 0, "stage to transition to (0 keeps the current one)")
	stageName := flag.String("stage-name", "", "name of the stage")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg pingConfig
	config.MustLoad(&cfg)
	log := logger.New(logger.WithEnvironment(cfg.Environment, "journey-ping"), logger.WithOutput(os.Stderr))

	if err := run(ctx, log, cfg, *accountID, *appID, *version, *release, *stage, *stageName, flag.Args()); err != nil {
		log.Error("ping failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg pingConfig, accountID, appID, version string, release bool, stage int, stageName string, events []string) error {
	var journeyCfg journey.Config
	if err := config.Load(&journeyCfg); err != nil {
		return err
	}
	var collectorCfg collector.Config
	if err := config.Load(&collectorCfg); err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg.Store, journeyCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	tracker := journey.NewFromConfig(journeyCfg,
		journey.WithStore(store),
		journey.WithReporter(collector.NewClientFromConfig(collectorCfg)),
		journey.WithLogger(log),
	)

	if err := tracker.InitializeAsync(ctx, accountID, appID, version, release).WaitTimeout(2*collectorCfg.Timeout + time.Second); err != nil {
		return err
	}

	for _, name := range events {
		if err := tracker.ReportEvent(ctx, name, false); err != nil {
			return err
		}
	}
	if stage > 0 {
		if err := tracker.ReportStageTransition(ctx, stage, stageName); err != nil {
			return err
		}
	}

	s := tracker.Current()
	if s == nil {
		return errors.New("tracking did not start")
	}
	fmt.Printf("session %s: %d events, stage %d (%s)\n", s.ID, len(s.EventSequence), s.NewStage.Index, s.NewStage.Name)
	return nil
}

func openStore(ctx context.Context, kind string, cfg journey.Config) (journey.Store, func(), error) {
	noop := func() {}

	switch kind {
	case "", "file":
		path := cfg.StateFile
		if path == "" {
			path = journey.DefaultStatePath()
		}
		return journey.NewFileStore(path, nil, nil), noop, nil
	case "memory":
		return journey.NewMemoryStore(), noop, nil
	case "redis":
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, noop, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, noop, err
		}
		store, err := redis.NewSessionStoreFromConfig(client, redisCfg)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return store, func() { _ = client.Close() }, nil
	case "sqlite":
		var sqliteCfg sqlite.Config
		if err := config.Load(&sqliteCfg); err != nil {
			return nil, noop, err
		}
		db, err := sqlite.Open(sqliteCfg.Path, sqliteCfg)
		if err != nil {
			return nil, noop, err
		}
		store, err := sqlite.NewSessionStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return store, func() { _ = db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q: want file, memory, redis or sqlite", kind)
	}
}
