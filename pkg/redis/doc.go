// Package redis keeps the journey session in Redis.
//
// It wraps the go-redis client with a retrying Connect, a Healthcheck probe
// for readiness endpoints and SessionStore, a journey.Store that holds the
// last session as one JSON document under a single key.
//
// Configuration is described by Config, whose fields are populated from
// environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store, err := redis.NewSessionStoreFromConfig(client, cfg)
//	if err != nil {
//		return err
//	}
//	tracker := journey.New(journey.WithStore(store), journey.WithReporter(reporter))
//
// # Errors
//
// Connection failures wrap the underlying go-redis error with errors.Join, so
// both the sentinel (ErrRedisNotReady, ErrFailedToParseRedisConnString) and the
// cause can be matched with errors.Is.
package redis
