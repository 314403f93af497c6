// Package config populates configuration structs from environment variables.
//
// Struct fields are described with `env` and `envDefault` tags understood by
// github.com/caarlos0/env. A .env file in the working directory is read once
// per process (missing files are fine); extra files can be supplied with
// WithEnvFiles. Variables already present in the environment always win.
//
// # Usage
//
//	var cfg collector.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	// JOURNEY_-prefixed variables only
//	var store sqlite.Config
//	config.MustLoad(&store, config.WithPrefix("JOURNEY_"))
package config
