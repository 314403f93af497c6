// Package logger builds *slog.Logger instances with functional options and
// offers attribute constructors that keep key names consistent across the
// journey packages.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("journey-collector"),
//	)
//	log.Info("received session tail",
//	    logger.SessionID(id),
//	    logger.Duration(time.Since(start)),
//	)
//
// Error returns an empty attribute for a nil error, so it can be passed
// without a nil check.
package logger
