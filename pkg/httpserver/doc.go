// Package httpserver runs an http.Handler with graceful shutdown.
//
// Server binds its listener eagerly so callers can read the chosen address
// from Addr once Ready is closed, which makes ":0" usable in tests. Run blocks
// until the context is cancelled, Shutdown is called or, with WithSignals,
// SIGINT/SIGTERM arrives. In-flight requests get WithShutdownTimeout to finish.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log), httpserver.WithSignals())
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// ReadinessHandler turns a list of dependency probes into a readiness endpoint.
//
// Errors returned by Run and Shutdown wrap ErrStart and ErrShutdown.
package httpserver
