// Package async runs best-effort background work and lets the caller decide
// whether to wait for it.
//
// A Task is started with Go. The caller can block on Wait, bound the wait with
// WaitTimeout, select on Done, or poll IsComplete. WaitAll joins several
// tasks and returns every failure combined with errors.Join.
//
// If the supplied context is already cancelled when the goroutine starts, the
// function is not run and the task completes with the context error. A panic
// inside the function is recovered and reported as ErrPanic.
//
// # Usage
//
//	task := async.Go(ctx, func(ctx context.Context) error {
//	    return reporter.PostSession(ctx, tail)
//	})
//
//	// fire-and-forget: just drop the task
//	// or wait, but never longer than five seconds
//	if err := task.WaitTimeout(5 * time.Second); err != nil {
//	    log.Warn("report did not complete", logger.Error(err))
//	}
package async
