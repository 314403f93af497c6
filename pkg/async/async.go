package async

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Task is a unit of background work started by Go.
type Task struct {
	err  error
	done chan struct{}
}

// Go runs fn in its own goroutine and returns immediately.
func Go(ctx context.Context, fn func(context.Context) error) *Task {
	t := &Task{done: make(chan struct{})}

	go func() {
		defer close(t.done)

		// Skip the work entirely when the caller has already given up
		if err := ctx.Err(); err != nil {
			t.err = err
			return
		}

		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()

		t.err = fn(ctx)
	}()

	return t
}

// Wait blocks until the task completes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// WaitTimeout is like Wait but gives up after d with ErrTimeout.
// The task keeps running after a timeout.
func (t *Task) WaitTimeout(d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-t.done:
		return t.err
	case <-timer.C:
		return ErrTimeout
	}
}

// Done is closed when the task completes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// IsComplete reports whether the task has finished, without blocking.
func (t *Task) IsComplete() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// WaitAll waits for every task and joins their errors.
func WaitAll(tasks ...*Task) error {
	errs := make([]error, 0, len(tasks))
	for _, t := range tasks {
		errs = append(errs, t.Wait())
	}
	return errors.Join(errs...)
}
