package async

import "errors"

var (
	ErrTimeout = errors.New("async: timed out waiting for task completion")
	ErrPanic   = errors.New("async: task panicked")
)
