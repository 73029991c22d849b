package scheduler

import "errors"

// Common scheduler errors
var (
	ErrInvalidConfig       = errors.New("invalid scheduler configuration")
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
)
