package scheduler

import "errors"

var (
	// ErrAlreadyRunning is returned when starting a scheduler twice
	ErrAlreadyRunning = errors.New("scheduler is already running")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
