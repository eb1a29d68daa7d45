package scheduler

import "errors"

var (
	// ErrInvalidSchedule is returned for a schedule that is not "minute hour * * *"
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrAlreadyRunning is returned by Start on a started trigger
	ErrAlreadyRunning = errors.New("trigger already running")
)
