package provision

import (
	"errors"

	"github.com/dmitrymomot/sslsetup/core/progress"
)

var (
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid provisioning config")

	// ErrInvalidRequest wraps every request validation failure.
	ErrInvalidRequest = errors.New("invalid provisioning request")

	// ErrInvalidEmail is returned for an email that is not a bare address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrRunNotFound is returned for an unknown run id.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunInProgress is returned when forgetting a run that has not finished.
	ErrRunInProgress = errors.New("run in progress")

	// ErrShuttingDown is returned by Start after Shutdown was called.
	ErrShuttingDown = errors.New("service is shutting down")
)

// StepError is returned by Pipeline.Run when a step fails.
type StepError struct {
	Step progress.StepID
	Err  error
}

func (e *StepError) Error() string {
	if msg := e.Err.Error(); msg != "" {
		return string(e.Step) + ": " + msg
	}
	return string(e.Step) + " failed"
}

func (e *StepError) Unwrap() error {
	return e.Err
}
