package progress

import "errors"

var (
	// ErrUnknownStep is returned for a step identifier the tracker does not hold.
	ErrUnknownStep = errors.New("unknown step")

	// ErrInvalidStatus is returned for a status outside PENDING/SUCCESS/FAILURE.
	ErrInvalidStatus = errors.New("invalid step status")

	// ErrInvalidTransition is returned when a step would leave SUCCESS or FAILURE.
	ErrInvalidTransition = errors.New("invalid step transition")

	// ErrTerminal is returned for any write after Complete or Error was set.
	ErrTerminal = errors.New("run already finished")

	// ErrIncomplete is returned by SetComplete while some step is not SUCCESS.
	ErrIncomplete = errors.New("not all steps succeeded")

	// ErrEmptyError is returned by SetError for an empty message.
	ErrEmptyError = errors.New("error message is empty")
)
