package container

import (
	"errors"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	ErrImagePull         = errors.New("image pull failed")
	ErrNameConflict      = errors.New("container name already in use")
	ErrEngineUnavailable = errors.New("container engine unreachable")
	ErrNotFound          = errors.New("container not found")
	ErrExecFailed        = errors.New("exec failed")
	ErrExitStatus        = errors.New("container exited with non-zero status")
	ErrRunFailed         = errors.New("container run failed")
	ErrInvalidSpec       = errors.New("invalid container spec")
)

// Op names a lifecycle operation.
type Op string

const (
	OpPull Op = "pull"
	OpRun  Op = "run"
	OpGet  Op = "get"
	OpExec Op = "exec"
	OpPing Op = "ping"
)

// Error is the lifecycle error returned by every Engine implementation.
type Error struct {
	Op     Op
	Target string // image reference or container name
	Kind   error
	Err    error // engine error, may be nil
}

// Error keeps the engine's own message, prefixed with the operation and target.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Op))
	if e.Target != "" {
		b.WriteString(" ")
		b.WriteString(e.Target)
	}
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString(e.Kind.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the engine error to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError builds an *Error.
func NewError(op Op, target string, kind, err error) *Error {
	return &Error{Op: op, Target: target, Kind: kind, Err: err}
}
