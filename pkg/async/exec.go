package async

import (
	"context"
	"errors"
)

// ExecFuture is the pending result of a function that only returns an error.
type ExecFuture struct {
	err  error
	done chan struct{}
}

// Done is closed once the function has returned.
func (f *ExecFuture) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the function returns and yields its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// AwaitContext is Await bounded by ctx. It returns ctx.Err() if ctx ends
// first; the function keeps running.
func (f *ExecFuture) AwaitContext(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsComplete reports whether the function has returned.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Exec calls fn(ctx, param) on a new goroutine.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.err = fn(ctx, param)
	}()

	return f
}

// ExecAll waits for every future, bounded by ctx, and joins their errors.
func ExecAll(ctx context.Context, futures ...*ExecFuture) error {
	var errs []error
	for _, f := range futures {
		if err := f.AwaitContext(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
