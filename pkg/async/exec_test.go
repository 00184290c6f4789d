package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sslsetup/pkg/async"
)

func TestExec(t *testing.T) {
	t.Parallel()

	var got atomic.Value
	f := async.Exec(context.Background(), "example.com", func(ctx context.Context, domain string) error {
		got.Store(domain)
		return nil
	})

	require.NoError(t, f.Await())
	assert.True(t, f.IsComplete())
	assert.Equal(t, "example.com", got.Load())
}

func TestExecErrorPropagation(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	f := async.Exec(context.Background(), 1, func(context.Context, int) error { return boom })
	assert.ErrorIs(t, f.Await(), boom)
}

func TestExecSkipsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	f := async.Exec(ctx, 0, func(context.Context, int) error {
		called.Store(true)
		return nil
	})

	assert.ErrorIs(t, f.Await(), context.Canceled)
	assert.False(t, called.Load())
}

func TestExecDetachedContextIgnoresCallerCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	f := async.Exec(context.WithoutCancel(ctx), 0, func(ctx context.Context, _ int) error {
		<-release
		return ctx.Err()
	})
	cancel()
	close(release)

	assert.NoError(t, f.Await())
}

func TestAwaitContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := async.Exec(context.Background(), 0, func(context.Context, int) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.AwaitContext(ctx), context.DeadlineExceeded)
	assert.False(t, f.IsComplete())

	close(release)
	<-f.Done()
	assert.NoError(t, f.AwaitContext(context.Background()))
}

func TestExecAll(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	futures := []*async.ExecFuture{
		async.Exec(context.Background(), 0, func(context.Context, int) error { return nil }),
		async.Exec(context.Background(), 0, func(context.Context, int) error { return boom }),
		async.Exec(context.Background(), 0, func(context.Context, int) error { return nil }),
	}

	assert.ErrorIs(t, async.ExecAll(context.Background(), futures...), boom)
	assert.NoError(t, async.ExecAll(context.Background(), futures[0], futures[2]))
}
