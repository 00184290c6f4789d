package provision_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sslsetup/core/container"
	"github.com/dmitrymomot/sslsetup/core/progress"
	"github.com/dmitrymomot/sslsetup/core/provision"
)

// gateRunner blocks every run until release is closed and records run order.
type gateRunner struct {
	release chan struct{}

	mu      sync.Mutex
	order   []string
	active  atomic.Int32
	maxSeen atomic.Int32
	ctxErrs []error
}

func newGateRunner() *gateRunner {
	return &gateRunner{release: make(chan struct{})}
}

func (g *gateRunner) Run(ctx context.Context, req provision.Request, tracker *progress.Tracker) error {
	n := g.active.Add(1)
	defer g.active.Add(-1)
	for {
		seen := g.maxSeen.Load()
		if n <= seen || g.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	<-g.release

	g.mu.Lock()
	g.order = append(g.order, req.Domain)
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	g.mu.Unlock()
	return nil
}

func TestServiceStartValidates(t *testing.T) {
	t.Parallel()

	svc := provision.NewService(newGateRunner())

	tests := []provision.Request{
		{Domain: ""},
		{Domain: "localhost"},
		{Domain: "example.com;\n}"},
		{Domain: "example.com", Email: "not-an-email"},
	}
	for _, req := range tests {
		_, err := svc.Start(context.Background(), req)
		assert.ErrorIs(t, err, provision.ErrInvalidRequest, req.Domain)
	}
	assert.Empty(t, svc.List())
}

func TestServiceStartReturnsImmediately(t *testing.T) {
	t.Parallel()

	runner := newGateRunner()
	svc := provision.NewService(runner)

	run, err := svc.Start(context.Background(), provision.Request{Domain: "  Example.COM. "})
	require.NoError(t, err)
	assert.Equal(t, "example.com", run.Request.Domain)
	assert.NotEqual(t, uuid.Nil, run.ID)

	snap := run.Snapshot()
	assert.Equal(t, run.ID, snap.RunID)
	assert.Equal(t, "example.com", snap.Domain)
	assert.False(t, snap.Terminal())

	select {
	case <-run.Done():
		t.Fatal("run finished before release")
	default:
	}

	close(runner.release)
	require.NoError(t, run.Wait(context.Background()))
}

func TestServiceRunsOneAtATimeInOrder(t *testing.T) {
	t.Parallel()

	runner := newGateRunner()
	svc := provision.NewService(runner)

	domains := []string{"a.example.com", "b.example.com", "c.example.com"}
	runs := make([]*provision.Run, 0, len(domains))
	for _, d := range domains {
		run, err := svc.Start(context.Background(), provision.Request{Domain: d})
		require.NoError(t, err)
		runs = append(runs, run)
	}

	close(runner.release)
	for _, run := range runs {
		require.NoError(t, run.Wait(context.Background()))
	}

	assert.Equal(t, int32(1), runner.maxSeen.Load())
	assert.Equal(t, domains, runner.order)
}

func TestServiceRunIgnoresCallerCancel(t *testing.T) {
	t.Parallel()

	runner := newGateRunner()
	svc := provision.NewService(runner)

	ctx, cancel := context.WithCancel(context.Background())
	run, err := svc.Start(ctx, provision.Request{Domain: "example.com"})
	require.NoError(t, err)
	cancel()

	close(runner.release)
	require.NoError(t, run.Wait(context.Background()))
	assert.Equal(t, []error{nil}, runner.ctxErrs)
}

func TestServiceRegistry(t *testing.T) {
	t.Parallel()

	runner := newGateRunner()
	svc := provision.NewService(runner)

	first, err := svc.Start(context.Background(), provision.Request{Domain: "a.example.com"})
	require.NoError(t, err)
	second, err := svc.Start(context.Background(), provision.Request{Domain: "b.example.com"})
	require.NoError(t, err)

	got, err := svc.Get(first.ID)
	require.NoError(t, err)
	assert.Same(t, first, got)

	_, err = svc.Get(uuid.New())
	assert.ErrorIs(t, err, provision.ErrRunNotFound)

	assert.Equal(t, []*provision.Run{first, second}, svc.List())
	assert.ErrorIs(t, svc.Forget(first.ID), provision.ErrRunInProgress)

	close(runner.release)
	require.NoError(t, second.Wait(context.Background()))
	<-first.Done()

	require.NoError(t, svc.Forget(first.ID))
	assert.ErrorIs(t, svc.Forget(first.ID), provision.ErrRunNotFound)
	assert.Equal(t, []*provision.Run{second}, svc.List())
}

func TestServiceShutdown(t *testing.T) {
	t.Parallel()

	runner := newGateRunner()
	svc := provision.NewService(runner)

	run, err := svc.Start(context.Background(), provision.Request{Domain: "example.com"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Shutdown(ctx), context.DeadlineExceeded)

	_, err = svc.Start(context.Background(), provision.Request{Domain: "example.com"})
	assert.ErrorIs(t, err, provision.ErrShuttingDown)

	close(runner.release)
	require.NoError(t, svc.Shutdown(context.Background()))
	assert.True(t, isClosed(run.Done()))
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestServiceSecondRunForSameDomainCollides(t *testing.T) {
	t.Parallel()

	eng := container.NewMemoryEngine()
	svc := provision.NewService(provision.NewPipeline(eng, testConfig(t)))
	req := provision.Request{Domain: "example.com", Email: "a@b.com"}

	first, err := svc.Start(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Start(context.Background(), req)
	require.NoError(t, err)

	require.NoError(t, first.Wait(context.Background()))
	err = second.Wait(context.Background())
	assert.ErrorIs(t, err, container.ErrNameConflict)

	var stepErr *provision.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, progress.StepNginx, stepErr.Step)

	assert.True(t, first.Snapshot().Result.Complete)
	snap := second.Snapshot()
	assert.True(t, snap.Terminal())
	assert.Contains(t, snap.Result.Error, "already in use")
}

func TestServiceSubscribeStreamsUntilTerminal(t *testing.T) {
	t.Parallel()

	svc := provision.NewService(provision.NewPipeline(container.NewMemoryEngine(), testConfig(t)))
	run, err := svc.Start(context.Background(), provision.Request{Domain: "example.com"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var last progress.Snapshot
	for snap := range run.Subscribe(ctx) {
		last = snap
	}
	require.NoError(t, ctx.Err())
	assert.True(t, last.Result.Complete)
}
