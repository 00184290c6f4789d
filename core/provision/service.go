package provision

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sslsetup/core/logger"
	"github.com/dmitrymomot/sslsetup/core/progress"
	"github.com/dmitrymomot/sslsetup/pkg/async"
)

// Runner executes one provisioning run. *Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, req Request, tracker *progress.Tracker) error
}

// Run is the handle of one provisioning run.
type Run struct {
	ID        uuid.UUID
	Request   Request
	CreatedAt time.Time

	tracker *progress.Tracker
	future  *async.ExecFuture

	// after is closed when the previous run finished; turn is closed when this one does.
	after <-chan struct{}
	turn  chan struct{}
}

// Snapshot returns the current progress of the run.
func (r *Run) Snapshot() progress.Snapshot {
	return r.tracker.Snapshot()
}

// Subscribe streams progress snapshots until the run finishes or ctx ends.
func (r *Run) Subscribe(ctx context.Context) <-chan progress.Snapshot {
	return r.tracker.Subscribe(ctx)
}

// Done is closed when the pipeline goroutine has returned.
func (r *Run) Done() <-chan struct{} {
	return r.future.Done()
}

// Wait blocks until the run finishes or ctx ends and returns the pipeline error.
func (r *Run) Wait(ctx context.Context) error {
	return r.future.AwaitContext(ctx)
}

// Service starts provisioning runs and keeps them in memory for status queries.
// Runs execute one at a time in the order they were started.
type Service struct {
	runner Runner
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	runs   map[uuid.UUID]*Run
	order  []uuid.UUID
	tail   <-chan struct{}
	closed bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the service logger.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithServiceClock overrides time.Now for run timestamps.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service executing runs with runner.
func NewService(runner Runner, opts ...ServiceOption) *Service {
	s := &Service{
		runner: runner,
		logger: logger.Nop(),
		now:    time.Now,
		runs:   make(map[uuid.UUID]*Run),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("provision.service"))
	return s
}

// Start validates req and starts a run in the background. The run does not
// observe ctx cancellation; it always proceeds to success or failure.
func (s *Service) Start(ctx context.Context, req Request) (*Run, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	run := &Run{
		ID:        id,
		Request:   req,
		CreatedAt: s.now(),
		tracker:   progress.New(progress.WithRunID(id), progress.WithDomain(req.Domain), progress.WithClock(s.now)),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrShuttingDown
	}

	run.after = s.tail
	run.turn = make(chan struct{})
	s.tail = run.turn

	run.future = async.Exec(context.WithoutCancel(ctx), run, s.execute)
	s.runs[id] = run
	s.order = append(s.order, id)

	s.logger.InfoContext(ctx, "run queued", logger.RunID(id.String()), logger.Domain(req.Domain))
	return run, nil
}

func (s *Service) execute(ctx context.Context, run *Run) error {
	if run.after != nil {
		<-run.after
	}
	defer close(run.turn)

	s.logger.InfoContext(ctx, "run started", logger.RunID(run.ID.String()), logger.Domain(run.Request.Domain))
	return s.runner.Run(ctx, run.Request, run.tracker)
}

// Get returns the run with id.
func (s *Service) Get(id uuid.UUID) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// List returns all retained runs, oldest first.
func (s *Service) List() []*Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Run, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.runs[id])
	}
	return out
}

// Forget drops a finished run.
func (s *Service) Forget(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return ErrRunNotFound
	}
	if !run.future.IsComplete() {
		return ErrRunInProgress
	}

	delete(s.runs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Shutdown rejects new runs and waits for started ones until ctx ends.
// Pipeline errors of individual runs are not returned.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	futures := make([]*async.ExecFuture, 0, len(s.runs))
	for _, run := range s.runs {
		futures = append(futures, run.future)
	}
	s.mu.Unlock()

	pending := 0
	for _, f := range futures {
		if !f.IsComplete() {
			pending++
		}
	}
	if pending > 0 {
		s.logger.InfoContext(ctx, "waiting for runs", logger.Key("pending", pending))
	}

	if err := async.ExecAll(ctx, futures...); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
