package progress

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracker is the mutex-guarded status record of one provisioning run.
// Safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	runID      uuid.UUID
	domain     string
	steps      []Step
	active     StepID
	result     Result
	cert       *Certificate
	startedAt  time.Time
	finishedAt *time.Time
	history    []Transition
	subs       map[*subscriber]struct{}
	done       chan struct{}
	now        func() time.Time
}

type subscriber struct {
	ch chan Snapshot
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithRunID sets the run identifier reported in snapshots.
func WithRunID(id uuid.UUID) Option {
	return func(t *Tracker) {
		t.runID = id
	}
}

// WithDomain sets the domain reported in snapshots.
func WithDomain(domain string) Option {
	return func(t *Tracker) {
		t.domain = domain
	}
}

// WithClock overrides time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// New creates a tracker with every step PENDING.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		subs: make(map[*subscriber]struct{}),
		done: make(chan struct{}),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.startedAt = t.now()
	t.steps = make([]Step, 0, len(Steps))
	for _, id := range Steps {
		t.steps = append(t.steps, Step{
			ID:        id,
			Label:     id.Label(),
			Status:    StatusPending,
			UpdatedAt: t.startedAt,
		})
	}
	return t
}

// SetStatus overwrites the status of one step. A step may only move out of PENDING.
func (t *Tracker) SetStatus(id StepID, status Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminalLocked() {
		return ErrTerminal
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	i := t.indexLocked(id)
	if i < 0 {
		return ErrUnknownStep
	}
	if t.steps[i].Status != StatusPending {
		return ErrInvalidTransition
	}

	t.applyLocked(i, status)
	switch {
	case status == StatusPending:
		t.active = id
	case t.active == id:
		t.active = ""
	}

	t.publishLocked()
	return nil
}

// SetComplete marks the run successful. Every step must already be SUCCESS.
func (t *Tracker) SetComplete() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminalLocked() {
		return ErrTerminal
	}
	for _, st := range t.steps {
		if st.Status != StatusSuccess {
			return ErrIncomplete
		}
	}

	t.result.Complete = true
	t.finishLocked()
	return nil
}

// SetError records the failure message and rewrites every PENDING step to FAILURE
// in the same critical section. Steps that already succeeded keep SUCCESS.
func (t *Tracker) SetError(message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminalLocked() {
		return ErrTerminal
	}
	if message == "" {
		return ErrEmptyError
	}

	t.result.Error = message
	for i := range t.steps {
		if t.steps[i].Status == StatusPending {
			t.applyLocked(i, StatusFailure)
		}
	}
	t.finishLocked()
	return nil
}

// SetCertificate attaches information about the issued certificate.
func (t *Tracker) SetCertificate(cert Certificate) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminalLocked() {
		return ErrTerminal
	}
	c := cert
	c.DNSNames = slices.Clone(cert.DNSNames)
	t.cert = &c

	t.publishLocked()
	return nil
}

// Snapshot returns a consistent copy of the whole record.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// History returns the applied step transitions in order.
func (t *Tracker) History() []Transition {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.history)
}

// Done is closed once the tracker reaches a terminal state.
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}

// Subscribe returns a channel that receives the current snapshot immediately and
// then a snapshot after every write. A slow reader only ever misses intermediate
// snapshots: the latest one always replaces a pending one. The channel is closed
// after the terminal snapshot or when ctx is done.
func (t *Tracker) Subscribe(ctx context.Context) <-chan Snapshot {
	sub := &subscriber{ch: make(chan Snapshot, 1)}

	t.mu.Lock()
	sub.ch <- t.snapshotLocked()
	if t.terminalLocked() {
		close(sub.ch)
		t.mu.Unlock()
		return sub.ch
	}
	t.subs[sub] = struct{}{}
	t.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			t.unsubscribe(sub)
		case <-t.done:
		}
	}()

	return sub.ch
}

func (t *Tracker) unsubscribe(sub *subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.subs[sub]; ok {
		delete(t.subs, sub)
		close(sub.ch)
	}
}

func (t *Tracker) terminalLocked() bool {
	return t.result.Complete || t.result.Error != ""
}

func (t *Tracker) indexLocked(id StepID) int {
	for i := range t.steps {
		if t.steps[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) applyLocked(i int, status Status) {
	now := t.now()
	t.history = append(t.history, Transition{
		Step: t.steps[i].ID,
		From: t.steps[i].Status,
		To:   status,
		At:   now,
	})
	t.steps[i].Status = status
	t.steps[i].UpdatedAt = now
}

// finishLocked publishes the terminal snapshot, then closes every subscriber and Done.
func (t *Tracker) finishLocked() {
	now := t.now()
	t.finishedAt = &now
	t.active = ""

	t.publishLocked()
	for sub := range t.subs {
		close(sub.ch)
		delete(t.subs, sub)
	}
	close(t.done)
}

func (t *Tracker) publishLocked() {
	if len(t.subs) == 0 {
		return
	}
	snap := t.snapshotLocked()
	for sub := range t.subs {
		select {
		case sub.ch <- snap:
		default:
			// Drop the stale snapshot. Only this goroutine sends, under t.mu,
			// so the buffer has room after the drain.
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- snap
		}
	}
}

func (t *Tracker) snapshotLocked() Snapshot {
	snap := Snapshot{
		RunID:     t.runID,
		Domain:    t.domain,
		Steps:     slices.Clone(t.steps),
		Active:    t.active,
		Result:    t.result,
		StartedAt: t.startedAt,
	}
	if t.cert != nil {
		c := *t.cert
		c.DNSNames = slices.Clone(t.cert.DNSNames)
		snap.Certificate = &c
	}
	if t.finishedAt != nil {
		at := *t.finishedAt
		snap.FinishedAt = &at
	}
	return snap
}
