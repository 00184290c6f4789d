package container

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Call records one operation received by a MemoryEngine.
type Call struct {
	Op     Op
	Target string
	Spec   *Spec    // set for OpRun
	Cmd    []string // set for OpExec
}

type memContainer struct {
	handle  Handle
	spec    Spec
	running bool
}

type failKey struct {
	op     Op
	target string
}

// MemoryEngine implements Engine in memory for tests and dry runs.
// Container names are unique; a synchronous auto-removed run frees its name on exit.
type MemoryEngine struct {
	mu          sync.Mutex
	images      map[string]struct{}
	containers  map[string]*memContainer
	calls       []Call
	failures    map[failKey]error
	runOutputs  map[string]string
	execOutputs map[string]string
}

// MemoryEngineOption configures a MemoryEngine.
type MemoryEngineOption func(*MemoryEngine)

// WithRunOutput sets the output produced by synchronous runs of image.
func WithRunOutput(image, output string) MemoryEngineOption {
	return func(m *MemoryEngine) {
		m.runOutputs[image] = output
	}
}

// WithExecOutput sets the output produced by exec calls in the named container.
func WithExecOutput(name, output string) MemoryEngineOption {
	return func(m *MemoryEngine) {
		m.execOutputs[name] = output
	}
}

// WithImages marks images as already present locally.
func WithImages(refs ...string) MemoryEngineOption {
	return func(m *MemoryEngine) {
		for _, ref := range refs {
			m.images[ref] = struct{}{}
		}
	}
}

// NewMemoryEngine creates an empty in-memory engine.
func NewMemoryEngine(opts ...MemoryEngineOption) *MemoryEngine {
	m := &MemoryEngine{
		images:      make(map[string]struct{}),
		containers:  make(map[string]*memContainer),
		failures:    make(map[failKey]error),
		runOutputs:  make(map[string]string),
		execOutputs: make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FailOn makes every later op on target fail with err wrapped in an *Error.
// An empty target matches any target. Passing a nil err clears the failure.
func (m *MemoryEngine) FailOn(op Op, target string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := failKey{op: op, target: target}
	if err == nil {
		delete(m.failures, key)
		return
	}
	m.failures[key] = err
}

// Calls returns a copy of all recorded calls in order.
func (m *MemoryEngine) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// Containers returns handles of all containers the engine currently holds.
func (m *MemoryEngine) Containers() []Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Handle, 0, len(m.containers))
	for _, c := range m.containers {
		out = append(out, c.handle)
	}
	slices.SortFunc(out, func(a, b Handle) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// Remove deletes a container by name. It reports whether the container existed.
func (m *MemoryEngine) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.containers[name]
	delete(m.containers, name)
	return ok
}

// PullImage implements Engine.
func (m *MemoryEngine) PullImage(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Op: OpPull, Target: ref})
	if err := m.injected(OpPull, ref, ErrImagePull); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return NewError(OpPull, ref, ErrImagePull, err)
	}
	if ref == "" {
		return NewError(OpPull, ref, ErrImagePull, errors.New("empty image reference"))
	}

	m.images[ref] = struct{}{}
	return nil
}

// Run implements Engine.
func (m *MemoryEngine) Run(ctx context.Context, spec Spec) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	specCopy := cloneSpec(spec)
	m.calls = append(m.calls, Call{Op: OpRun, Target: spec.Name, Spec: &specCopy})

	if err := spec.Validate(); err != nil {
		return nil, NewError(OpRun, spec.Name, ErrInvalidSpec, nil)
	}
	if err := m.injected(OpRun, spec.Name, ErrRunFailed); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, NewError(OpRun, spec.Name, ErrRunFailed, err)
	}
	if _, ok := m.images[spec.Image]; !ok {
		return nil, NewError(OpRun, spec.Name, ErrRunFailed, errors.New("no such image: "+spec.Image))
	}

	name := spec.Name
	if name == "" {
		name = uuid.NewString()
	}
	if _, exists := m.containers[name]; exists {
		return nil, NewError(OpRun, name, ErrNameConflict,
			errors.New(`the container name "/`+name+`" is already in use`))
	}

	h := Handle{
		ID:    uuid.NewString(),
		Name:  name,
		Image: spec.Image,
	}

	if !spec.Detach {
		h.Output = m.runOutputs[spec.Image]
		if !spec.AutoRemove {
			m.containers[name] = &memContainer{handle: h, spec: specCopy}
		}
		return &h, nil
	}

	m.containers[name] = &memContainer{handle: h, spec: specCopy, running: true}
	return &h, nil
}

// Get implements Engine.
func (m *MemoryEngine) Get(ctx context.Context, name string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Op: OpGet, Target: name})
	if err := m.injected(OpGet, name, ErrNotFound); err != nil {
		return nil, err
	}

	c, ok := m.containers[name]
	if !ok {
		return nil, NewError(OpGet, name, ErrNotFound, errors.New("no such container: "+name))
	}
	h := c.handle
	return &h, nil
}

// Exec implements Engine.
func (m *MemoryEngine) Exec(ctx context.Context, h *Handle, cmd []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	target := ""
	if h != nil {
		target = h.Name
	}
	m.calls = append(m.calls, Call{Op: OpExec, Target: target, Cmd: slices.Clone(cmd)})

	if err := m.injected(OpExec, target, ErrExecFailed); err != nil {
		return "", err
	}
	if h == nil {
		return "", NewError(OpExec, target, ErrNotFound, errors.New("nil container handle"))
	}
	c, ok := m.containers[h.Name]
	if !ok {
		return "", NewError(OpExec, target, ErrNotFound, errors.New("no such container: "+h.Name))
	}
	if !c.running {
		return "", NewError(OpExec, target, ErrExecFailed, errors.New("container "+h.Name+" is not running"))
	}
	return m.execOutputs[h.Name], nil
}

// Ping implements Engine.
func (m *MemoryEngine) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.injected(OpPing, "", ErrEngineUnavailable)
}

// injected must be called with m.mu held.
func (m *MemoryEngine) injected(op Op, target string, kind error) error {
	if err, ok := m.failures[failKey{op: op, target: target}]; ok {
		return NewError(op, target, kind, err)
	}
	if err, ok := m.failures[failKey{op: op}]; ok {
		return NewError(op, target, kind, err)
	}
	return nil
}

func cloneSpec(s Spec) Spec {
	s.Command = slices.Clone(s.Command)
	s.Volumes = slices.Clone(s.Volumes)
	s.Ports = slices.Clone(s.Ports)
	return s
}
