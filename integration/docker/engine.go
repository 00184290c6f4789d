package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	dcontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/dmitrymomot/sslsetup/core/container"
	"github.com/dmitrymomot/sslsetup/core/logger"
)

// removeTimeout bounds the cleanup of a finished synchronous container.
const removeTimeout = 30 * time.Second

// Engine is a container.Engine backed by a Docker daemon.
type Engine struct {
	cli    *client.Client
	logger *slog.Logger
}

var _ container.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine. It does not contact the daemon; call Ping for that.
func New(cfg Config, opts ...Option) (*Engine, error) {
	clientOpts := []client.Opt{client.FromEnv}
	if cfg.Host != "" {
		clientOpts = append(clientOpts, client.WithHost(cfg.Host))
	}
	if cfg.APIVersion != "" {
		clientOpts = append(clientOpts, client.WithVersion(cfg.APIVersion))
	} else {
		clientOpts = append(clientOpts, client.WithAPIVersionNegotiation())
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, container.NewError(container.OpPing, cfg.Host, container.ErrEngineUnavailable, err)
	}

	e := &Engine{cli: cli, logger: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logger.Component("docker"))
	return e, nil
}

// Close releases the client's transport.
func (e *Engine) Close() error {
	return e.cli.Close()
}

// Ping implements container.Engine.
func (e *Engine) Ping(ctx context.Context) error {
	if _, err := e.cli.Ping(ctx); err != nil {
		return classify(container.OpPing, e.cli.DaemonHost(), container.ErrEngineUnavailable, err)
	}
	return nil
}

// PullImage implements container.Engine. The pull progress stream is drained so
// that errors reported mid-stream surface as pull failures.
func (e *Engine) PullImage(ctx context.Context, ref string) error {
	start := time.Now()

	rc, err := e.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return classify(container.OpPull, ref, container.ErrImagePull, err)
	}
	defer rc.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(rc, io.Discard, 0, false, nil); err != nil {
		return classify(container.OpPull, ref, container.ErrImagePull, err)
	}

	e.logger.DebugContext(ctx, "image pulled", logger.Image(ref), logger.Elapsed(start))
	return nil
}

// Run implements container.Engine.
func (e *Engine) Run(ctx context.Context, spec container.Spec) (*container.Handle, error) {
	if err := spec.Validate(); err != nil {
		return nil, container.NewError(container.OpRun, spec.Name, container.ErrInvalidSpec, nil)
	}

	cfg, hostCfg, err := containerConfig(spec)
	if err != nil {
		return nil, container.NewError(container.OpRun, spec.Name, container.ErrInvalidSpec, err)
	}

	created, err := e.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return nil, classify(container.OpRun, spec.Name, container.ErrRunFailed, err)
	}
	for _, w := range created.Warnings {
		e.logger.WarnContext(ctx, w, logger.Container(spec.Name))
	}

	h := &container.Handle{ID: created.ID, Name: spec.Name, Image: spec.Image}
	if h.Name == "" {
		h.Name = created.ID
	}

	if err := e.cli.ContainerStart(ctx, created.ID, dcontainer.StartOptions{}); err != nil {
		e.remove(created.ID)
		return nil, classify(container.OpRun, h.Name, container.ErrRunFailed, err)
	}

	if spec.Detach {
		e.logger.DebugContext(ctx, "container started", logger.Container(h.Name), logger.Image(spec.Image))
		return h, nil
	}

	code, waitErr := e.wait(ctx, created.ID)
	output, logErr := e.logs(ctx, created.ID)
	if spec.AutoRemove {
		e.remove(created.ID)
	}
	h.Output = output

	if waitErr != nil {
		return h, classify(container.OpRun, h.Name, container.ErrRunFailed, waitErr)
	}
	if logErr != nil {
		e.logger.WarnContext(ctx, "collect container logs", logger.Container(h.Name), logger.Error(logErr))
	}
	if code != 0 {
		return h, container.NewError(container.OpRun, h.Name, container.ErrExitStatus, exitError(code, output))
	}

	e.logger.DebugContext(ctx, "container finished", logger.Container(h.Name), logger.Image(spec.Image))
	return h, nil
}

// Get implements container.Engine.
func (e *Engine) Get(ctx context.Context, name string) (*container.Handle, error) {
	info, err := e.cli.ContainerInspect(ctx, name)
	if err != nil {
		return nil, classify(container.OpGet, name, container.ErrNotFound, err)
	}

	h := &container.Handle{ID: info.ID, Name: containerName(info.Name)}
	if info.Config != nil {
		h.Image = info.Config.Image
	}
	return h, nil
}

// Exec implements container.Engine. A non-zero exit code of cmd is an
// ErrExecFailed error carrying the command output.
func (e *Engine) Exec(ctx context.Context, h *container.Handle, cmd []string) (string, error) {
	if h == nil {
		return "", container.NewError(container.OpExec, "", container.ErrNotFound, errors.New("nil container handle"))
	}
	target := h.Name
	id := h.ID
	if id == "" {
		id = h.Name
	}

	created, err := e.cli.ContainerExecCreate(ctx, id, dcontainer.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return "", classify(container.OpExec, target, container.ErrExecFailed, err)
	}

	attached, err := e.cli.ContainerExecAttach(ctx, created.ID, dcontainer.ExecAttachOptions{})
	if err != nil {
		return "", classify(container.OpExec, target, container.ErrExecFailed, err)
	}
	defer attached.Close()

	var out bytes.Buffer
	if _, err := stdcopy.StdCopy(&out, &out, attached.Reader); err != nil {
		return out.String(), classify(container.OpExec, target, container.ErrExecFailed, err)
	}

	inspect, err := e.cli.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return out.String(), classify(container.OpExec, target, container.ErrExecFailed, err)
	}
	if inspect.ExitCode != 0 {
		return out.String(), container.NewError(container.OpExec, target, container.ErrExecFailed,
			exitError(int64(inspect.ExitCode), out.String()))
	}
	return out.String(), nil
}

func (e *Engine) wait(ctx context.Context, id string) (int64, error) {
	statusCh, errCh := e.cli.ContainerWait(ctx, id, dcontainer.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return 0, err
	case st := <-statusCh:
		if st.Error != nil && st.Error.Message != "" {
			return st.StatusCode, errors.New(st.Error.Message)
		}
		return st.StatusCode, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (e *Engine) logs(ctx context.Context, id string) (string, error) {
	rc, err := e.cli.ContainerLogs(ctx, id, dcontainer.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var out bytes.Buffer
	if _, err := stdcopy.StdCopy(&out, &out, rc); err != nil {
		return out.String(), fmt.Errorf("demultiplex logs: %w", err)
	}
	return out.String(), nil
}

// remove force-removes a container on a fresh context so cleanup still runs
// when the caller's context is already done.
func (e *Engine) remove(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()

	if err := e.cli.ContainerRemove(ctx, id, dcontainer.RemoveOptions{Force: true}); err != nil {
		e.logger.Warn("remove container", logger.Container(id), logger.Error(err))
	}
}
