package docker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	dcontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"

	"github.com/dmitrymomot/sslsetup/core/container"
)

// containerConfig translates spec into the create request bodies.
func containerConfig(spec container.Spec) (*dcontainer.Config, *dcontainer.HostConfig, error) {
	cfg := &dcontainer.Config{
		Image: spec.Image,
		Cmd:   spec.Command,
	}
	host := &dcontainer.HostConfig{
		NetworkMode: dcontainer.NetworkMode(spec.NetworkMode),
		AutoRemove:  spec.AutoRemove && spec.Detach,
	}

	if spec.RestartPolicy != "" && spec.RestartPolicy != container.RestartNo {
		host.RestartPolicy = dcontainer.RestartPolicy{Name: dcontainer.RestartPolicyMode(spec.RestartPolicy)}
	}

	for _, v := range spec.Volumes {
		host.Binds = append(host.Binds, v.Bind())
	}

	if len(spec.Ports) > 0 {
		cfg.ExposedPorts = make(nat.PortSet, len(spec.Ports))
		host.PortBindings = make(nat.PortMap, len(spec.Ports))
		for _, p := range spec.Ports {
			port, err := nat.NewPort(p.Proto(), strconv.Itoa(p.Container))
			if err != nil {
				return nil, nil, fmt.Errorf("port %s: %w", p, err)
			}
			cfg.ExposedPorts[port] = struct{}{}

			binding := nat.PortBinding{}
			if p.Host > 0 {
				binding.HostPort = strconv.Itoa(p.Host)
			}
			host.PortBindings[port] = append(host.PortBindings[port], binding)
		}
	}

	return cfg, host, nil
}

// classify wraps a daemon error into a *container.Error, refining the default
// kind from the error's type.
func classify(op container.Op, target string, kind, err error) error {
	var cerr *container.Error
	if errors.As(err, &cerr) {
		return err
	}

	switch {
	case client.IsErrConnectionFailed(err):
		kind = container.ErrEngineUnavailable
	case op == container.OpRun && errdefs.IsConflict(err):
		kind = container.ErrNameConflict
	case (op == container.OpGet || op == container.OpExec) && errdefs.IsNotFound(err):
		kind = container.ErrNotFound
	}
	return container.NewError(op, target, kind, err)
}

// containerName strips the leading slash the daemon puts on names.
func containerName(name string) string {
	return strings.TrimPrefix(name, "/")
}

// lastLine returns the last non-empty line of output, used to summarise a failed run.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimRight(output, "\r\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}

// exitError describes a non-zero exit status.
func exitError(code int64, output string) error {
	if line := lastLine(output); line != "" {
		return fmt.Errorf("exit status %d: %s", code, line)
	}
	return fmt.Errorf("exit status %d", code)
}
