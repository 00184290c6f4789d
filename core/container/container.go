package container

import (
	"context"
	"fmt"
	"strings"
)

// Engine is the lifecycle contract consumed by the provisioning pipeline.
// Implementations must be safe for concurrent use.
type Engine interface {
	// PullImage fetches ref into the engine's local image store.
	PullImage(ctx context.Context, ref string) error

	// Run creates and starts a container. With spec.Detach unset it blocks until the
	// container exits, fills Handle.Output and fails on a non-zero exit status.
	Run(ctx context.Context, spec Spec) (*Handle, error)

	// Get returns the container with the given name.
	Get(ctx context.Context, name string) (*Handle, error)

	// Exec runs cmd inside the container and returns its combined output.
	Exec(ctx context.Context, h *Handle, cmd []string) (string, error)

	// Ping reports whether the engine is reachable.
	Ping(ctx context.Context) error
}

// Mode is the access mode of a volume binding.
type Mode string

const (
	ReadOnly  Mode = "ro"
	ReadWrite Mode = "rw"
)

// RestartPolicy is the engine-level restart directive.
type RestartPolicy string

const (
	RestartNo            RestartPolicy = "no"
	RestartAlways        RestartPolicy = "always"
	RestartUnlessStopped RestartPolicy = "unless-stopped"
	RestartOnFailure     RestartPolicy = "on-failure"
)

// Volume binds a host path into the container.
type Volume struct {
	HostPath      string
	ContainerPath string
	Mode          Mode
}

// Bind returns the volume in "host:container:mode" form.
func (v Volume) Bind() string {
	mode := v.Mode
	if mode == "" {
		mode = ReadWrite
	}
	return v.HostPath + ":" + v.ContainerPath + ":" + string(mode)
}

// Port publishes a container port on the host.
type Port struct {
	Container int
	Host      int
	Protocol  string // "tcp" when empty
}

// Proto returns the port protocol, defaulting to tcp.
func (p Port) Proto() string {
	if p.Protocol == "" {
		return "tcp"
	}
	return strings.ToLower(p.Protocol)
}

// String returns the port in "80/tcp" form.
func (p Port) String() string {
	return fmt.Sprintf("%d/%s", p.Container, p.Proto())
}

// Spec declares a container to run.
type Spec struct {
	Image         string
	Name          string
	Command       []string
	Volumes       []Volume
	Ports         []Port
	RestartPolicy RestartPolicy
	NetworkMode   string
	Detach        bool
	AutoRemove    bool
}

// Validate checks the fields every engine needs.
func (s Spec) Validate() error {
	if s.Image == "" {
		return ErrInvalidSpec
	}
	for _, v := range s.Volumes {
		if v.HostPath == "" || v.ContainerPath == "" {
			return ErrInvalidSpec
		}
		if v.Mode != "" && v.Mode != ReadOnly && v.Mode != ReadWrite {
			return ErrInvalidSpec
		}
	}
	for _, p := range s.Ports {
		if p.Container <= 0 || p.Container > 65535 || p.Host < 0 || p.Host > 65535 {
			return ErrInvalidSpec
		}
	}
	return nil
}

// Handle identifies a container known to the engine.
type Handle struct {
	ID    string
	Name  string
	Image string

	// Output holds the combined output of a synchronous run.
	Output string
}
