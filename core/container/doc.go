// Package container defines the narrow container lifecycle contract used by the
// provisioning pipeline: pull an image, run a container from a declarative Spec,
// look a container up by name, and execute a command inside it.
//
// Implementations:
//
//   - integration/docker.Engine talks to a Docker Engine over its API.
//   - MemoryEngine is an in-process engine for tests and dry runs. It enforces
//     unique container names like a real engine does.
//
// # Core Types
//
// Spec describes a container declaratively. Volumes and ports keep their order,
// so the resulting engine call is deterministic:
//
//	spec := container.Spec{
//		Image: "nginx:alpine",
//		Name:  "nginx",
//		Volumes: []container.Volume{
//			{HostPath: "/nginx/conf", ContainerPath: "/etc/nginx/conf.d", Mode: container.ReadOnly},
//		},
//		Ports: []container.Port{
//			{Container: 80, Host: 80},
//			{Container: 443, Host: 443},
//		},
//		RestartPolicy: container.RestartUnlessStopped,
//		Detach:        true,
//	}
//
// A detached run returns as soon as the container started. A synchronous run
// (Detach unset) waits for the exit, collects the combined output into
// Handle.Output, removes the container when AutoRemove is set and fails with
// ErrExitStatus on a non-zero exit code.
//
// Handle identifies a container returned by Run or Get and is what Exec takes:
//
//	h, err := engine.Get(ctx, "nginx")
//	if err != nil {
//		return err
//	}
//	out, err := engine.Exec(ctx, h, []string{"nginx", "-s", "reload"})
//
// # Errors
//
// Every failure is an *Error that carries the operation, its target and the
// engine's own error. errors.Is matches both the kind and the engine error:
//
//	_, err := engine.Run(ctx, spec)
//	switch {
//	case errors.Is(err, container.ErrNameConflict):
//		// a container with spec.Name already exists
//	case errors.Is(err, container.ErrEngineUnavailable):
//		// engine socket unreachable
//	}
//
// Kinds:
//   - ErrImagePull: the image could not be fetched
//   - ErrNameConflict: the container name is taken
//   - ErrEngineUnavailable: the engine cannot be reached
//   - ErrNotFound: no container with that name
//   - ErrExecFailed: exec could not run or exited non-zero
//   - ErrExitStatus: a synchronous container exited non-zero
//   - ErrRunFailed, ErrInvalidSpec: any other run failure, a malformed Spec
//
// Implementations never retry.
//
// # Testing
//
// MemoryEngine records every call and accepts injected failures per
// operation and target:
//
//	engine := container.NewMemoryEngine(
//		container.WithRunOutput("certbot/certbot", "Successfully received certificate."),
//	)
//	engine.FailOn(container.OpExec, "nginx", errors.New("reload refused"))
//
//	// ... run the code under test ...
//
//	for _, call := range engine.Calls() {
//		fmt.Println(call.Op, call.Target)
//	}
package container
