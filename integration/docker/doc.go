// Package docker implements container.Engine over the Docker Engine API.
//
// The engine connects through the standard Docker environment (DOCKER_HOST,
// DOCKER_CERT_PATH, DOCKER_TLS_VERIFY) unless Config overrides the host or
// pins an API version. Without a pinned version the client negotiates one with
// the daemon.
//
//	eng, err := docker.New(docker.Config{}, docker.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	defer eng.Close()
//
//	if err := eng.PullImage(ctx, "nginx:alpine"); err != nil {
//		return err
//	}
//	h, err := eng.Run(ctx, container.Spec{
//		Image:  "nginx:alpine",
//		Name:   "nginx",
//		Ports:  []container.Port{{Container: 80, Host: 80}},
//		Detach: true,
//	})
//
// Every error is a *container.Error. Conflicting names map to
// container.ErrNameConflict, missing containers to container.ErrNotFound and
// connection failures to container.ErrEngineUnavailable. The daemon's own
// message is kept in the wrapped error. Nothing is retried.
//
// Synchronous runs are removed by the engine after their logs are collected,
// so Docker's own auto-remove flag is only set for detached containers.
package docker
