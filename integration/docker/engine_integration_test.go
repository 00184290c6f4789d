//go:build integration

package docker_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/dmitrymomot/sslsetup/core/container"
	"github.com/dmitrymomot/sslsetup/integration/docker"
)

const testImage = "alpine:3.20"

func newEngine(t *testing.T) *docker.Engine {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	eng, err := docker.New(docker.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	require.NoError(t, eng.Ping(ctx))
	require.NoError(t, eng.PullImage(ctx, testImage))
	return eng
}

func TestEngineSynchronousRun(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	h, err := eng.Run(ctx, container.Spec{
		Image:      testImage,
		Name:       "sslsetup-it-" + uuid.NewString()[:8],
		Command:    []string{"sh", "-c", "echo issued; echo warn >&2"},
		AutoRemove: true,
	})
	require.NoError(t, err)
	assert.Contains(t, h.Output, "issued")
	assert.Contains(t, h.Output, "warn")

	_, err = eng.Get(ctx, h.Name)
	assert.ErrorIs(t, err, container.ErrNotFound)
}

func TestEngineExitStatus(t *testing.T) {
	eng := newEngine(t)

	h, err := eng.Run(context.Background(), container.Spec{
		Image:      testImage,
		Name:       "sslsetup-it-" + uuid.NewString()[:8],
		Command:    []string{"sh", "-c", "echo challenge failed; exit 3"},
		AutoRemove: true,
	})
	require.ErrorIs(t, err, container.ErrExitStatus)
	assert.Contains(t, err.Error(), "exit status 3: challenge failed")
	require.NotNil(t, h)
}

func TestEngineDetachedExecAndConflict(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	name := "sslsetup-it-" + uuid.NewString()[:8]

	spec := container.Spec{
		Image:      testImage,
		Name:       name,
		Command:    []string{"sleep", "60"},
		Detach:     true,
		AutoRemove: true,
	}
	h, err := eng.Run(ctx, spec)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = eng.Exec(context.Background(), h, []string{"kill", "1"})
	})

	_, err = eng.Run(ctx, spec)
	assert.ErrorIs(t, err, container.ErrNameConflict)

	got, err := eng.Get(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, h.ID, got.ID)
	assert.Equal(t, name, got.Name)

	out, err := eng.Exec(ctx, got, []string{"echo", "reloaded"})
	require.NoError(t, err)
	assert.Equal(t, "reloaded\n", out)

	_, err = eng.Exec(ctx, got, []string{"false"})
	assert.ErrorIs(t, err, container.ErrExecFailed)
}
