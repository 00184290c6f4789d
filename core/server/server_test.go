package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sslsetup/core/server"
)

func hello() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
}

func TestServerRunServesUntilCanceled(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, hello())() }()

	select {
	case <-srv.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not bind")
	}

	resp, err := http.Get("http://" + srv.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = http.Get("http://" + srv.Addr().String() + "/")
	assert.Error(t, err)
}

func TestServerRunReturnsListenError(t *testing.T) {
	t.Parallel()

	first := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = first.Run(ctx, hello())() }()
	<-first.Ready()

	second := server.New(first.Addr().String())
	err := second.Run(context.Background(), hello())()
	assert.Error(t, err)
}

func TestServerStartTwice(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Start(ctx, hello()) }()
	<-srv.Ready()

	assert.ErrorIs(t, srv.Start(ctx, hello()), server.ErrServerAlreadyRunning)
	require.NoError(t, srv.Stop())
	assert.NoError(t, srv.Stop())
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := server.DefaultConfig()
	assert.Equal(t, ":8070", cfg.Addr)

	srv, err := server.NewFromConfig(cfg, server.WithShutdownTimeout(time.Second))
	require.NoError(t, err)
	assert.NotNil(t, srv)
	assert.Nil(t, srv.Addr())

	_, err = server.NewFromConfig(server.Config{})
	assert.ErrorIs(t, err, server.ErrMissingAddress)
}
