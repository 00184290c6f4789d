package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sslsetup/core/config"
	"github.com/dmitrymomot/sslsetup/core/container"
	"github.com/dmitrymomot/sslsetup/core/logger"
	"github.com/dmitrymomot/sslsetup/core/provision"
	"github.com/dmitrymomot/sslsetup/core/server"
	"github.com/dmitrymomot/sslsetup/core/web"
	"github.com/dmitrymomot/sslsetup/integration/docker"
	"github.com/dmitrymomot/sslsetup/pkg/netinfo"
)

// shutdownGrace bounds how long in-flight runs may finish after a signal.
const shutdownGrace = 10 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg)

	log := newLogger(cfg)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("application failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info("application stopped")
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	if err := cfg.Provision.Validate(); err != nil {
		return err
	}

	engine, closeEngine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeEngine.Close(); err != nil {
			log.Warn("close container engine", logger.Error(err))
		}
	}()

	pipeline := provision.NewPipeline(engine, cfg.Provision, provision.WithPipelineLogger(log))
	svc := provision.NewService(pipeline, provision.WithServiceLogger(log))

	handler := web.New(svc,
		web.WithLogger(log),
		web.WithSuggester(netinfo.NewFromConfig(cfg.Netinfo)),
		web.WithReadinessChecks(engine.Ping),
	)

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(srv.Run(egCtx, handler))
	eg.Go(func() error {
		<-egCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := svc.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("wait for provisioning runs: %w", err)
		}
		return nil
	})

	return eg.Wait()
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{logger.WithProduction(cfg.AppName)}
	if cfg.AppEnv == "development" {
		opts = []logger.Option{logger.WithDevelopment(cfg.AppName)}
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	return logger.New(opts...)
}

func newEngine(cfg Config, log *slog.Logger) (container.Engine, io.Closer, error) {
	switch cfg.Engine {
	case engineDocker:
		eng, err := docker.New(cfg.Docker, docker.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		return eng, eng, nil
	case engineMemory:
		log.Warn("dry run: no containers will be started", logger.Key("engine", engineMemory))
		return container.NewMemoryEngine(), io.NopCloser(nil), nil
	default:
		return nil, nil, errors.New("unknown engine " + cfg.Engine)
	}
}
