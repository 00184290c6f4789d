package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/moby/sys/atomicwriter"

	"github.com/dmitrymomot/sslsetup/core/container"
	"github.com/dmitrymomot/sslsetup/core/logger"
	"github.com/dmitrymomot/sslsetup/core/nginxconf"
	"github.com/dmitrymomot/sslsetup/core/progress"
	"github.com/dmitrymomot/sslsetup/pkg/letsencrypt"
)

const (
	dirPerm  os.FileMode = 0o755
	confPerm os.FileMode = 0o644
)

// Pipeline runs the four provisioning steps against a container engine.
// A Pipeline holds no per-run state; Service serializes runs that share host paths.
type Pipeline struct {
	engine container.Engine
	cfg    Config
	logger *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets the pipeline logger.
func WithPipelineLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates a Pipeline.
func NewPipeline(engine container.Engine, cfg Config, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		engine: engine,
		cfg:    cfg,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(logger.Component("provision"))
	return p
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

type stepFunc func(ctx context.Context, req Request, tracker *progress.Tracker) error

// Run executes the steps in order. It is the only place step errors are caught:
// on the first failure the message is recorded in tracker, every PENDING step
// becomes FAILURE and a *StepError is returned. On success the tracker is
// marked complete.
func (p *Pipeline) Run(ctx context.Context, req Request, tracker *progress.Tracker) error {
	snap := tracker.Snapshot()
	log := p.logger.With(logger.RunID(snap.RunID.String()), logger.Domain(req.Domain))
	start := time.Now()

	steps := []struct {
		id progress.StepID
		fn stepFunc
	}{
		{progress.StepNginx, p.startProxy},
		{progress.StepCertbot, p.issueCertificate},
		{progress.StepNginxConfig, p.enableHTTPS},
		{progress.StepNginxRestart, p.reloadProxy},
	}

	for _, s := range steps {
		if err := tracker.SetStatus(s.id, progress.StatusPending); err != nil {
			return p.fail(ctx, log, tracker, s.id, err)
		}

		stepStart := time.Now()
		if err := s.fn(ctx, req, tracker); err != nil {
			return p.fail(ctx, log, tracker, s.id, err)
		}

		if err := tracker.SetStatus(s.id, progress.StatusSuccess); err != nil {
			return p.fail(ctx, log, tracker, s.id, err)
		}
		log.InfoContext(ctx, "step succeeded", logger.Step(string(s.id)), logger.Elapsed(stepStart))
	}

	if err := tracker.SetComplete(); err != nil {
		return fmt.Errorf("mark run complete: %w", err)
	}
	log.InfoContext(ctx, "certificate provisioned", logger.Elapsed(start))
	return nil
}

func (p *Pipeline) fail(ctx context.Context, log *slog.Logger, tracker *progress.Tracker, step progress.StepID, err error) error {
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		msg = string(step) + " failed"
	}
	if terr := tracker.SetError(msg); terr != nil && !errors.Is(terr, progress.ErrTerminal) {
		log.ErrorContext(ctx, "record failure", logger.Step(string(step)), logger.Error(terr))
	}
	log.ErrorContext(ctx, "step failed", logger.Step(string(step)), logger.Error(err))
	return &StepError{Step: step, Err: err}
}

// startProxy serves the ACME challenge webroot over plain HTTP.
func (p *Pipeline) startProxy(ctx context.Context, req Request, _ *progress.Tracker) error {
	if err := p.engine.PullImage(ctx, p.cfg.NginxImage); err != nil {
		return err
	}
	for _, dir := range []string{p.cfg.WebrootDir, p.cfg.NginxConfDir, p.cfg.CertDir} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := p.writeConfig(nginxconf.RenderHTTPOnly(req.Domain)); err != nil {
		return err
	}
	_, err := p.engine.Run(ctx, p.proxySpec())
	return err
}

// issueCertificate runs certbot once and records the issued certificate.
func (p *Pipeline) issueCertificate(ctx context.Context, req Request, tracker *progress.Tracker) error {
	if err := p.engine.PullImage(ctx, p.cfg.CertbotImage); err != nil {
		return err
	}
	if err := os.MkdirAll(p.cfg.LogsDir, dirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", p.cfg.LogsDir, err)
	}

	h, err := p.engine.Run(ctx, p.agentSpec(req))
	if err != nil {
		return err
	}
	if out := strings.TrimSpace(h.Output); out != "" {
		p.logger.DebugContext(ctx, "certbot output", logger.Domain(req.Domain), logger.Key("output", out))
	}

	p.recordCertificate(ctx, req.Domain, tracker)
	return nil
}

// recordCertificate never fails the step; the certificate may live on a host
// path this process cannot read.
func (p *Pipeline) recordCertificate(ctx context.Context, domain string, tracker *progress.Tracker) {
	info, err := letsencrypt.InspectDomain(p.cfg.CertDir, domain)
	if err != nil {
		p.logger.WarnContext(ctx, "inspect issued certificate", logger.Domain(domain), logger.Error(err))
		return
	}

	err = tracker.SetCertificate(progress.Certificate{
		Subject:   info.Subject,
		DNSNames:  info.DNSNames,
		Issuer:    info.Issuer,
		NotBefore: info.NotBefore,
		NotAfter:  info.NotAfter,
	})
	if err != nil {
		p.logger.WarnContext(ctx, "record certificate", logger.Domain(domain), logger.Error(err))
	}
}

// enableHTTPS replaces the live config with the TLS server blocks.
func (p *Pipeline) enableHTTPS(_ context.Context, req Request, _ *progress.Tracker) error {
	return p.writeConfig(nginxconf.RenderHTTPS(req.Domain))
}

// reloadProxy makes the running nginx pick up the new config.
func (p *Pipeline) reloadProxy(ctx context.Context, _ Request, _ *progress.Tracker) error {
	h, err := p.engine.Get(ctx, p.cfg.NginxContainer)
	if err != nil {
		return err
	}
	_, err = p.engine.Exec(ctx, h, reloadCommand)
	return err
}

// writeConfig replaces the live config file wholesale.
func (p *Pipeline) writeConfig(text string) error {
	path := p.cfg.ConfPath()
	if err := atomicwriter.WriteFile(path, []byte(text), confPerm); err != nil {
		return fmt.Errorf("write nginx config %s: %w", path, err)
	}
	return nil
}
