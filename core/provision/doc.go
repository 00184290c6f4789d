// Package provision issues a TLS certificate for one domain by driving the
// nginx and certbot containers through four ordered steps.
//
// # Steps
//
//  1. nginx: pull the proxy image, create the host directories, write the
//     HTTP-only config and start the proxy with ports 80 and 443 published.
//  2. certbot: pull the agent image and run it once against the webroot.
//  3. nginx_config: overwrite the live config with the HTTPS config.
//  4. nginx_restart: reload nginx inside the running proxy container.
//
// The live config file is always replaced as a whole through a temporary file
// and a rename, so nginx never reads a half-written config.
//
// Certificates reach nginx through the certificate store mounted read-only
// into the proxy container; nothing is copied into the container.
//
// # Core Types
//
// Request is the input of a run: a domain and an optional email. An empty
// email registers the ACME account without one.
//
// Config holds images, container names and host directories. Every field has
// an env tag, so it loads through core/config:
//
//	cfg := provision.DefaultConfig()
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
//
// Pipeline runs the steps against a container.Engine and records every
// transition in a progress.Tracker.
//
// Service owns the runs of a process and is what the HTTP front talks to.
//
// # Usage
//
// Running a pipeline directly, for example from a test:
//
//	engine := container.NewMemoryEngine()
//	tracker := progress.New()
//
//	err := provision.NewPipeline(engine, cfg).Run(ctx,
//		provision.Request{Domain: "example.com", Email: "ops@example.com"}, tracker)
//	if err != nil {
//		var stepErr *provision.StepError
//		if errors.As(err, &stepErr) {
//			log.Printf("step %s failed: %v", stepErr.Step, stepErr.Err)
//		}
//	}
//
// Running through a Service. Start validates the request, allocates a run id
// and returns immediately while the pipeline executes on its own goroutine:
//
//	svc := provision.NewService(
//		provision.NewPipeline(engine, cfg, provision.WithPipelineLogger(log)),
//		provision.WithServiceLogger(log),
//	)
//
//	run, err := svc.Start(ctx, provision.Request{Domain: "example.com"})
//	if err != nil {
//		return err
//	}
//	for snap := range run.Subscribe(ctx) {
//		fmt.Println(snap.Active)
//	}
//
// Get, List and Forget manage the registry. Shutdown refuses new runs and waits
// for the ones already accepted:
//
//	if err := svc.Shutdown(shutdownCtx); err != nil {
//		log.Printf("runs still in flight: %v", err)
//	}
//
// # Error Handling
//
// The first failing step aborts the run. The pipeline has a single failure
// boundary: the error message is stored in the tracker, every step still
// PENDING becomes FAILURE and Run returns a *StepError naming the step. The
// tracker always ends terminal, even for an engine error without a message.
// Nothing is retried; a retry is a new run with a fresh tracker.
//
// Package errors:
//   - ErrInvalidRequest, ErrInvalidEmail: rejected by Request.Validate
//   - ErrInvalidConfig: returned by Config.Validate
//   - ErrRunNotFound: unknown run id
//   - ErrRunInProgress: Forget on an unfinished run
//   - ErrShuttingDown: Start after Shutdown
//
// # Concurrency
//
// Runs execute one at a time, in the order they were started, because they
// share the live config file and the fixed container names. Queued runs keep
// their PENDING snapshot until their turn. Runs are detached from the caller's
// context and cannot be cancelled once accepted.
package provision
