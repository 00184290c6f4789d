// Package server runs an http.Handler with production timeouts and graceful
// shutdown.
//
//	srv := server.New(":8070",
//		server.WithLogger(log),
//		server.WithShutdownTimeout(10*time.Second),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	if err := g.Wait(); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns a func suitable for errgroup.Group.Go: it serves until ctx is
// canceled, then shuts the server down within the shutdown timeout and returns
// nil. Listener errors are returned as is.
//
// Config maps the same settings to environment variables for use with
// config.Load:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
package server
