// Package logger provides structured logging helpers built on Go's standard slog package.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("sslsetup"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("pipeline started",
//		logger.Component("provision"),
//		logger.RunID(run.ID.String()),
//		logger.Domain("example.com"),
//	)
//
// # Environment Configurations
//
//	// Development: text format, debug level, stdout
//	logger.New(logger.WithDevelopment("sslsetup"))
//
//	// Production: JSON format, info level, stdout
//	logger.New(logger.WithProduction("sslsetup"))
//
// # Attribute Helpers
//
// All helpers that accept values which can be empty return an empty slog.Attr
// for the empty case, so calls like log.Info("msg", logger.Error(err)) need no
// nil checks. slog drops empty attributes on output.
package logger
