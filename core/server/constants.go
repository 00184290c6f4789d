package server

import "time"

const (
	// DefaultAddr is the address the setup UI listens on.
	DefaultAddr = ":8070"

	DefaultReadTimeout     = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultWriteTimeout is zero: progress WebSocket streams stay open for a whole run.
	DefaultWriteTimeout time.Duration = 0

	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)
