package logger

import (
	"log/slog"
	"time"
)

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ============================================================================
// Timing
// ============================================================================

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates the duration since start.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event creates an attribute for event names.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Status creates an attribute for a status value (PENDING/SUCCESS/FAILURE, etc).
func Status(status string) slog.Attr {
	return slog.String("status", status)
}

// Key creates a generic key-value attribute.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// ============================================================================
// Provisioning
// ============================================================================

// RunID creates an attribute for a provisioning run identifier.
func RunID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("run_id", id)
}

// Domain creates an attribute for the domain being provisioned.
func Domain(domain string) slog.Attr {
	if domain == "" {
		return slog.Attr{}
	}
	return slog.String("domain", domain)
}

// Step creates an attribute for a pipeline step identifier.
func Step(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("step", id)
}

// Container creates an attribute for a container name or ID.
func Container(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("container", name)
}

// Image creates an attribute for an image reference.
func Image(ref string) slog.Attr {
	if ref == "" {
		return slog.Attr{}
	}
	return slog.String("image", ref)
}
