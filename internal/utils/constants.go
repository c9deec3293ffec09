package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

// HTTP Handler Timeouts
const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// CacheOperationTimeout bounds a single cache read or write
	CacheOperationTimeout = 2 * time.Second

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 10 * time.Second
)

// =============================================================================
// Service Constants
// =============================================================================

const (
	// Version is reported by the health endpoint
	Version = "1.0.0"

	// DefaultPageSize is the observation page size when no limit is given
	DefaultPageSize = 1440
)
