package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// sweepInterval is how often expired composed artifacts are swept from disk.
	sweepInterval = 5 * time.Minute
)
