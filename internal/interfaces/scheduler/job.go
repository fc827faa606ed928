package scheduler

import "context"

// Job represents a unit of work that can be executed by the worker pool.
// Different maintenance tasks (attestation expiry, cleanup, digests)
// implement this interface.
type Job interface {
	// Execute runs the job with the given context.
	// Context should be respected for cancellation and timeouts.
	Execute(ctx context.Context) error

	// Name returns a short identifier for the job, used for logging and
	// telemetry.
	Name() string

	// Description returns a human-readable description of the job.
	Description() string
}
