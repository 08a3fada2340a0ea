package queue

import "context"

// Job is a registered handler for one message type. Pipeline stages
// (ingest, enrich, signals, opportunities, daily) each register one.
type Job interface {
	// Name returns the unique identifier of the job.
	Name() string

	// Type returns the message type the job consumes.
	Type() string

	// Handle processes the job with the given payload.
	Handle(ctx context.Context, payload interface{}) error
}
