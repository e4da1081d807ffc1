package job

import (
	"context"
	"time"

	id "foundry/pkg/domain"
)

type Store interface {
	Create(ctx context.Context, job *Job) error
	FindByID(ctx context.Context, jobID id.JobID) (*Job, error)
	ListByStartup(ctx context.Context, startupID id.StartupID) ([]*Job, error)
	// ListActive returns postings that have not expired at now,
	// newest-first.
	ListActive(ctx context.Context, now time.Time) ([]*Job, error)
}
