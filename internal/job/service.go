package job

import (
	"context"
	"errors"
	"log/slog"

	startupmodels "foundry/internal/startup/models"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/sentinel"
	"foundry/pkg/requestcontext"
)

// StartupFinder loads the startup a posting attaches to.
type StartupFinder interface {
	FindByOwner(ctx context.Context, ownerID id.UserID) (*startupmodels.Startup, error)
	FindByID(ctx context.Context, startupID id.StartupID) (*startupmodels.Startup, error)
}

// Service manages job postings. Only owners of approved startups may
// post.
type Service struct {
	jobs     Store
	startups StartupFinder
	logger   *slog.Logger
}

func NewService(jobs Store, startups StartupFinder, logger *slog.Logger) *Service {
	return &Service{jobs: jobs, startups: startups, logger: logger}
}

// Post creates a job for the caller's startup. The startup must exist and
// be approved.
func (s *Service) Post(ctx context.Context, posting Posting) (*Job, error) {
	ownerID := requestcontext.UserID(ctx)
	if ownerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	startup, err := s.startups.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeForbidden, "you must register a startup before posting jobs")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load startup")
	}
	if !startup.IsApproved() {
		return nil, dErrors.New(dErrors.CodeForbidden, "your startup must be approved before posting jobs")
	}

	job, err := NewJob(startup.ID, posting, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create job")
	}

	s.logger.InfoContext(ctx, "job posted",
		"request_id", requestcontext.RequestID(ctx),
		"job_id", job.ID,
		"startup_id", startup.ID,
	)
	return job, nil
}

func (s *Service) Get(ctx context.Context, jobID id.JobID) (*Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "job not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load job")
	}
	return job, nil
}

// ListActive returns unexpired postings, newest-first.
func (s *Service) ListActive(ctx context.Context) ([]*Job, error) {
	jobs, err := s.jobs.ListActive(ctx, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list jobs")
	}
	return jobs, nil
}

// ListByStartup returns all of one startup's postings, expired included.
func (s *Service) ListByStartup(ctx context.Context, startupID id.StartupID) ([]*Job, error) {
	if _, err := s.startups.FindByID(ctx, startupID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "startup not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load startup")
	}

	jobs, err := s.jobs.ListByStartup(ctx, startupID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list jobs")
	}
	return jobs, nil
}
