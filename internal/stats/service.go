package stats

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	startupmodels "foundry/internal/startup/models"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/sentinel"
	"foundry/pkg/requestcontext"
)

const recentReviewLimit = 5

// StartupFinder resolves the startup whose dashboard is requested.
type StartupFinder interface {
	FindByID(ctx context.Context, startupID id.StartupID) (*startupmodels.Startup, error)
}

// Service assembles dashboard numbers. Each dashboard fans its queries
// out concurrently; a single failing query fails the whole response
// rather than shipping partial numbers.
type Service struct {
	store    Store
	startups StartupFinder
	logger   *slog.Logger
}

func NewService(store Store, startups StartupFinder, logger *slog.Logger) *Service {
	return &Service{store: store, startups: startups, logger: logger}
}

// ForStartup builds the owner dashboard. Only the startup's owner and
// admins may read it.
func (s *Service) ForStartup(ctx context.Context, startupID id.StartupID) (*StartupStats, error) {
	startup, err := s.startups.FindByID(ctx, startupID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "startup not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load startup")
	}

	callerID := requestcontext.UserID(ctx)
	if callerID != startup.OwnerID && requestcontext.Role(ctx) != id.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the owner can view these stats")
	}

	since := requestcontext.Now(ctx).AddDate(0, -monthsWindow, 0)
	result := &StartupStats{StartupID: startupID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result.ReviewCount, err = s.store.ReviewCount(gctx, startupID)
		return err
	})
	g.Go(func() (err error) {
		result.AverageRating, err = s.store.AverageRating(gctx, startupID)
		return err
	})
	g.Go(func() (err error) {
		result.PendingReplies, err = s.store.PendingReplyCount(gctx, startupID)
		return err
	})
	g.Go(func() (err error) {
		result.RecentReviews, err = s.store.RecentReviews(gctx, startupID, recentReviewLimit)
		return err
	})
	g.Go(func() (err error) {
		result.Sentiment, err = s.store.SentimentBreakdown(gctx, startupID)
		return err
	})
	g.Go(func() (err error) {
		result.ViewCount, err = s.store.ViewCount(gctx, startupID)
		return err
	})
	g.Go(func() (err error) {
		result.ViewsByMonth, err = s.store.ViewsByMonth(gctx, startupID, since)
		return err
	})
	g.Go(func() (err error) {
		result.ReviewsByMonth, err = s.store.ReviewsByMonth(gctx, startupID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute startup stats")
	}
	return result, nil
}

// ForPlatform builds the admin dashboard.
func (s *Service) ForPlatform(ctx context.Context) (*PlatformStats, error) {
	now := requestcontext.Now(ctx)
	since := now.AddDate(0, -monthsWindow, 0)
	result := &PlatformStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result.TotalUsers, err = s.store.UserCount(gctx)
		return err
	})
	g.Go(func() error {
		counts, err := s.store.StartupCountByStatus(gctx)
		if err != nil {
			return err
		}
		result.PendingStartups = counts[string(startupmodels.StatusPending)]
		result.ApprovedStartups = counts[string(startupmodels.StatusApproved)]
		result.RejectedStartups = counts[string(startupmodels.StatusRejected)]
		result.TotalStartups = result.PendingStartups + result.ApprovedStartups + result.RejectedStartups
		return nil
	})
	g.Go(func() (err error) {
		result.TotalReviews, err = s.store.TotalReviewCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		result.TotalViews, err = s.store.TotalViewCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		result.ActiveJobs, err = s.store.ActiveJobCount(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		result.SignupsByMonth, err = s.store.SignupsByMonth(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute platform stats")
	}
	return result, nil
}
