package stats

import (
	"context"
	"time"

	"foundry/internal/review"
	id "foundry/pkg/domain"
)

// monthsWindow is how far back the monthly trend series reach.
const monthsWindow = 6

// Store answers the aggregation queries behind both dashboards.
type Store interface {
	ReviewCount(ctx context.Context, startupID id.StartupID) (int, error)
	AverageRating(ctx context.Context, startupID id.StartupID) (float64, error)
	// PendingReplyCount counts a startup's reviews that have no reply yet.
	PendingReplyCount(ctx context.Context, startupID id.StartupID) (int, error)
	RecentReviews(ctx context.Context, startupID id.StartupID, limit int) ([]*review.ReviewWithAuthor, error)
	SentimentBreakdown(ctx context.Context, startupID id.StartupID) (SentimentBreakdown, error)
	ViewCount(ctx context.Context, startupID id.StartupID) (int, error)
	ViewsByMonth(ctx context.Context, startupID id.StartupID, since time.Time) ([]MonthlyCount, error)
	ReviewsByMonth(ctx context.Context, startupID id.StartupID, since time.Time) ([]MonthlyCount, error)

	UserCount(ctx context.Context) (int, error)
	StartupCountByStatus(ctx context.Context) (map[string]int, error)
	TotalReviewCount(ctx context.Context) (int, error)
	TotalViewCount(ctx context.Context) (int, error)
	ActiveJobCount(ctx context.Context, now time.Time) (int, error)
	SignupsByMonth(ctx context.Context, since time.Time) ([]MonthlyCount, error)
}
