package stats

import (
	"context"
	"math"
	"sort"
	"time"

	"foundry/internal/identity"
	"foundry/internal/job"
	"foundry/internal/review"
	startupmodels "foundry/internal/startup/models"
	"foundry/internal/view"
	id "foundry/pkg/domain"
)

// ReviewSource is the slice of the review store the in-memory aggregator
// reads.
type ReviewSource interface {
	ListByStartup(ctx context.Context, startupID id.StartupID) ([]*review.ReviewWithAuthor, error)
	ListReplies(ctx context.Context, reviewID id.ReviewID) ([]*review.Reply, error)
	ListAll(ctx context.Context) ([]*review.Review, error)
}

type ViewSource interface {
	CountByStartup(ctx context.Context, startupID id.StartupID) (int, error)
	ListAll(ctx context.Context) ([]*view.View, error)
}

type UserSource interface {
	ListAll(ctx context.Context) ([]*identity.User, error)
}

type StartupSource interface {
	ListByStatus(ctx context.Context, status startupmodels.Status) ([]*startupmodels.Startup, error)
}

type JobSource interface {
	ListActive(ctx context.Context, now time.Time) ([]*job.Job, error)
}

// InMemoryStore aggregates over the in-memory domain stores so the
// dashboards work without a database.
type InMemoryStore struct {
	reviews  ReviewSource
	views    ViewSource
	users    UserSource
	startups StartupSource
	jobs     JobSource
}

func NewInMemoryStore(reviews ReviewSource, views ViewSource, users UserSource, startups StartupSource, jobs JobSource) *InMemoryStore {
	return &InMemoryStore{
		reviews:  reviews,
		views:    views,
		users:    users,
		startups: startups,
		jobs:     jobs,
	}
}

func (s *InMemoryStore) ReviewCount(ctx context.Context, startupID id.StartupID) (int, error) {
	reviews, err := s.reviews.ListByStartup(ctx, startupID)
	if err != nil {
		return 0, err
	}
	return len(reviews), nil
}

func (s *InMemoryStore) AverageRating(ctx context.Context, startupID id.StartupID) (float64, error) {
	reviews, err := s.reviews.ListByStartup(ctx, startupID)
	if err != nil {
		return 0, err
	}
	if len(reviews) == 0 {
		return 0, nil
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10, nil
}

func (s *InMemoryStore) PendingReplyCount(ctx context.Context, startupID id.StartupID) (int, error) {
	reviews, err := s.reviews.ListByStartup(ctx, startupID)
	if err != nil {
		return 0, err
	}
	pending := 0
	for _, r := range reviews {
		replies, err := s.reviews.ListReplies(ctx, r.ID)
		if err != nil {
			return 0, err
		}
		if len(replies) == 0 {
			pending++
		}
	}
	return pending, nil
}

func (s *InMemoryStore) RecentReviews(ctx context.Context, startupID id.StartupID, limit int) ([]*review.ReviewWithAuthor, error) {
	reviews, err := s.reviews.ListByStartup(ctx, startupID)
	if err != nil {
		return nil, err
	}
	if len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (s *InMemoryStore) SentimentBreakdown(ctx context.Context, startupID id.StartupID) (SentimentBreakdown, error) {
	reviews, err := s.reviews.ListByStartup(ctx, startupID)
	if err != nil {
		return SentimentBreakdown{}, err
	}
	var breakdown SentimentBreakdown
	for _, r := range reviews {
		switch r.Sentiment {
		case review.SentimentPositive:
			breakdown.Positive++
		case review.SentimentNegative:
			breakdown.Negative++
		default:
			breakdown.Neutral++
		}
	}
	return breakdown, nil
}

func (s *InMemoryStore) ViewCount(ctx context.Context, startupID id.StartupID) (int, error) {
	return s.views.CountByStartup(ctx, startupID)
}

func (s *InMemoryStore) ViewsByMonth(ctx context.Context, startupID id.StartupID, since time.Time) ([]MonthlyCount, error) {
	views, err := s.views.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	buckets := make(map[string]int)
	for _, v := range views {
		if v.StartupID == startupID && !v.ViewedAt.Before(since) {
			buckets[v.ViewedAt.Format("2006-01")]++
		}
	}
	return toSeries(buckets), nil
}

func (s *InMemoryStore) ReviewsByMonth(ctx context.Context, startupID id.StartupID, since time.Time) ([]MonthlyCount, error) {
	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	buckets := make(map[string]int)
	for _, r := range reviews {
		if r.StartupID == startupID && !r.CreatedAt.Before(since) {
			buckets[r.CreatedAt.Format("2006-01")]++
		}
	}
	return toSeries(buckets), nil
}

func (s *InMemoryStore) UserCount(ctx context.Context) (int, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

func (s *InMemoryStore) StartupCountByStatus(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, status := range []startupmodels.Status{startupmodels.StatusPending, startupmodels.StatusApproved, startupmodels.StatusRejected} {
		listings, err := s.startups.ListByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		counts[string(status)] = len(listings)
	}
	return counts, nil
}

func (s *InMemoryStore) TotalReviewCount(ctx context.Context) (int, error) {
	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(reviews), nil
}

func (s *InMemoryStore) TotalViewCount(ctx context.Context) (int, error) {
	views, err := s.views.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(views), nil
}

func (s *InMemoryStore) ActiveJobCount(ctx context.Context, now time.Time) (int, error) {
	jobs, err := s.jobs.ListActive(ctx, now)
	if err != nil {
		return 0, err
	}
	return len(jobs), nil
}

func (s *InMemoryStore) SignupsByMonth(ctx context.Context, since time.Time) ([]MonthlyCount, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	buckets := make(map[string]int)
	for _, u := range users {
		if !u.CreatedAt.Before(since) {
			buckets[u.CreatedAt.Format("2006-01")]++
		}
	}
	return toSeries(buckets), nil
}

func toSeries(buckets map[string]int) []MonthlyCount {
	series := make([]MonthlyCount, 0, len(buckets))
	for month, count := range buckets {
		series = append(series, MonthlyCount{Month: month, Count: count})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })
	return series
}
