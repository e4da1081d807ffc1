package stats

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foundry/internal/identity"
	"foundry/internal/job"
	"foundry/internal/review"
	"foundry/internal/startup/models"
	startupstore "foundry/internal/startup/store/startup"
	"foundry/internal/view"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/requestcontext"
)

type StatsServiceSuite struct {
	suite.Suite
	users    *identity.InMemoryStore
	reviews  *review.InMemoryStore
	views    *view.InMemoryStore
	startups *startupstore.InMemoryStore
	jobs     *job.InMemoryStore
	service  *Service
	owner    *identity.User
	startup  *models.Startup
	now      time.Time
}

func (s *StatsServiceSuite) SetupTest() {
	s.users = identity.NewInMemoryStore()
	s.reviews = review.NewInMemoryStore(s.users)
	s.views = view.NewInMemoryStore()
	s.startups = startupstore.NewInMemoryStore()
	s.jobs = job.NewInMemoryStore()
	store := NewInMemoryStore(s.reviews, s.views, s.users, s.startups, s.jobs)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(store, s.startups, logger)
	s.now = time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

	s.seedWorld()
}

func TestStatsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceSuite))
}

func (s *StatsServiceSuite) seedUser(name string, at time.Time) *identity.User {
	user, err := identity.NewUser(name, name+"@example.com", "a-decent-password", id.RoleUser, at)
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(context.Background(), user))
	return user
}

func (s *StatsServiceSuite) seedReview(author *identity.User, rating int, sentiment review.Sentiment, at time.Time) *review.Review {
	r, err := review.NewReview(author.ID, s.startup.ID, rating, "Seeded review for the dashboard.", at)
	s.Require().NoError(err)
	r.Sentiment = sentiment
	s.Require().NoError(s.reviews.CreateReview(context.Background(), r))
	return r
}

// seedWorld builds one approved startup with two reviews (one replied-to),
// three views, one active and one expired job.
func (s *StatsServiceSuite) seedWorld() {
	ctx := context.Background()

	s.owner = s.seedUser("Dash.Owner", s.now.AddDate(0, -4, 0))
	alice := s.seedUser("Alice.Reviewer", s.now.AddDate(0, -2, 0))
	bob := s.seedUser("Bob.Reviewer", s.now.AddDate(0, -1, 0))

	startup, err := models.NewStartup(s.owner.ID, models.Registration{
		Name:         "Dashboard Co",
		Description:  "The startup whose numbers the dashboard aggregates.",
		Location:     "Vilnius",
		ContactEmail: "owner@example.com",
	}, s.now.AddDate(0, -4, 0))
	s.Require().NoError(err)
	startup.Status = models.StatusApproved
	s.Require().NoError(s.startups.CreateIfOwnerFree(ctx, startup))
	s.startup = startup

	replied := s.seedReview(alice, 5, review.SentimentPositive, s.now.AddDate(0, -2, 0))
	s.seedReview(bob, 2, review.SentimentNegative, s.now.AddDate(0, -1, 0))

	reply, err := review.NewReply(s.owner.ID, replied.ID, "Thanks for the kind words!", s.now.AddDate(0, -2, 1))
	s.Require().NoError(err)
	s.Require().NoError(s.reviews.CreateReply(ctx, reply))

	for i, viewer := range []*identity.User{alice, bob, nil} {
		var userID *id.UserID
		if viewer != nil {
			userID = &viewer.ID
		}
		s.Require().NoError(s.views.Create(ctx, &view.View{
			ID:        id.NewViewID(),
			StartupID: startup.ID,
			UserID:    userID,
			ViewedAt:  s.now.AddDate(0, -1, i),
		}))
	}

	active, err := job.NewJob(startup.ID, job.Posting{
		Title:        "Data Engineer",
		Description:  "Pipelines and dashboards, all day every day.",
		JobType:      job.TypeFullTime,
		Location:     "Vilnius",
		ContactEmail: "jobs@example.com",
		ExpiresAt:    s.now.Add(14 * 24 * time.Hour),
	}, s.now.AddDate(0, -1, 0))
	s.Require().NoError(err)
	s.Require().NoError(s.jobs.Create(ctx, active))

	expired, err := job.NewJob(startup.ID, job.Posting{
		Title:        "Summer Intern",
		Description:  "A posting that has already expired by the time we look.",
		JobType:      job.TypeInternship,
		Location:     "Vilnius",
		ContactEmail: "jobs@example.com",
		ExpiresAt:    s.now.AddDate(0, -2, 0),
	}, s.now.AddDate(0, -3, 0))
	s.Require().NoError(err)
	s.Require().NoError(s.jobs.Create(ctx, expired))
}

func (s *StatsServiceSuite) ownerCtx() context.Context {
	ctx := requestcontext.WithTime(context.Background(), s.now)
	return requestcontext.WithUserID(ctx, s.owner.ID)
}

func (s *StatsServiceSuite) TestForStartup() {
	stats, err := s.service.ForStartup(s.ownerCtx(), s.startup.ID)
	s.Require().NoError(err)

	s.Equal(2, stats.ReviewCount)
	s.Equal(3.5, stats.AverageRating)
	s.Equal(1, stats.PendingReplies, "only the unanswered review is pending")
	s.Equal(3, stats.ViewCount)
	s.Equal(1, stats.Sentiment.Positive)
	s.Equal(1, stats.Sentiment.Negative)
	s.Zero(stats.Sentiment.Neutral)
	s.Len(stats.RecentReviews, 2)

	total := 0
	for _, month := range stats.ViewsByMonth {
		total += month.Count
	}
	s.Equal(3, total)
}

func (s *StatsServiceSuite) TestForStartupAccessControl() {
	s.Run("strangers are forbidden", func() {
		ctx := requestcontext.WithTime(context.Background(), s.now)
		ctx = requestcontext.WithUserID(ctx, id.NewUserID())
		_, err := s.service.ForStartup(ctx, s.startup.ID)
		s.Require().Error(err)
		s.Equal(dErrors.CodeForbidden, dErrors.CodeOf(err))
	})

	s.Run("admins may read any dashboard", func() {
		ctx := requestcontext.WithTime(context.Background(), s.now)
		ctx = requestcontext.WithUserID(ctx, id.NewUserID())
		ctx = requestcontext.WithRole(ctx, id.RoleAdmin)
		_, err := s.service.ForStartup(ctx, s.startup.ID)
		s.NoError(err)
	})

	s.Run("unknown startup is not found", func() {
		_, err := s.service.ForStartup(s.ownerCtx(), id.NewStartupID())
		s.Require().Error(err)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func (s *StatsServiceSuite) TestForPlatform() {
	stats, err := s.service.ForPlatform(s.ownerCtx())
	s.Require().NoError(err)

	s.Equal(3, stats.TotalUsers)
	s.Equal(1, stats.TotalStartups)
	s.Equal(1, stats.ApprovedStartups)
	s.Zero(stats.PendingStartups)
	s.Equal(2, stats.TotalReviews)
	s.Equal(3, stats.TotalViews)
	s.Equal(1, stats.ActiveJobs, "the expired posting must not count")
	s.NotEmpty(stats.SignupsByMonth)
}
