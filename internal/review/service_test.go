package review

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foundry/internal/events"
	"foundry/internal/identity"
	"foundry/internal/startup/models"
	startupstore "foundry/internal/startup/store/startup"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/requestcontext"
)

type staticClassifier struct {
	label Sentiment
}

func (c staticClassifier) Classify(string) Sentiment { return c.label }

type ReviewServiceSuite struct {
	suite.Suite
	users    *identity.InMemoryStore
	reviews  *InMemoryStore
	startups *startupstore.InMemoryStore
	service  *Service
	approved *models.Startup
	now      time.Time
}

func (s *ReviewServiceSuite) SetupTest() {
	s.users = identity.NewInMemoryStore()
	s.reviews = NewInMemoryStore(s.users)
	s.startups = startupstore.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.reviews, s.startups, staticClassifier{label: SentimentPositive}, events.NewInMemoryPublisher(), nil, logger)
	s.now = time.Date(2025, 7, 1, 15, 0, 0, 0, time.UTC)

	s.approved = s.seedStartup(models.StatusApproved)
}

func TestReviewServiceSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceSuite))
}

func (s *ReviewServiceSuite) seedStartup(status models.Status) *models.Startup {
	startup, err := models.NewStartup(id.NewUserID(), models.Registration{
		Name:         "Reviewed Co",
		Description:  "A startup that exists so it can collect reviews in tests.",
		Location:     "Ghent",
		ContactEmail: "owner@example.com",
	}, s.now)
	s.Require().NoError(err)
	startup.Status = status
	s.Require().NoError(s.startups.CreateIfOwnerFree(context.Background(), startup))
	return startup
}

// userCtx registers an account and returns a context authenticated as it,
// with the clock pinned to at.
func (s *ReviewServiceSuite) userCtx(name string, at time.Time) context.Context {
	user, err := identity.NewUser(name, name+"@example.com", "a-decent-password", id.RoleUser, at)
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(context.Background(), user))

	ctx := requestcontext.WithTime(context.Background(), at)
	return requestcontext.WithUserID(ctx, user.ID)
}

func (s *ReviewServiceSuite) TestCreate() {
	s.Run("attaches the classifier's sentiment", func() {
		ctx := s.userCtx("Positive.Reviewer", s.now)
		review, err := s.service.Create(ctx, s.approved.ID, 5, "Fantastic onboarding experience.")
		s.Require().NoError(err)
		s.Equal(SentimentPositive, review.Sentiment)
		s.Equal(5, review.Rating)
	})

	s.Run("requires authentication", func() {
		ctx := requestcontext.WithTime(context.Background(), s.now)
		_, err := s.service.Create(ctx, s.approved.ID, 4, "Looks fine to me.")
		s.Require().Error(err)
		s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	})

	s.Run("one review per user per startup", func() {
		ctx := s.userCtx("Repeat.Reviewer", s.now)
		_, err := s.service.Create(ctx, s.approved.ID, 4, "First impressions are good.")
		s.Require().NoError(err)

		_, err = s.service.Create(ctx, s.approved.ID, 1, "Changed my mind entirely.")
		s.Require().Error(err)
		s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
	})

	s.Run("pending startups are invisible to reviewers", func() {
		pending := s.seedStartup(models.StatusPending)
		ctx := s.userCtx("Early.Bird", s.now)
		_, err := s.service.Create(ctx, pending.ID, 5, "Sneak peek review.")
		s.Require().Error(err)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("unknown startup is not found", func() {
		ctx := s.userCtx("Lost.Reviewer", s.now)
		_, err := s.service.Create(ctx, id.NewStartupID(), 3, "Reviewing the void.")
		s.Require().Error(err)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func (s *ReviewServiceSuite) TestListByStartup() {
	first := s.userCtx("First.Author", s.now)
	second := s.userCtx("Second.Author", s.now.Add(time.Hour))

	_, err := s.service.Create(first, s.approved.ID, 5, "Excellent across the board.")
	s.Require().NoError(err)
	_, err = s.service.Create(second, s.approved.ID, 4, "Very good, minor rough edges.")
	s.Require().NoError(err)

	listCtx := requestcontext.WithTime(context.Background(), s.now.Add(2*time.Hour))
	reviews, err := s.service.ListByStartup(listCtx, s.approved.ID)
	s.Require().NoError(err)
	s.Require().Len(reviews, 2)

	s.Run("orders newest first with author names", func() {
		s.Equal("Second.Author", reviews[0].AuthorName)
		s.Equal("First.Author", reviews[1].AuthorName)
	})

	s.Run("persists the recomputed mean rating", func() {
		reloaded, err := s.startups.FindByID(context.Background(), s.approved.ID)
		s.Require().NoError(err)
		s.Equal(4.5, reloaded.Rating)
	})

	s.Run("unknown startup is not found", func() {
		_, err := s.service.ListByStartup(listCtx, id.NewStartupID())
		s.Require().Error(err)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func (s *ReviewServiceSuite) TestReplies() {
	author := s.userCtx("Review.Author", s.now)
	review, err := s.service.Create(author, s.approved.ID, 2, "Support never answered my ticket.")
	s.Require().NoError(err)

	s.Run("any authenticated user may reply", func() {
		replier := s.userCtx("Helpful.Founder", s.now.Add(time.Minute))
		reply, err := s.service.Reply(replier, review.ID, "Sorry about that, we have extended support hours now.")
		s.Require().NoError(err)
		s.Equal(review.ID, reply.ReviewID)
	})

	s.Run("lists oldest first", func() {
		later := s.userCtx("Late.Replier", s.now.Add(time.Hour))
		_, err := s.service.Reply(later, review.ID, "Following up a month later, all good now.")
		s.Require().NoError(err)

		replies, err := s.service.ListReplies(context.Background(), review.ID)
		s.Require().NoError(err)
		s.Require().Len(replies, 2)
		s.True(replies[0].CreatedAt.Before(replies[1].CreatedAt))
	})

	s.Run("replying to a missing review is not found", func() {
		replier := s.userCtx("Void.Replier", s.now)
		_, err := s.service.Reply(replier, id.NewReviewID(), "Is anyone here?")
		s.Require().Error(err)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("rejects a too-short reply", func() {
		replier := s.userCtx("Terse.Replier", s.now)
		_, err := s.service.Reply(replier, review.ID, "ok")
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}
