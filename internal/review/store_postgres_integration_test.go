//go:build integration

package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foundry/internal/identity"
	"foundry/internal/review"
	"foundry/internal/startup/models"
	startupstore "foundry/internal/startup/store/startup"
	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
	"foundry/pkg/testutil/containers"
)

type ReviewPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *review.PostgresStore
	users    *identity.PostgresStore
	startups *startupstore.PostgresStore

	startup *models.Startup
}

func TestReviewPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ReviewPostgresSuite))
}

func (s *ReviewPostgresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = review.NewPostgres(s.postgres.DB)
	s.users = identity.NewPostgres(s.postgres.DB)
	s.startups = startupstore.NewPostgres(s.postgres.DB)
}

func (s *ReviewPostgresSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.Truncate(ctx))

	owner := s.seedUser("Startup Owner")
	startup, err := models.NewStartup(owner.ID, models.Registration{
		Name:         "Reviewable Co",
		Description:  "An approved startup collecting reviews in the test database.",
		Location:     "Gdansk",
		ContactEmail: "owner@example.com",
	}, time.Now().UTC())
	s.Require().NoError(err)
	startup.Status = models.StatusApproved
	s.Require().NoError(s.startups.CreateIfOwnerFree(ctx, startup))
	s.startup = startup
}

func (s *ReviewPostgresSuite) seedUser(name string) *identity.User {
	user, err := identity.NewUser(name, "user+"+id.NewUserID().String()+"@example.com",
		"a-decent-password", id.RoleUser, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(context.Background(), user))
	return user
}

func (s *ReviewPostgresSuite) seedReview(author *identity.User, rating int, comment string, at time.Time) *review.Review {
	r, err := review.NewReview(author.ID, s.startup.ID, rating, comment, at)
	s.Require().NoError(err)
	r.Sentiment = review.SentimentNeutral
	s.Require().NoError(s.store.CreateReview(context.Background(), r))
	return r
}

func (s *ReviewPostgresSuite) TestReviewUniquenessPerPair() {
	author := s.seedUser("Repeat Author")
	s.seedReview(author, 4, "First and only review from me.", time.Now().UTC())

	second, err := review.NewReview(author.ID, s.startup.ID, 1, "Trying to double-dip.", time.Now().UTC())
	s.Require().NoError(err)
	second.Sentiment = review.SentimentNegative
	s.Require().ErrorIs(s.store.CreateReview(context.Background(), second), sentinel.ErrAlreadyExists)
}

func (s *ReviewPostgresSuite) TestReviewForMissingStartup() {
	author := s.seedUser("Lost Author")
	orphan, err := review.NewReview(author.ID, id.NewStartupID(), 3, "Reviewing a ghost.", time.Now().UTC())
	s.Require().NoError(err)
	orphan.Sentiment = review.SentimentNeutral
	s.Require().ErrorIs(s.store.CreateReview(context.Background(), orphan), sentinel.ErrNotFound)
}

func (s *ReviewPostgresSuite) TestListByStartupJoinsAuthorsNewestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	early := s.seedUser("Early Reviewer")
	late := s.seedUser("Late Reviewer")
	s.seedReview(early, 5, "Got in before everyone else.", base.Add(-time.Hour))
	s.seedReview(late, 3, "Showing up fashionably late.", base)

	reviews, err := s.store.ListByStartup(ctx, s.startup.ID)
	s.Require().NoError(err)
	s.Require().Len(reviews, 2)
	s.Equal("Late Reviewer", reviews[0].AuthorName)
	s.Equal("Early Reviewer", reviews[1].AuthorName)

	count, err := s.store.CountByStartup(ctx, s.startup.ID)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *ReviewPostgresSuite) TestRepliesListOldestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	author := s.seedUser("Replied Author")
	r := s.seedReview(author, 2, "Waiting to hear back from the team.", base)

	founder := s.seedUser("The Founder")
	first, err := review.NewReply(founder.ID, r.ID, "Sorry, on it right away.", base.Add(time.Minute))
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateReply(ctx, first))

	second, err := review.NewReply(author.ID, r.ID, "All sorted now, thanks.", base.Add(2*time.Minute))
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateReply(ctx, second))

	replies, err := s.store.ListReplies(ctx, r.ID)
	s.Require().NoError(err)
	s.Require().Len(replies, 2)
	s.Equal(first.ID, replies[0].ID)
	s.Equal(second.ID, replies[1].ID)
}

func (s *ReviewPostgresSuite) TestReplyToMissingReview() {
	founder := s.seedUser("Eager Founder")
	reply, err := review.NewReply(founder.ID, id.NewReviewID(), "Replying into the void.", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().ErrorIs(s.store.CreateReply(context.Background(), reply), sentinel.ErrNotFound)
}
