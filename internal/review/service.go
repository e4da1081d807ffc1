package review

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"foundry/internal/events"
	"foundry/internal/platform/metrics"
	startupmodels "foundry/internal/startup/models"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/sentinel"
	"foundry/pkg/requestcontext"
)

var tracer = otel.Tracer("foundry/review")

// StartupDirectory is the slice of the startup store the review service
// needs: existence checks and the atomic rating rewrite.
type StartupDirectory interface {
	FindByID(ctx context.Context, startupID id.StartupID) (*startupmodels.Startup, error)
	Execute(ctx context.Context, startupID id.StartupID, validate func(*startupmodels.Startup) error, mutate func(*startupmodels.Startup)) (*startupmodels.Startup, error)
}

// Service handles review submission, listing with rating recompute, and
// replies.
type Service struct {
	reviews    Store
	startups   StartupDirectory
	classifier Classifier
	events     events.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewService(reviews Store, startups StartupDirectory, classifier Classifier, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		reviews:    reviews,
		startups:   startups,
		classifier: classifier,
		events:     publisher,
		metrics:    m,
		logger:     logger,
	}
}

// Create submits a review. The startup must be approved, and one review
// per (user, startup) pair is enforced by the store insert.
func (s *Service) Create(ctx context.Context, startupID id.StartupID, rating int, comment string) (*Review, error) {
	ctx, span := tracer.Start(ctx, "review.create")
	defer span.End()
	span.SetAttributes(attribute.String("startup.id", startupID.String()))

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	startup, err := s.startups.FindByID(ctx, startupID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "startup not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load startup")
	}
	if !startup.IsApproved() {
		return nil, dErrors.New(dErrors.CodeNotFound, "startup not found")
	}

	review, err := NewReview(userID, startupID, rating, comment, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	review.Sentiment = s.classifier.Classify(review.Comment)

	if err := s.reviews.CreateReview(ctx, review); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, dErrors.New(dErrors.CodeConflict, "you have already reviewed this startup")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create review")
	}

	s.metrics.IncReviewsCreated(string(review.Sentiment))
	s.emit(ctx, events.New(events.TypeReviewCreated, review.CreatedAt, review.ID.String(), userID.String()))

	s.logger.InfoContext(ctx, "review created",
		"request_id", requestcontext.RequestID(ctx),
		"review_id", review.ID,
		"startup_id", startupID,
		"sentiment", review.Sentiment,
	)
	return review, nil
}

// ListByStartup returns a startup's reviews newest-first and rewrites the
// startup's rating to the mean of all its review ratings. The rewrite
// happens on every list call so the stored rating never goes stale.
func (s *Service) ListByStartup(ctx context.Context, startupID id.StartupID) ([]*ReviewWithAuthor, error) {
	if _, err := s.startups.FindByID(ctx, startupID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "startup not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load startup")
	}

	reviews, err := s.reviews.ListByStartup(ctx, startupID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reviews")
	}

	rating := MeanRating(reviews)
	now := requestcontext.Now(ctx)
	if _, err := s.startups.Execute(ctx, startupID,
		func(*startupmodels.Startup) error { return nil },
		func(st *startupmodels.Startup) {
			if st.Rating != rating {
				st.Rating = rating
				st.UpdatedAt = now
			}
		},
	); err != nil {
		s.logger.WarnContext(ctx, "failed to persist recomputed rating",
			"startup_id", startupID,
			"error", err,
		)
	}
	return reviews, nil
}

// Reply attaches a response to a review. Any authenticated user may
// reply.
func (s *Service) Reply(ctx context.Context, reviewID id.ReviewID, text string) (*Reply, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	if _, err := s.reviews.FindReview(ctx, reviewID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "review not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load review")
	}

	reply, err := NewReply(userID, reviewID, text, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.reviews.CreateReply(ctx, reply); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "review not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create reply")
	}
	return reply, nil
}

// ListReplies returns a review's replies oldest-first.
func (s *Service) ListReplies(ctx context.Context, reviewID id.ReviewID) ([]*Reply, error) {
	if _, err := s.reviews.FindReview(ctx, reviewID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "review not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load review")
	}

	replies, err := s.reviews.ListReplies(ctx, reviewID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list replies")
	}
	return replies, nil
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit event",
			"event_type", event.Type,
			"error", err,
		)
	}
}
