package review

import (
	"context"

	id "foundry/pkg/domain"
)

// Store persists reviews and replies. Implementations return sentinel
// errors; the service translates them.
type Store interface {
	// CreateReview inserts the review, failing with
	// sentinel.ErrAlreadyExists when this user already reviewed this
	// startup. The one-review-per-pair invariant lives here.
	CreateReview(ctx context.Context, review *Review) error
	FindReview(ctx context.Context, reviewID id.ReviewID) (*Review, error)
	// ListByStartup returns reviews newest-first joined with author names.
	ListByStartup(ctx context.Context, startupID id.StartupID) ([]*ReviewWithAuthor, error)
	CountByStartup(ctx context.Context, startupID id.StartupID) (int, error)

	CreateReply(ctx context.Context, reply *Reply) error
	// ListReplies returns a review's replies oldest-first.
	ListReplies(ctx context.Context, reviewID id.ReviewID) ([]*Reply, error)
}
