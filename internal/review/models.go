package review

import (
	"math"
	"strings"
	"time"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
)

// Sentiment is the lexicon-derived label attached at submission time. It
// is a pure function of the comment text and is never recomputed.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Review is one user's rating of one startup. The (user, startup) pair is
// unique, enforced by the store. Reviews are immutable once written.
type Review struct {
	ID        id.ReviewID  `json:"id"`
	StartupID id.StartupID `json:"startup_id"`
	UserID    id.UserID    `json:"user_id"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	Sentiment Sentiment    `json:"sentiment"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReviewWithAuthor joins a review with its author's display name for
// listing.
type ReviewWithAuthor struct {
	Review
	AuthorName string `json:"author_name"`
}

// Reply is a threaded response to a review. Any authenticated user may
// reply; replies list oldest-first.
type Reply struct {
	ID        id.ReplyID  `json:"id"`
	ReviewID  id.ReviewID `json:"review_id"`
	UserID    id.UserID   `json:"user_id"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

const (
	minCommentLen = 3
	maxCommentLen = 1000
)

// NewReview validates the submission. Sentiment is attached by the service
// after classification.
func NewReview(userID id.UserID, startupID id.StartupID, rating int, comment string, now time.Time) (*Review, error) {
	comment = strings.TrimSpace(comment)
	if rating < 1 || rating > 5 {
		return nil, dErrors.New(dErrors.CodeValidation, "rating must be an integer between 1 and 5")
	}
	if len(comment) < minCommentLen || len(comment) > maxCommentLen {
		return nil, dErrors.New(dErrors.CodeValidation, "comment must be between 3 and 1000 characters")
	}
	return &Review{
		ID:        id.NewReviewID(),
		StartupID: startupID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
	}, nil
}

func NewReply(userID id.UserID, reviewID id.ReviewID, text string, now time.Time) (*Reply, error) {
	text = strings.TrimSpace(text)
	if len(text) < minCommentLen || len(text) > maxCommentLen {
		return nil, dErrors.New(dErrors.CodeValidation, "reply must be between 3 and 1000 characters")
	}
	return &Reply{
		ID:        id.NewReplyID(),
		ReviewID:  reviewID,
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
	}, nil
}

// MeanRating is the arithmetic mean of all ratings, rounded to one
// decimal. Zero reviews yield a zero rating.
func MeanRating(reviews []*ReviewWithAuthor) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}
