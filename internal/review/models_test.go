package review

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
)

func TestNewReview(t *testing.T) {
	now := time.Now()
	userID := id.NewUserID()
	startupID := id.NewStartupID()

	t.Run("accepts a valid submission", func(t *testing.T) {
		review, err := NewReview(userID, startupID, 4, "  Solid product, responsive team.  ", now)
		require.NoError(t, err)
		assert.Equal(t, 4, review.Rating)
		assert.Equal(t, "Solid product, responsive team.", review.Comment)
		assert.Empty(t, review.Sentiment, "sentiment is attached by the service, not the constructor")
	})

	t.Run("rejects out-of-range ratings", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			_, err := NewReview(userID, startupID, rating, "fine product", now)
			require.Error(t, err)
			assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
		}
	})

	t.Run("rejects comments outside the length bounds", func(t *testing.T) {
		_, err := NewReview(userID, startupID, 3, "ok", now)
		require.Error(t, err)

		_, err = NewReview(userID, startupID, 3, strings.Repeat("x", 1001), now)
		require.Error(t, err)
	})
}

func TestNewReply(t *testing.T) {
	now := time.Now()

	_, err := NewReply(id.NewUserID(), id.NewReviewID(), "  Thanks for the feedback!  ", now)
	require.NoError(t, err)

	_, err = NewReply(id.NewUserID(), id.NewReviewID(), "no", now)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
}

func TestMeanRating(t *testing.T) {
	ratings := func(values ...int) []*ReviewWithAuthor {
		reviews := make([]*ReviewWithAuthor, 0, len(values))
		for _, v := range values {
			reviews = append(reviews, &ReviewWithAuthor{Review: Review{Rating: v}})
		}
		return reviews
	}

	assert.Equal(t, 0.0, MeanRating(nil))
	assert.Equal(t, 5.0, MeanRating(ratings(5)))
	assert.Equal(t, 4.5, MeanRating(ratings(5, 4)))
	assert.Equal(t, 3.3, MeanRating(ratings(5, 3, 2)), "10/3 rounds to one decimal")
	assert.Equal(t, 3.7, MeanRating(ratings(5, 4, 2)))
}
