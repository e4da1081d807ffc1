package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"foundry/internal/review"
	id "foundry/pkg/domain"
)

// PostgresStore computes dashboard numbers with aggregate queries so the
// row sets never cross the wire.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ReviewCount(ctx context.Context, startupID id.StartupID) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM reviews WHERE startup_id = $1`, startupID.String())
}

func (s *PostgresStore) AverageRating(ctx context.Context, startupID id.StartupID) (float64, error) {
	query := `SELECT round(coalesce(avg(rating), 0), 1) FROM reviews WHERE startup_id = $1`
	var avg float64
	if err := s.db.QueryRowContext(ctx, query, startupID.String()).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	return avg, nil
}

func (s *PostgresStore) PendingReplyCount(ctx context.Context, startupID id.StartupID) (int, error) {
	query := `
		SELECT count(*)
		FROM reviews r
		WHERE r.startup_id = $1
		  AND NOT EXISTS (SELECT 1 FROM review_replies p WHERE p.review_id = r.id)
	`
	return s.count(ctx, query, startupID.String())
}

func (s *PostgresStore) RecentReviews(ctx context.Context, startupID id.StartupID, limit int) ([]*review.ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.startup_id, r.user_id, r.rating, r.comment, r.sentiment, r.created_at, u.fullname
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.startup_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, startupID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	defer rows.Close()

	var listed []*review.ReviewWithAuthor
	for rows.Next() {
		var (
			item         review.ReviewWithAuthor
			rawID        string
			rawStartupID string
			rawUserID    string
			rawSentiment string
		)
		if err := rows.Scan(&rawID, &rawStartupID, &rawUserID, &item.Rating, &item.Comment, &rawSentiment, &item.CreatedAt, &item.AuthorName); err != nil {
			return nil, fmt.Errorf("scan recent review: %w", err)
		}
		reviewID, err := id.ParseReviewID(rawID)
		if err != nil {
			return nil, err
		}
		parsedStartupID, err := id.ParseStartupID(rawStartupID)
		if err != nil {
			return nil, err
		}
		userID, err := id.ParseUserID(rawUserID)
		if err != nil {
			return nil, err
		}
		item.ID = reviewID
		item.StartupID = parsedStartupID
		item.UserID = userID
		item.Sentiment = review.Sentiment(rawSentiment)
		listed = append(listed, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent reviews: %w", err)
	}
	return listed, nil
}

func (s *PostgresStore) SentimentBreakdown(ctx context.Context, startupID id.StartupID) (SentimentBreakdown, error) {
	query := `
		SELECT
			count(*) FILTER (WHERE sentiment = 'positive'),
			count(*) FILTER (WHERE sentiment = 'negative'),
			count(*) FILTER (WHERE sentiment = 'neutral')
		FROM reviews WHERE startup_id = $1
	`
	var breakdown SentimentBreakdown
	err := s.db.QueryRowContext(ctx, query, startupID.String()).
		Scan(&breakdown.Positive, &breakdown.Negative, &breakdown.Neutral)
	if err != nil {
		return SentimentBreakdown{}, fmt.Errorf("sentiment breakdown: %w", err)
	}
	return breakdown, nil
}

func (s *PostgresStore) ViewCount(ctx context.Context, startupID id.StartupID) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM startup_views WHERE startup_id = $1`, startupID.String())
}

func (s *PostgresStore) ViewsByMonth(ctx context.Context, startupID id.StartupID, since time.Time) ([]MonthlyCount, error) {
	query := `
		SELECT to_char(date_trunc('month', viewed_at), 'YYYY-MM'), count(*)
		FROM startup_views
		WHERE startup_id = $1 AND viewed_at >= $2
		GROUP BY 1 ORDER BY 1
	`
	return s.monthly(ctx, query, startupID.String(), since)
}

func (s *PostgresStore) ReviewsByMonth(ctx context.Context, startupID id.StartupID, since time.Time) ([]MonthlyCount, error) {
	query := `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM'), count(*)
		FROM reviews
		WHERE startup_id = $1 AND created_at >= $2
		GROUP BY 1 ORDER BY 1
	`
	return s.monthly(ctx, query, startupID.String(), since)
}

func (s *PostgresStore) UserCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM users`)
}

func (s *PostgresStore) StartupCountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM startups GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("startup counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan startup count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate startup counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) TotalReviewCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM reviews`)
}

func (s *PostgresStore) TotalViewCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM startup_views`)
}

func (s *PostgresStore) ActiveJobCount(ctx context.Context, now time.Time) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM jobs WHERE expires_at > $1`, now)
}

func (s *PostgresStore) SignupsByMonth(ctx context.Context, since time.Time) ([]MonthlyCount, error) {
	query := `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM'), count(*)
		FROM users
		WHERE created_at >= $1
		GROUP BY 1 ORDER BY 1
	`
	return s.monthly(ctx, query, since)
}

func (s *PostgresStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) monthly(ctx context.Context, query string, args ...any) ([]MonthlyCount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}
	defer rows.Close()

	var series []MonthlyCount
	for rows.Next() {
		var entry MonthlyCount
		if err := rows.Scan(&entry.Month, &entry.Count); err != nil {
			return nil, fmt.Errorf("scan monthly entry: %w", err)
		}
		series = append(series, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly series: %w", err)
	}
	return series, nil
}
