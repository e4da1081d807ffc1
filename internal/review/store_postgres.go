package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
)

// PostgresStore persists reviews and replies. One review per (user,
// startup) pair is the reviews_user_id_startup_id_key unique index.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateReview(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (id, startup_id, user_id, rating, comment, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		review.ID.String(),
		review.StartupID.String(),
		review.UserID.String(),
		review.Rating,
		review.Comment,
		string(review.Sentiment),
		review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindReview(ctx context.Context, reviewID id.ReviewID) (*Review, error) {
	query := `
		SELECT id, startup_id, user_id, rating, comment, sentiment, created_at
		FROM reviews WHERE id = $1
	`
	review, err := scanReview(s.db.QueryRowContext(ctx, query, reviewID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return review, nil
}

func (s *PostgresStore) ListByStartup(ctx context.Context, startupID id.StartupID) ([]*ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.startup_id, r.user_id, r.rating, r.comment, r.sentiment, r.created_at, u.fullname
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.startup_id = $1
		ORDER BY r.created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, startupID.String())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var listed []*ReviewWithAuthor
	for rows.Next() {
		var (
			item         ReviewWithAuthor
			rawID        string
			rawStartupID string
			rawUserID    string
			rawSentiment string
		)
		if err := rows.Scan(&rawID, &rawStartupID, &rawUserID, &item.Rating, &item.Comment, &rawSentiment, &item.CreatedAt, &item.AuthorName); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		if err := fillReviewIDs(&item.Review, rawID, rawStartupID, rawUserID, rawSentiment); err != nil {
			return nil, err
		}
		listed = append(listed, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return listed, nil
}

func (s *PostgresStore) CountByStartup(ctx context.Context, startupID id.StartupID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM reviews WHERE startup_id = $1`, startupID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CreateReply(ctx context.Context, reply *Reply) error {
	query := `
		INSERT INTO review_replies (id, review_id, user_id, reply_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		reply.ID.String(),
		reply.ReviewID.String(),
		reply.UserID.String(),
		reply.Text,
		reply.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("create reply: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListReplies(ctx context.Context, reviewID id.ReviewID) ([]*Reply, error) {
	query := `
		SELECT id, review_id, user_id, reply_text, created_at
		FROM review_replies
		WHERE review_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, reviewID.String())
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	var replies []*Reply
	for rows.Next() {
		var (
			reply       Reply
			rawID       string
			rawReviewID string
			rawUserID   string
		)
		if err := rows.Scan(&rawID, &rawReviewID, &rawUserID, &reply.Text, &reply.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		parsedID, err := id.ParseReplyID(rawID)
		if err != nil {
			return nil, err
		}
		parsedReviewID, err := id.ParseReviewID(rawReviewID)
		if err != nil {
			return nil, err
		}
		parsedUserID, err := id.ParseUserID(rawUserID)
		if err != nil {
			return nil, err
		}
		reply.ID = parsedID
		reply.ReviewID = parsedReviewID
		reply.UserID = parsedUserID
		replies = append(replies, &reply)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate replies: %w", err)
	}
	return replies, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*Review, error) {
	var (
		review       Review
		rawID        string
		rawStartupID string
		rawUserID    string
		rawSentiment string
	)
	if err := row.Scan(&rawID, &rawStartupID, &rawUserID, &review.Rating, &review.Comment, &rawSentiment, &review.CreatedAt); err != nil {
		return nil, err
	}
	if err := fillReviewIDs(&review, rawID, rawStartupID, rawUserID, rawSentiment); err != nil {
		return nil, err
	}
	return &review, nil
}

func fillReviewIDs(review *Review, rawID, rawStartupID, rawUserID, rawSentiment string) error {
	parsedID, err := id.ParseReviewID(rawID)
	if err != nil {
		return err
	}
	parsedStartupID, err := id.ParseStartupID(rawStartupID)
	if err != nil {
		return err
	}
	parsedUserID, err := id.ParseUserID(rawUserID)
	if err != nil {
		return err
	}
	review.ID = parsedID
	review.StartupID = parsedStartupID
	review.UserID = parsedUserID
	review.Sentiment = Sentiment(rawSentiment)
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports SQLSTATE 23503, raised when the parent
// startup or review row is gone.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
