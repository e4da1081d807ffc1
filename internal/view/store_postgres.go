package view

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, view *View) error {
	query := `
		INSERT INTO startup_views (id, startup_id, user_id, viewed_at)
		VALUES ($1, $2, $3, $4)
	`
	var userID any
	if view.UserID != nil {
		userID = view.UserID.String()
	}
	_, err := s.db.ExecContext(ctx, query, view.ID.String(), view.StartupID.String(), userID, view.ViewedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("create view: %w", err)
	}
	return nil
}

// HasViewed filters by both startup and user. Checking the user alone
// would treat a visit to one startup as a visit to every startup.
func (s *PostgresStore) HasViewed(ctx context.Context, startupID id.StartupID, userID id.UserID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM startup_views WHERE startup_id = $1 AND user_id = $2)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, startupID.String(), userID.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check view: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) CountByStartup(ctx context.Context, startupID id.StartupID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM startup_views WHERE startup_id = $1`, startupID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count views: %w", err)
	}
	return count, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
