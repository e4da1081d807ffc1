package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"foundry/internal/startup/models"
	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
)

// PostgresStore persists categories. Case-insensitive name uniqueness is
// the categories_name_lower_key index on lower(name).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateIfNameAvailable(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, category.ID.String(), category.Name, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, categoryID id.CategoryID) (*models.Category, error) {
	query := `SELECT id, name, created_at FROM categories WHERE id = $1`
	category, err := scanCategory(s.db.QueryRowContext(ctx, query, categoryID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return category, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT id, name, created_at FROM categories ORDER BY lower(name)`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*models.Category, error) {
	var (
		category models.Category
		rawID    string
	)
	if err := row.Scan(&rawID, &category.Name, &category.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := id.ParseCategoryID(rawID)
	if err != nil {
		return nil, err
	}
	category.ID = parsed
	return &category, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
