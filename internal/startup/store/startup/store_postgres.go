package startup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"foundry/internal/startup/models"
	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
)

// PostgresStore persists listings in PostgreSQL. The one-startup-per-owner
// invariant is the startups_owner_id_key unique index; search relies on a
// GIN index over to_tsvector(name || description || location).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const startupColumns = `id, owner_id, name, category_id, description, location, website, contact_email, contact_phone, logo_url, rating, status, created_at, updated_at`

func (s *PostgresStore) CreateIfOwnerFree(ctx context.Context, startup *models.Startup) error {
	query := `
		INSERT INTO startups (id, owner_id, name, category_id, description, location, website, contact_email, contact_phone, logo_url, rating, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		startup.ID.String(),
		startup.OwnerID.String(),
		startup.Name,
		categoryIDOrNil(startup.CategoryID),
		startup.Description,
		startup.Location,
		startup.Website,
		startup.ContactEmail,
		startup.ContactPhone,
		startup.LogoURL,
		startup.Rating,
		string(startup.Status),
		startup.CreatedAt,
		startup.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("create startup: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, startupID id.StartupID) (*models.Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups WHERE id = $1`
	startup, err := scanStartup(s.db.QueryRowContext(ctx, query, startupID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find startup by id: %w", err)
	}
	return startup, nil
}

func (s *PostgresStore) FindByOwner(ctx context.Context, ownerID id.UserID) (*models.Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups WHERE owner_id = $1`
	startup, err := scanStartup(s.db.QueryRowContext(ctx, query, ownerID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find startup by owner: %w", err)
	}
	return startup, nil
}

func (s *PostgresStore) Update(ctx context.Context, startup *models.Startup) error {
	query := `
		UPDATE startups
		SET name = $2, category_id = $3, description = $4, location = $5, website = $6,
		    contact_email = $7, contact_phone = $8, logo_url = $9, rating = $10,
		    status = $11, updated_at = $12
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		startup.ID.String(),
		startup.Name,
		categoryIDOrNil(startup.CategoryID),
		startup.Description,
		startup.Location,
		startup.Website,
		startup.ContactEmail,
		startup.ContactPhone,
		startup.LogoURL,
		startup.Rating,
		string(startup.Status),
		startup.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update startup: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update startup: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Search builds the WHERE clause incrementally so absent filters cost
// nothing. Full-text matching uses websearch_to_tsquery over the indexed
// name, description, and location vector.
func (s *PostgresStore) Search(ctx context.Context, filter models.SearchFilter) ([]*models.Startup, error) {
	var (
		conditions = []string{`status = 'approved'`}
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Query != "" {
		conditions = append(conditions,
			`to_tsvector('simple', name || ' ' || description || ' ' || location) @@ websearch_to_tsquery('simple', `+arg(filter.Query)+`)`)
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, `category_id = `+arg(filter.CategoryID.String()))
	}
	if filter.Location != "" {
		conditions = append(conditions, `location ILIKE '%' || `+arg(filter.Location)+` || '%'`)
	}
	if filter.MinRating != nil {
		conditions = append(conditions, `rating >= `+arg(*filter.MinRating))
	}

	query := `SELECT ` + startupColumns + ` FROM startups WHERE ` +
		strings.Join(conditions, " AND ") +
		` ORDER BY rating DESC, created_at DESC LIMIT ` + arg(filter.Limit) +
		` OFFSET ` + arg(filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search startups: %w", err)
	}
	defer rows.Close()
	return collectStartups(rows)
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status) ([]*models.Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups WHERE status = $1 ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list startups by status: %w", err)
	}
	defer rows.Close()
	return collectStartups(rows)
}

// Execute loads one listing with SELECT ... FOR UPDATE inside a
// transaction, runs validate and mutate, and writes the result back.
// Concurrent decisions on the same listing serialize on the row lock.
func (s *PostgresStore) Execute(ctx context.Context, startupID id.StartupID, validate func(*models.Startup) error, mutate func(*models.Startup)) (*models.Startup, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + startupColumns + ` FROM startups WHERE id = $1 FOR UPDATE`
	startup, err := scanStartup(tx.QueryRowContext(ctx, query, startupID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock startup: %w", err)
	}

	if err := validate(startup); err != nil {
		return nil, err
	}
	mutate(startup)

	update := `
		UPDATE startups
		SET name = $2, category_id = $3, description = $4, location = $5, website = $6,
		    contact_email = $7, contact_phone = $8, logo_url = $9, rating = $10,
		    status = $11, updated_at = $12
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update,
		startup.ID.String(),
		startup.Name,
		categoryIDOrNil(startup.CategoryID),
		startup.Description,
		startup.Location,
		startup.Website,
		startup.ContactEmail,
		startup.ContactPhone,
		startup.LogoURL,
		startup.Rating,
		string(startup.Status),
		startup.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("write startup: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return startup, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStartup(row rowScanner) (*models.Startup, error) {
	var (
		startup       models.Startup
		rawID         string
		rawOwnerID    string
		rawCategoryID sql.NullString
		rawStatus     string
	)
	if err := row.Scan(
		&rawID,
		&rawOwnerID,
		&startup.Name,
		&rawCategoryID,
		&startup.Description,
		&startup.Location,
		&startup.Website,
		&startup.ContactEmail,
		&startup.ContactPhone,
		&startup.LogoURL,
		&startup.Rating,
		&rawStatus,
		&startup.CreatedAt,
		&startup.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsedID, err := id.ParseStartupID(rawID)
	if err != nil {
		return nil, err
	}
	parsedOwner, err := id.ParseUserID(rawOwnerID)
	if err != nil {
		return nil, err
	}
	startup.ID = parsedID
	startup.OwnerID = parsedOwner
	startup.Status = models.Status(rawStatus)

	if rawCategoryID.Valid {
		parsedCategory, err := id.ParseCategoryID(rawCategoryID.String)
		if err != nil {
			return nil, err
		}
		startup.CategoryID = &parsedCategory
	}
	return &startup, nil
}

func collectStartups(rows *sql.Rows) ([]*models.Startup, error) {
	var startups []*models.Startup
	for rows.Next() {
		startup, err := scanStartup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan startup: %w", err)
		}
		startups = append(startups, startup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate startups: %w", err)
	}
	return startups, nil
}

func categoryIDOrNil(categoryID *id.CategoryID) any {
	if categoryID == nil {
		return nil
	}
	return categoryID.String()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
