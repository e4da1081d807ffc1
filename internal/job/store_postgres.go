package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const jobColumns = `id, startup_id, title, description, requirements, salary, job_type, location, contact_email, posted_at, expires_at`

func (s *PostgresStore) Create(ctx context.Context, job *Job) error {
	query := `
		INSERT INTO jobs (id, startup_id, title, description, requirements, salary, job_type, location, contact_email, posted_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		job.ID.String(),
		job.StartupID.String(),
		job.Title,
		job.Description,
		job.Requirements,
		job.Salary,
		string(job.JobType),
		job.Location,
		job.ContactEmail,
		job.PostedAt,
		job.ExpiresAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, jobID id.JobID) (*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(s.db.QueryRowContext(ctx, query, jobID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return job, nil
}

func (s *PostgresStore) ListByStartup(ctx context.Context, startupID id.StartupID) ([]*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE startup_id = $1 ORDER BY posted_at DESC`
	rows, err := s.db.QueryContext(ctx, query, startupID.String())
	if err != nil {
		return nil, fmt.Errorf("list jobs by startup: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

func (s *PostgresStore) ListActive(ctx context.Context, now time.Time) ([]*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE expires_at > $1 ORDER BY posted_at DESC`
	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job          Job
		rawID        string
		rawStartupID string
		rawType      string
	)
	if err := row.Scan(
		&rawID,
		&rawStartupID,
		&job.Title,
		&job.Description,
		&job.Requirements,
		&job.Salary,
		&rawType,
		&job.Location,
		&job.ContactEmail,
		&job.PostedAt,
		&job.ExpiresAt,
	); err != nil {
		return nil, err
	}
	parsedID, err := id.ParseJobID(rawID)
	if err != nil {
		return nil, err
	}
	parsedStartupID, err := id.ParseStartupID(rawStartupID)
	if err != nil {
		return nil, err
	}
	job.ID = parsedID
	job.StartupID = parsedStartupID
	job.JobType = Type(rawType)
	return &job, nil
}

func collectJobs(rows *sql.Rows) ([]*Job, error) {
	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
