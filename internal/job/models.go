package job

import (
	"net/mail"
	"strings"
	"time"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
)

// Type is the employment kind of a posting.
type Type string

const (
	TypeFullTime   Type = "full_time"
	TypePartTime   Type = "part_time"
	TypeContract   Type = "contract"
	TypeInternship Type = "internship"
)

func (t Type) Valid() bool {
	switch t {
	case TypeFullTime, TypePartTime, TypeContract, TypeInternship:
		return true
	}
	return false
}

// Job is a posting attached to an approved startup. Postings expire by
// ExpiresAt comparison; they are never auto-deleted.
type Job struct {
	ID           id.JobID     `json:"id"`
	StartupID    id.StartupID `json:"startup_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Requirements string       `json:"requirements,omitempty"`
	Salary       string       `json:"salary,omitempty"`
	JobType      Type         `json:"job_type"`
	Location     string       `json:"location"`
	ContactEmail string       `json:"contact_email"`
	PostedAt     time.Time    `json:"posted_at"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// Posting carries the owner-supplied fields of a new job.
type Posting struct {
	Title        string
	Description  string
	Requirements string
	Salary       string
	JobType      Type
	Location     string
	ContactEmail string
	ExpiresAt    time.Time
}

func NewJob(startupID id.StartupID, posting Posting, now time.Time) (*Job, error) {
	posting.Title = strings.TrimSpace(posting.Title)
	posting.Description = strings.TrimSpace(posting.Description)
	posting.Location = strings.TrimSpace(posting.Location)

	if len(posting.Title) < 2 || len(posting.Title) > 128 {
		return nil, dErrors.New(dErrors.CodeValidation, "title must be between 2 and 128 characters")
	}
	if len(posting.Description) < 10 || len(posting.Description) > 5000 {
		return nil, dErrors.New(dErrors.CodeValidation, "description must be between 10 and 5000 characters")
	}
	if !posting.JobType.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "job_type must be one of full_time, part_time, contract, internship")
	}
	if posting.Location == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "location is required")
	}
	if _, err := mail.ParseAddress(posting.ContactEmail); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid contact email")
	}
	if !posting.ExpiresAt.After(now) {
		return nil, dErrors.New(dErrors.CodeValidation, "expires_at must be in the future")
	}

	return &Job{
		ID:           id.NewJobID(),
		StartupID:    startupID,
		Title:        posting.Title,
		Description:  posting.Description,
		Requirements: strings.TrimSpace(posting.Requirements),
		Salary:       strings.TrimSpace(posting.Salary),
		JobType:      posting.JobType,
		Location:     posting.Location,
		ContactEmail: strings.TrimSpace(posting.ContactEmail),
		PostedAt:     now,
		ExpiresAt:    posting.ExpiresAt,
	}, nil
}

// Active reports whether the posting has not yet expired at now.
func (j *Job) Active(now time.Time) bool {
	return j.ExpiresAt.After(now)
}
