package models

import (
	"net/mail"
	"strings"
	"time"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
)

// Status is the moderation state of a listing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the moderation state machine allows the
// move. Only pending startups can be decided; approved and rejected are
// terminal.
func (s Status) CanTransitionTo(target Status) bool {
	return s == StatusPending && (target == StatusApproved || target == StatusRejected)
}

// Startup is the aggregate root for a directory listing.
//
// Invariants:
//   - Each owner has at most one startup (enforced by the store, not an
//     advisory pre-check)
//   - Status starts at pending; transitions only pending -> approved and
//     pending -> rejected
//   - Rating is derived from reviews and rewritten by the review service;
//     it is never set by owners
type Startup struct {
	ID           id.StartupID   `json:"id"`
	OwnerID      id.UserID      `json:"owner_id"`
	Name         string         `json:"name"`
	CategoryID   *id.CategoryID `json:"category_id,omitempty"`
	Description  string         `json:"description"`
	Location     string         `json:"location"`
	Website      string         `json:"website,omitempty"`
	ContactEmail string         `json:"contact_email"`
	ContactPhone string         `json:"contact_phone,omitempty"`
	LogoURL      string         `json:"logo_url,omitempty"`
	Rating       float64        `json:"rating"`
	Status       Status         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Registration carries the owner-supplied fields of a new listing.
type Registration struct {
	Name         string
	CategoryID   *id.CategoryID
	Description  string
	Location     string
	Website      string
	ContactEmail string
	ContactPhone string
	LogoURL      string
}

// NewStartup validates a registration and builds a pending listing.
func NewStartup(ownerID id.UserID, reg Registration, now time.Time) (*Startup, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Description = strings.TrimSpace(reg.Description)
	reg.Location = strings.TrimSpace(reg.Location)

	if len(reg.Name) < 2 || len(reg.Name) > 128 {
		return nil, dErrors.New(dErrors.CodeValidation, "name must be between 2 and 128 characters")
	}
	if len(reg.Description) < 10 || len(reg.Description) > 5000 {
		return nil, dErrors.New(dErrors.CodeValidation, "description must be between 10 and 5000 characters")
	}
	if reg.Location == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "location is required")
	}
	if _, err := mail.ParseAddress(reg.ContactEmail); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid contact email")
	}

	return &Startup{
		ID:           id.NewStartupID(),
		OwnerID:      ownerID,
		Name:         reg.Name,
		CategoryID:   reg.CategoryID,
		Description:  reg.Description,
		Location:     reg.Location,
		Website:      strings.TrimSpace(reg.Website),
		ContactEmail: strings.TrimSpace(reg.ContactEmail),
		ContactPhone: strings.TrimSpace(reg.ContactPhone),
		LogoURL:      strings.TrimSpace(reg.LogoURL),
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Startup) IsApproved() bool { return s.Status == StatusApproved }

// CanModerate checks whether the listing may move to target. Re-applying
// the current status is allowed and treated as a no-op by the service.
func (s *Startup) CanModerate(target Status) error {
	if s.Status == target {
		return nil
	}
	if !s.Status.CanTransitionTo(target) {
		return dErrors.New(dErrors.CodeInvariantViolation, "startup is already "+string(s.Status))
	}
	return nil
}

// ApplyModeration transitions the listing. Call CanModerate first.
func (s *Startup) ApplyModeration(target Status, now time.Time) {
	if s.Status == target {
		return
	}
	s.Status = target
	s.UpdatedAt = now
}

// SearchFilter narrows a directory search. Zero-valued fields are not
// applied; supplied filters combine with AND. Only approved listings are
// ever returned.
type SearchFilter struct {
	Query      string
	CategoryID *id.CategoryID
	Location   string
	MinRating  *float64
	Limit      int
	Offset     int
}

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 100
)

// Normalize clamps pagination and trims text filters.
func (f *SearchFilter) Normalize() {
	f.Query = strings.TrimSpace(f.Query)
	f.Location = strings.TrimSpace(f.Location)
	if f.Limit <= 0 || f.Limit > maxSearchLimit {
		if f.Limit > maxSearchLimit {
			f.Limit = maxSearchLimit
		} else {
			f.Limit = defaultSearchLimit
		}
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
