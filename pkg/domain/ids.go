// Package domain defines the typed identifiers shared across services.
//
// Every entity gets its own UUID-backed ID type so the compiler rejects
// cross-entity mixups (passing a ReviewID where a StartupID is expected).
// Parse functions enforce the invariant that IDs are valid, non-nil UUIDs
// at trust boundaries; internal code constructs IDs with the New helpers.
package domain

import (
	"github.com/google/uuid"

	dErrors "foundry/pkg/domain-errors"
)

type (
	// UserID identifies a registered account.
	UserID uuid.UUID
	// StartupID identifies a directory listing.
	StartupID uuid.UUID
	// CategoryID identifies a flat startup category.
	CategoryID uuid.UUID
	// ReviewID identifies a user review of a startup.
	ReviewID uuid.UUID
	// ReplyID identifies a reply attached to a review.
	ReplyID uuid.UUID
	// ViewID identifies a counted startup page view.
	ViewID uuid.UUID
	// JobID identifies a job posting.
	JobID uuid.UUID
	// SessionID identifies an issued login session.
	SessionID uuid.UUID
)

func parseUUID(raw, what string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, what+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid "+what)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, what+" cannot be nil")
	}
	return parsed, nil
}

func NewUserID() UserID         { return UserID(uuid.New()) }
func NewStartupID() StartupID   { return StartupID(uuid.New()) }
func NewCategoryID() CategoryID { return CategoryID(uuid.New()) }
func NewReviewID() ReviewID     { return ReviewID(uuid.New()) }
func NewReplyID() ReplyID       { return ReplyID(uuid.New()) }
func NewViewID() ViewID         { return ViewID(uuid.New()) }
func NewJobID() JobID           { return JobID(uuid.New()) }
func NewSessionID() SessionID   { return SessionID(uuid.New()) }

func ParseUserID(raw string) (UserID, error) {
	u, err := parseUUID(raw, "user id")
	return UserID(u), err
}

func ParseStartupID(raw string) (StartupID, error) {
	u, err := parseUUID(raw, "startup id")
	return StartupID(u), err
}

func ParseCategoryID(raw string) (CategoryID, error) {
	u, err := parseUUID(raw, "category id")
	return CategoryID(u), err
}

func ParseReviewID(raw string) (ReviewID, error) {
	u, err := parseUUID(raw, "review id")
	return ReviewID(u), err
}

func ParseReplyID(raw string) (ReplyID, error) {
	u, err := parseUUID(raw, "reply id")
	return ReplyID(u), err
}

func ParseJobID(raw string) (JobID, error) {
	u, err := parseUUID(raw, "job id")
	return JobID(u), err
}

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id StartupID) String() string { return uuid.UUID(id).String() }
func (id CategoryID) String() string {
	return uuid.UUID(id).String()
}
func (id ReviewID) String() string  { return uuid.UUID(id).String() }
func (id ReplyID) String() string   { return uuid.UUID(id).String() }
func (id ViewID) String() string    { return uuid.UUID(id).String() }
func (id JobID) String() string     { return uuid.UUID(id).String() }
func (id SessionID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id StartupID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id CategoryID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}
func (id ReviewID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ReplyID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ViewID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id JobID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText keep the IDs as canonical UUID strings in JSON
// payloads instead of the raw byte-array encoding of the underlying type.

func (id UserID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id StartupID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id CategoryID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}
func (id ReviewID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id ReplyID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id ViewID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id JobID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id SessionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *StartupID) UnmarshalText(b []byte) error {
	parsed, err := ParseStartupID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *CategoryID) UnmarshalText(b []byte) error {
	parsed, err := ParseCategoryID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ReviewID) UnmarshalText(b []byte) error {
	parsed, err := ParseReviewID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ReplyID) UnmarshalText(b []byte) error {
	parsed, err := ParseReplyID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *JobID) UnmarshalText(b []byte) error {
	parsed, err := ParseJobID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
