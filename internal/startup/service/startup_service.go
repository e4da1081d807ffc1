package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"foundry/internal/events"
	"foundry/internal/startup/models"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/sentinel"
	"foundry/pkg/requestcontext"
)

var tracer = otel.Tracer("foundry/startup")

// Register submits a new listing for the calling owner. Callers must hold
// the startup_owner role; a second registration by the same owner is a
// conflict.
func (s *Service) Register(ctx context.Context, ownerID id.UserID, role id.Role, reg models.Registration) (*models.Startup, error) {
	if ownerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if role != id.RoleStartupOwner {
		return nil, dErrors.New(dErrors.CodeForbidden, "only startup owners can register a startup")
	}

	if reg.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *reg.CategoryID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeValidation, "unknown category")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check category")
		}
	}

	startup, err := models.NewStartup(ownerID, reg, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.startups.CreateIfOwnerFree(ctx, startup); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, dErrors.New(dErrors.CodeConflict, "you have already registered a startup")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register startup")
	}

	s.metrics.IncStartupsRegistered()
	s.emit(ctx, events.New(events.TypeStartupRegistered, startup.CreatedAt, startup.ID.String(), ownerID.String()))

	s.logger.InfoContext(ctx, "startup registered",
		"request_id", requestcontext.RequestID(ctx),
		"startup_id", startup.ID,
		"owner_id", ownerID,
	)
	return startup, nil
}

// Get returns one listing by ID regardless of status; the handler decides
// whether the caller may see non-approved listings.
func (s *Service) Get(ctx context.Context, startupID id.StartupID) (*models.Startup, error) {
	startup, err := s.startups.FindByID(ctx, startupID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "startup not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load startup")
	}
	return startup, nil
}

// GetByOwner returns the caller's own listing in any status.
func (s *Service) GetByOwner(ctx context.Context, ownerID id.UserID) (*models.Startup, error) {
	if ownerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	startup, err := s.startups.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "you have not registered a startup")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load startup")
	}
	return startup, nil
}

// Update edits owner-managed fields. Only the owner (or an admin) may
// update, and derived fields (rating, status) are untouchable here.
type Update struct {
	Name         *string
	CategoryID   *id.CategoryID
	Description  *string
	Location     *string
	Website      *string
	ContactEmail *string
	ContactPhone *string
	LogoURL      *string
}

func (s *Service) UpdateListing(ctx context.Context, startupID id.StartupID, update Update) (*models.Startup, error) {
	callerID := requestcontext.UserID(ctx)
	if callerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	if update.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *update.CategoryID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeValidation, "unknown category")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check category")
		}
	}

	now := requestcontext.Now(ctx)
	isAdmin := requestcontext.Role(ctx) == id.RoleAdmin

	startup, err := s.startups.Execute(ctx, startupID,
		func(st *models.Startup) error {
			if st.OwnerID != callerID && !isAdmin {
				return dErrors.New(dErrors.CodeForbidden, "only the owner can update this startup")
			}
			return validateUpdate(update)
		},
		func(st *models.Startup) {
			applyUpdate(st, update, now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "startup not found")
		}
		return nil, err
	}
	return startup, nil
}

func validateUpdate(update Update) error {
	if update.Name != nil && (len(*update.Name) < 2 || len(*update.Name) > 128) {
		return dErrors.New(dErrors.CodeValidation, "name must be between 2 and 128 characters")
	}
	if update.Description != nil && (len(*update.Description) < 10 || len(*update.Description) > 5000) {
		return dErrors.New(dErrors.CodeValidation, "description must be between 10 and 5000 characters")
	}
	if update.Location != nil && *update.Location == "" {
		return dErrors.New(dErrors.CodeValidation, "location cannot be empty")
	}
	return nil
}

func applyUpdate(st *models.Startup, update Update, now time.Time) {
	if update.Name != nil {
		st.Name = *update.Name
	}
	if update.CategoryID != nil {
		st.CategoryID = update.CategoryID
	}
	if update.Description != nil {
		st.Description = *update.Description
	}
	if update.Location != nil {
		st.Location = *update.Location
	}
	if update.Website != nil {
		st.Website = *update.Website
	}
	if update.ContactEmail != nil {
		st.ContactEmail = *update.ContactEmail
	}
	if update.ContactPhone != nil {
		st.ContactPhone = *update.ContactPhone
	}
	if update.LogoURL != nil {
		st.LogoURL = *update.LogoURL
	}
	st.UpdatedAt = now
}

// Search returns approved listings matching the filter. An empty filter
// returns every approved listing (first page).
func (s *Service) Search(ctx context.Context, filter models.SearchFilter) ([]*models.Startup, error) {
	ctx, span := tracer.Start(ctx, "startup.search")
	defer span.End()

	filter.Normalize()
	span.SetAttributes(
		attribute.String("search.query", filter.Query),
		attribute.String("search.location", filter.Location),
	)

	start := time.Now()
	results, err := s.startups.Search(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search failed")
	}
	s.metrics.ObserveSearchDuration(time.Since(start).Seconds())
	return results, nil
}

// ListByStatus is the admin moderation queue.
func (s *Service) ListByStatus(ctx context.Context, status models.Status) ([]*models.Startup, error) {
	if !status.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid status")
	}
	listings, err := s.startups.ListByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list startups")
	}
	return listings, nil
}

// Approve moves a pending listing to approved. Re-approving an approved
// listing is a no-op; deciding a rejected one is a conflict.
func (s *Service) Approve(ctx context.Context, startupID id.StartupID) (*models.Startup, error) {
	return s.moderate(ctx, startupID, models.StatusApproved, events.TypeStartupApproved)
}

// Reject moves a pending listing to rejected.
func (s *Service) Reject(ctx context.Context, startupID id.StartupID) (*models.Startup, error) {
	return s.moderate(ctx, startupID, models.StatusRejected, events.TypeStartupRejected)
}

func (s *Service) moderate(ctx context.Context, startupID id.StartupID, target models.Status, eventType events.Type) (*models.Startup, error) {
	now := requestcontext.Now(ctx)
	changed := false

	startup, err := s.startups.Execute(ctx, startupID,
		func(st *models.Startup) error {
			if err := st.CanModerate(target); err != nil {
				return dErrors.New(dErrors.CodeConflict, "startup is already "+string(st.Status))
			}
			return nil
		},
		func(st *models.Startup) {
			changed = st.Status != target
			st.ApplyModeration(target, now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "startup not found")
		}
		return nil, err
	}

	if changed {
		s.metrics.IncStartupsModerated(string(target))
		s.emit(ctx, events.New(eventType, now, startup.ID.String(), requestcontext.UserID(ctx).String()))
		s.logger.InfoContext(ctx, "startup moderated",
			"request_id", requestcontext.RequestID(ctx),
			"startup_id", startup.ID,
			"status", target,
		)
	}
	return startup, nil
}
