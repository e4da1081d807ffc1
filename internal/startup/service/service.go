package service

import (
	"context"
	"log/slog"

	"foundry/internal/events"
	"foundry/internal/platform/metrics"
	"foundry/internal/startup/models"
	id "foundry/pkg/domain"
)

// StartupStore persists listings. Implementations return sentinel errors;
// the service translates them.
type StartupStore interface {
	// CreateIfOwnerFree inserts the listing, failing with
	// sentinel.ErrAlreadyExists when the owner already has one. The
	// one-startup-per-owner invariant lives here (unique index or mutex),
	// making concurrent registrations safe.
	CreateIfOwnerFree(ctx context.Context, startup *models.Startup) error
	FindByID(ctx context.Context, startupID id.StartupID) (*models.Startup, error)
	FindByOwner(ctx context.Context, ownerID id.UserID) (*models.Startup, error)
	Update(ctx context.Context, startup *models.Startup) error
	// Search returns approved listings matching the filter.
	Search(ctx context.Context, filter models.SearchFilter) ([]*models.Startup, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Startup, error)
	// Execute atomically validates and mutates one listing while holding
	// the store's lock (mutex or SELECT ... FOR UPDATE).
	Execute(ctx context.Context, startupID id.StartupID, validate func(*models.Startup) error, mutate func(*models.Startup)) (*models.Startup, error)
}

// CategoryStore persists the flat category list.
type CategoryStore interface {
	// CreateIfNameAvailable enforces case-insensitive name uniqueness.
	CreateIfNameAvailable(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, categoryID id.CategoryID) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
}

// Service orchestrates listing registration, search, and moderation.
type Service struct {
	startups   StartupStore
	categories CategoryStore
	events     events.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func New(startups StartupStore, categories CategoryStore, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		startups:   startups,
		categories: categories,
		events:     publisher,
		metrics:    m,
		logger:     logger,
	}
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit event",
			"event_type", event.Type,
			"error", err,
		)
	}
}
