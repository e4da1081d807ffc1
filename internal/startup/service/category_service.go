package service

import (
	"context"
	"errors"

	"foundry/internal/startup/models"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/sentinel"
	"foundry/pkg/requestcontext"
)

// CreateCategory adds an admin-managed label. Name uniqueness is
// case-insensitive and enforced by the store.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category, err := models.NewCategory(name, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.categories.CreateIfNameAvailable(ctx, category); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, dErrors.New(dErrors.CodeConflict, "a category with this name already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create category")
	}

	s.logger.InfoContext(ctx, "category created",
		"request_id", requestcontext.RequestID(ctx),
		"category_id", category.ID,
		"name", category.Name,
	)
	return category, nil
}

// ListCategories returns every category, name-ordered.
func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list categories")
	}
	return categories, nil
}
