package models

import (
	"strings"
	"time"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
)

// Category is a flat, admin-managed label. No hierarchy.
type Category struct {
	ID        id.CategoryID `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewCategory validates and builds a category.
func NewCategory(name string, now time.Time) (*Category, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 64 {
		return nil, dErrors.New(dErrors.CodeValidation, "category name must be between 2 and 64 characters")
	}
	return &Category{
		ID:        id.NewCategoryID(),
		Name:      name,
		CreatedAt: now,
	}, nil
}
