package category

import (
	"context"
	"sort"
	"strings"
	"sync"

	"foundry/internal/startup/models"
	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu         sync.Mutex
	categories map[id.CategoryID]*models.Category
	byName     map[string]id.CategoryID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		categories: make(map[id.CategoryID]*models.Category),
		byName:     make(map[string]id.CategoryID),
	}
}

func (s *InMemoryStore) CreateIfNameAvailable(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(category.Name)
	if _, taken := s.byName[key]; taken {
		return sentinel.ErrAlreadyExists
	}
	cp := *category
	s.categories[category.ID] = &cp
	s.byName[key] = category.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, categoryID id.CategoryID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[categoryID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *category
	return &cp, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]*models.Category, 0, len(s.categories))
	for _, category := range s.categories {
		cp := *category
		categories = append(categories, &cp)
	}
	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories, nil
}
