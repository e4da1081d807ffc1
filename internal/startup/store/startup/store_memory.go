package startup

import (
	"context"
	"sort"
	"strings"
	"sync"

	"foundry/internal/startup/models"
	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
)

// InMemoryStore keeps listings in a map guarded by a mutex. It backs unit
// tests and local runs without a database.
type InMemoryStore struct {
	mu       sync.Mutex
	startups map[id.StartupID]*models.Startup
	byOwner  map[id.UserID]id.StartupID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		startups: make(map[id.StartupID]*models.Startup),
		byOwner:  make(map[id.UserID]id.StartupID),
	}
}

func (s *InMemoryStore) CreateIfOwnerFree(_ context.Context, startup *models.Startup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byOwner[startup.OwnerID]; taken {
		return sentinel.ErrAlreadyExists
	}
	cp := *startup
	s.startups[startup.ID] = &cp
	s.byOwner[startup.OwnerID] = startup.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, startupID id.StartupID) (*models.Startup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startup, ok := s.startups[startupID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *startup
	return &cp, nil
}

func (s *InMemoryStore) FindByOwner(_ context.Context, ownerID id.UserID) (*models.Startup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startupID, ok := s.byOwner[ownerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.startups[startupID]
	return &cp, nil
}

func (s *InMemoryStore) Update(_ context.Context, startup *models.Startup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.startups[startup.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *startup
	s.startups[startup.ID] = &cp
	return nil
}

func (s *InMemoryStore) Search(_ context.Context, filter models.SearchFilter) ([]*models.Startup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.Startup
	for _, startup := range s.startups {
		if !matches(startup, filter) {
			continue
		}
		cp := *startup
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Rating != matched[j].Rating {
			return matched[i].Rating > matched[j].Rating
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func matches(startup *models.Startup, filter models.SearchFilter) bool {
	if !startup.IsApproved() {
		return false
	}
	if filter.CategoryID != nil {
		if startup.CategoryID == nil || *startup.CategoryID != *filter.CategoryID {
			return false
		}
	}
	if filter.Location != "" && !strings.Contains(strings.ToLower(startup.Location), strings.ToLower(filter.Location)) {
		return false
	}
	if filter.MinRating != nil && startup.Rating < *filter.MinRating {
		return false
	}
	if filter.Query != "" {
		haystack := strings.ToLower(startup.Name + " " + startup.Description + " " + startup.Location)
		for _, token := range strings.Fields(strings.ToLower(filter.Query)) {
			if !strings.Contains(haystack, token) {
				return false
			}
		}
	}
	return true
}

func (s *InMemoryStore) ListByStatus(_ context.Context, status models.Status) ([]*models.Startup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var listings []*models.Startup
	for _, startup := range s.startups {
		if startup.Status != status {
			continue
		}
		cp := *startup
		listings = append(listings, &cp)
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.Before(listings[j].CreatedAt)
	})
	return listings, nil
}

// Execute runs validate then mutate on one listing while holding the store
// lock, so concurrent moderation decisions serialize.
func (s *InMemoryStore) Execute(_ context.Context, startupID id.StartupID, validate func(*models.Startup) error, mutate func(*models.Startup)) (*models.Startup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startup, ok := s.startups[startupID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(startup); err != nil {
		return nil, err
	}
	mutate(startup)
	cp := *startup
	return &cp, nil
}
