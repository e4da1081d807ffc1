package view

import (
	"context"
	"sync"

	id "foundry/pkg/domain"
)

type InMemoryStore struct {
	mu    sync.Mutex
	views []*View
	pairs map[pairKey]struct{}
}

type pairKey struct {
	startupID id.StartupID
	userID    id.UserID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{pairs: make(map[pairKey]struct{})}
}

func (s *InMemoryStore) Create(_ context.Context, view *View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *view
	s.views = append(s.views, &cp)
	if view.UserID != nil {
		s.pairs[pairKey{startupID: view.StartupID, userID: *view.UserID}] = struct{}{}
	}
	return nil
}

func (s *InMemoryStore) HasViewed(_ context.Context, startupID id.StartupID, userID id.UserID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.pairs[pairKey{startupID: startupID, userID: userID}]
	return ok, nil
}

// ListAll snapshots every view row, for in-memory aggregation.
func (s *InMemoryStore) ListAll(_ context.Context) ([]*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]*View, 0, len(s.views))
	for _, view := range s.views {
		cp := *view
		views = append(views, &cp)
	}
	return views, nil
}

func (s *InMemoryStore) CountByStartup(_ context.Context, startupID id.StartupID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, view := range s.views {
		if view.StartupID == startupID {
			count++
		}
	}
	return count, nil
}
