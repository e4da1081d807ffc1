package identity

import (
	"context"
	"sync"

	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
)

// InMemoryStore keeps users in maps behind a mutex. It backs unit tests and
// lets the binary run without a database.
type InMemoryStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*User
	byEmail map[string]id.UserID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:   make(map[id.UserID]*User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := NormalizeEmail(user.Email)
	if _, taken := s.byEmail[email]; taken {
		return sentinel.ErrAlreadyExists
	}
	copied := *user
	s.users[user.ID] = &copied
	s.byEmail[email] = user.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.users[userID]
	return &copied, nil
}

// ListAll snapshots every user, for in-memory aggregation.
func (s *InMemoryStore) ListAll(_ context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*User, 0, len(s.users))
	for _, user := range s.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

// DisplayName resolves a user's full name for listings that join reviews
// with their authors.
func (s *InMemoryStore) DisplayName(ctx context.Context, userID id.UserID) (string, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.FullName, nil
}

func (s *InMemoryStore) Update(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}
