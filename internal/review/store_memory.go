package review

import (
	"context"
	"sort"
	"sync"

	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
)

// NameResolver looks up a user's display name for review listings. The
// identity store satisfies this in-memory; Postgres joins instead.
type NameResolver interface {
	DisplayName(ctx context.Context, userID id.UserID) (string, error)
}

type InMemoryStore struct {
	mu      sync.Mutex
	reviews map[id.ReviewID]*Review
	byPair  map[pairKey]id.ReviewID
	replies map[id.ReviewID][]*Reply
	names   NameResolver
}

type pairKey struct {
	userID    id.UserID
	startupID id.StartupID
}

func NewInMemoryStore(names NameResolver) *InMemoryStore {
	return &InMemoryStore{
		reviews: make(map[id.ReviewID]*Review),
		byPair:  make(map[pairKey]id.ReviewID),
		replies: make(map[id.ReviewID][]*Reply),
		names:   names,
	}
}

func (s *InMemoryStore) CreateReview(_ context.Context, review *Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{userID: review.UserID, startupID: review.StartupID}
	if _, taken := s.byPair[key]; taken {
		return sentinel.ErrAlreadyExists
	}
	cp := *review
	s.reviews[review.ID] = &cp
	s.byPair[key] = review.ID
	return nil
}

func (s *InMemoryStore) FindReview(_ context.Context, reviewID id.ReviewID) (*Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review, ok := s.reviews[reviewID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *review
	return &cp, nil
}

func (s *InMemoryStore) ListByStartup(ctx context.Context, startupID id.StartupID) ([]*ReviewWithAuthor, error) {
	s.mu.Lock()
	var matched []*Review
	for _, review := range s.reviews {
		if review.StartupID == startupID {
			cp := *review
			matched = append(matched, &cp)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	listed := make([]*ReviewWithAuthor, 0, len(matched))
	for _, review := range matched {
		name := ""
		if s.names != nil {
			resolved, err := s.names.DisplayName(ctx, review.UserID)
			if err == nil {
				name = resolved
			}
		}
		listed = append(listed, &ReviewWithAuthor{Review: *review, AuthorName: name})
	}
	return listed, nil
}

func (s *InMemoryStore) CountByStartup(_ context.Context, startupID id.StartupID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, review := range s.reviews {
		if review.StartupID == startupID {
			count++
		}
	}
	return count, nil
}

// ListAll snapshots every review, for in-memory aggregation.
func (s *InMemoryStore) ListAll(_ context.Context) ([]*Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews := make([]*Review, 0, len(s.reviews))
	for _, review := range s.reviews {
		cp := *review
		reviews = append(reviews, &cp)
	}
	return reviews, nil
}

func (s *InMemoryStore) CreateReply(_ context.Context, reply *Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[reply.ReviewID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *reply
	s.replies[reply.ReviewID] = append(s.replies[reply.ReviewID], &cp)
	return nil
}

func (s *InMemoryStore) ListReplies(_ context.Context, reviewID id.ReviewID) ([]*Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replies := make([]*Reply, 0, len(s.replies[reviewID]))
	for _, reply := range s.replies[reviewID] {
		cp := *reply
		replies = append(replies, &cp)
	}
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies, nil
}
