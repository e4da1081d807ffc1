package job

import (
	"context"
	"sort"
	"sync"
	"time"

	id "foundry/pkg/domain"
	"foundry/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu   sync.Mutex
	jobs map[id.JobID]*Job
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{jobs: make(map[id.JobID]*Job)}
}

func (s *InMemoryStore) Create(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, jobID id.JobID) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (s *InMemoryStore) ListByStartup(_ context.Context, startupID id.StartupID) ([]*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []*Job
	for _, job := range s.jobs {
		if job.StartupID == startupID {
			cp := *job
			jobs = append(jobs, &cp)
		}
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

func (s *InMemoryStore) ListActive(_ context.Context, now time.Time) ([]*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []*Job
	for _, job := range s.jobs {
		if job.Active(now) {
			cp := *job
			jobs = append(jobs, &cp)
		}
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

func sortNewestFirst(jobs []*Job) {
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].PostedAt.After(jobs[j].PostedAt)
	})
}
