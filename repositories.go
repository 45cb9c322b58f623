package logroute

import (
	"sort"
	"sync"
)

// Repositories keeps one Repository per component id. It is an explicit value
// owned by whatever hosts the components; there is no package-level instance.
type Repositories struct {
	mu    sync.Mutex
	cfg   RepositoryConfig
	repos map[string]*Repository
}

// NewRepositories returns an empty set whose repositories share cfg.
func NewRepositories(cfg RepositoryConfig) *Repositories {
	return &Repositories{cfg: cfg, repos: make(map[string]*Repository)}
}

// Get returns the repository of componentID, creating it on first use.
func (s *Repositories) Get(componentID string) *Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.repos[componentID]
	if !ok {
		r = NewRepository(s.cfg)
		s.repos[componentID] = r
	}
	return r
}

// Lookup returns the repository of componentID without creating it.
func (s *Repositories) Lookup(componentID string) (*Repository, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.repos[componentID]
	return r, ok
}

// Remove drops componentID's repository after clearing its observers, so late
// producers still holding it route nowhere.
func (s *Repositories) Remove(componentID string) (*Repository, bool) {
	s.mu.Lock()
	r, ok := s.repos[componentID]
	delete(s.repos, componentID)
	s.mu.Unlock()
	if ok {
		r.RemoveAllObservers()
	}
	return r, ok
}

func (s *Repositories) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.repos)
}

// IDs returns the component ids, sorted.
func (s *Repositories) IDs() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.repos))
	for id := range s.repos {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)
	return ids
}
