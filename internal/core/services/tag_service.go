package services

import (
	"sort"
	"sync"

	"github.com/torinwade/salib/internal/core/domain"
)

// TagService holds the set of metadata tag names registered with the
// asset registry. It replaces a process-wide tag set with an explicit
// service that callers inject where needed.
type TagService struct {
	mu   sync.RWMutex
	tags map[string]struct{}
}

// NewTagService creates an empty tag registry.
func NewTagService() *TagService {
	return &TagService{tags: make(map[string]struct{})}
}

// Register adds the given tag names to the registry. Empty names are
// skipped and names already present are left untouched. Returns the
// number of names newly registered.
func (s *TagService) Register(names []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, name := range names {
		if err := domain.ValidateTagName(name); err != nil {
			continue
		}
		if _, ok := s.tags[name]; ok {
			continue
		}
		s.tags[name] = struct{}{}
		added++
	}
	return added
}

// IsRegistered reports whether the tag name is in the registry.
func (s *TagService) IsRegistered(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tags[name]
	return ok
}

// Registered returns every registered tag name in sorted order.
func (s *TagService) Registered() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tags))
	for name := range s.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
