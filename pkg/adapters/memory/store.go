package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/robobunny/pkg/domain"
)

// Store implements ports.ProgramStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Workspace
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Workspace),
	}
}

// Save persists a deep copy of the workspace.
func (s *Store) Save(ctx context.Context, name string, ws *domain.Workspace) error {
	copied := copyWorkspace(ws)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = copied
	return nil
}

// Load returns a copy so callers can't mutate the stored workspace.
func (s *Store) Load(ctx context.Context, name string) (*domain.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.data[name]
	if !ok {
		return nil, domain.ErrProgramNotFound
	}
	return copyWorkspace(ws), nil
}

// Delete removes the workspace.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func copyWorkspace(ws *domain.Workspace) *domain.Workspace {
	out := &domain.Workspace{Name: ws.Name}
	out.Blocks = copySpecs(ws.Blocks)
	return out
}

func copySpecs(specs []domain.BlockSpec) []domain.BlockSpec {
	if specs == nil {
		return nil
	}
	out := make([]domain.BlockSpec, len(specs))
	for i, s := range specs {
		out[i] = s
		out[i].Do = copySpecs(s.Do)
	}
	return out
}
