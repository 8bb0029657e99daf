package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/schema"
)

// Registry manages the available levels by name.
type Registry struct {
	mu     sync.RWMutex
	levels map[string]domain.MapDefinition
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		levels: make(map[string]domain.MapDefinition),
	}
}

// Register adds a level to the registry.
// If a level with the same name exists, it is overwritten.
func (r *Registry) Register(name string, def domain.MapDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[name] = def
}

// Get looks up a level by name.
func (r *Registry) Get(name string) (domain.MapDefinition, error) {
	r.mu.RLock()
	def, ok := r.levels[name]
	r.mu.RUnlock()

	if !ok {
		return domain.MapDefinition{}, fmt.Errorf("%w: %s", domain.ErrMapNotFound, name)
	}
	return def, nil
}

// Names returns the registered level names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.levels))
	for name := range r.levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadDir registers every .yaml, .yml and .json level document in dir, named
// after the file without its extension. It stops at the first invalid file.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading levels: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml" && ext != ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return loaded, err
		}
		def, err := schema.ParseMap(data)
		if err != nil {
			return loaded, fmt.Errorf("%s: %w", path, err)
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if def.Name == "" {
			def.Name = name
		}
		r.Register(name, def)
		loaded++
	}
	return loaded, nil
}
