package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/schema"
)

const ext = ".yaml"

// Store implements ports.ProgramStore using the local filesystem.
// Each workspace is one YAML document named after the program.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".robobunny/programs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".robobunny", "programs")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("program name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid program name %q", name)
	}
	return filepath.Join(s.BasePath, name+ext), nil
}

// Save writes the workspace atomically: temp file in the same directory,
// fsync, then rename over the destination.
func (s *Store) Save(ctx context.Context, name string, ws *domain.Workspace) error {
	destPath, err := s.path(name)
	if err != nil {
		return err
	}

	data, err := schema.MarshalWorkspace(ws)
	if err != nil {
		return fmt.Errorf("failed to marshal program: %w", err)
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure program directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows refuses to rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename does not replace an existing file on Windows.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing program for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads and parses a saved workspace.
func (s *Store) Load(ctx context.Context, name string) (*domain.Workspace, error) {
	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}

	ws, err := schema.ParseWorkspace(data)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	return ws, nil
}

// Delete removes the program file.
func (s *Store) Delete(ctx context.Context, name string) error {
	filePath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete program file: %w", err)
	}
	return nil
}

// List returns the stored program names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		n := entry.Name()
		if entry.IsDir() || filepath.Ext(n) != ext || strings.HasPrefix(n, "tmp-") {
			continue
		}
		names = append(names, strings.TrimSuffix(n, ext))
	}
	sort.Strings(names)
	return names, nil
}
