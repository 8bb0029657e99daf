package ports

import (
	"context"

	"github.com/aretw0/robobunny/pkg/domain"
)

// ProgramStore persists named workspace documents so a program can be
// reopened in the editor. It never stores execution state.
type ProgramStore interface {
	// Save persists the workspace under the given name, replacing any previous one.
	Save(ctx context.Context, name string, ws *domain.Workspace) error

	// Load retrieves a workspace.
	// Returns domain.ErrProgramNotFound if the name does not exist.
	Load(ctx context.Context, name string) (*domain.Workspace, error)

	// Delete removes a workspace. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored names.
	List(ctx context.Context) ([]string, error)
}
