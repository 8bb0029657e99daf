package session

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/robobunny"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
	"github.com/aretw0/robobunny/pkg/schema"
)

// Session is one editor plus the program currently loaded into it.
type Session struct {
	ID        string
	CreatedAt time.Time
	Editor    *robobunny.Editor

	mu        sync.RWMutex
	workspace *domain.Workspace
	root      ports.BlockNode
}

// SetProgram replaces the session's program. A run in progress keeps the
// program it started with.
func (s *Session) SetProgram(ws *domain.Workspace) {
	root := schema.Graph(ws)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspace = ws
	s.root = root
}

// Program returns the current workspace and its block graph. Both are nil
// before SetProgram.
func (s *Session) Program() (*domain.Workspace, ports.BlockNode) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspace, s.root
}

// Run runs the current program to completion.
func (s *Session) Run(ctx context.Context) (bool, error) {
	_, root := s.Program()
	return s.Editor.RunProgram(ctx, root)
}

// Step executes the command under the editor's step cursor.
func (s *Session) Step(ctx context.Context) (robobunny.StepResult, error) {
	_, root := s.Program()
	return s.Editor.StepProgram(ctx, root)
}

// View is the serialisable state of a session.
type View struct {
	ID         string                `json:"id"`
	CreatedAt  time.Time             `json:"created_at"`
	Program    domain.Program        `json:"program"`
	Blocks     int                   `json:"blocks"`
	BlockLimit int                   `json:"block_limit"`
	Cursor     int                   `json:"cursor"`
	Execution  domain.ExecutionState `json:"execution"`
	Status     domain.Status         `json:"status"`
	Snapshot   domain.Snapshot       `json:"snapshot"`
}

// View captures the session for display.
func (s *Session) View() View {
	_, root := s.Program()
	return View{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		Program:    s.Editor.Flatten(root),
		Blocks:     s.Editor.BlockCount(root),
		BlockLimit: s.Editor.BlockLimit(),
		Cursor:     s.Editor.Cursor(),
		Execution:  s.Editor.State(),
		Status:     s.Editor.Status(),
		Snapshot:   s.Editor.Snapshot(),
	}
}
