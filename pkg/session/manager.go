package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/robobunny"
	"github.com/aretw0/robobunny/internal/logging"
	"github.com/aretw0/robobunny/pkg/adapters/memory"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
	"github.com/google/uuid"
)

// Factory builds the editor of a new session.
type Factory func(id string) *robobunny.Editor

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns the live sessions. Mutations of one session are serialised
// with a reference-counted lock so unused locks are garbage collected.
type Manager struct {
	factory Factory
	store   ports.ProgramStore
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	locks    map[string]*lockEntry

	runs sync.WaitGroup
}

// Option configures the Manager.
type Option func(*Manager)

// WithFactory sets how editors are built (default: robobunny.New()).
func WithFactory(f Factory) Option {
	return func(m *Manager) {
		m.factory = f
	}
}

// WithStore sets the program store (default: in memory).
func WithStore(store ports.ProgramStore) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		locks:    make(map[string]*lockEntry),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.factory == nil {
		m.factory = func(string) *robobunny.Editor { return robobunny.New() }
	}
	if m.store == nil {
		m.store = memory.NewStore()
	}
	return m
}

// Create starts a session on the given level.
func (m *Manager) Create(def domain.MapDefinition) (*Session, error) {
	id := uuid.NewString()
	editor := m.factory(id)
	if err := editor.LoadMap(def); err != nil {
		return nil, fmt.Errorf("failed to load map: %w", err)
	}

	s := &Session{ID: id, CreatedAt: time.Now(), Editor: editor}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", id, "map", def.Name)
	return s, nil
}

// Get returns a live session or domain.ErrSessionNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Delete resets the session's editor, stopping any run, and forgets it.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Editor.Reset()
	m.logger.Info("session deleted", "session_id", id)
	return nil
}

// List returns the live session IDs in sorted order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store returns the program store.
func (m *Manager) Store() ports.ProgramStore {
	return m.store
}

// LoadProgram copies a saved program into the session.
func (m *Manager) LoadProgram(ctx context.Context, id, name string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		s, err := m.Get(id)
		if err != nil {
			return err
		}
		ws, err := m.store.Load(ctx, name)
		if err != nil {
			return err
		}
		s.SetProgram(ws)
		return nil
	})
}

// SaveProgram stores the session's current program under name.
func (m *Manager) SaveProgram(ctx context.Context, id, name string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		s, err := m.Get(id)
		if err != nil {
			return err
		}
		ws, _ := s.Program()
		if ws == nil {
			return domain.ErrEmptyProgram
		}
		return m.store.Save(ctx, name, ws)
	})
}

// RunAsync starts the session's program on its own goroutine and returns
// immediately. Guard failures (empty program, no map) are reported
// synchronously. done, if not nil, receives the run result.
func (m *Manager) RunAsync(id string, done func(ok bool, err error)) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	_, root := s.Program()
	if len(s.Editor.Flatten(root)) == 0 {
		return domain.ErrEmptyProgram
	}
	if !s.Editor.MapLoaded() {
		return domain.ErrMapNotLoaded
	}

	m.runs.Add(1)
	go func() {
		defer m.runs.Done()
		ok, err := s.Editor.RunProgram(context.Background(), root)
		if err != nil {
			m.logger.Warn("background run failed", "session_id", id, "err", err)
		}
		if done != nil {
			done(ok, err)
		}
	}()
	return nil
}

// Close resets every session and waits for background runs to return.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Editor.Reset()
	}
	m.runs.Wait()
}

// acquire gets or creates a lock entry and increments its reference count.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()
	return fn(ctx)
}

// activeLocks reports how many lock entries are alive.
func (m *Manager) activeLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
