package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/robobunny/internal/logging"
	"github.com/aretw0/robobunny/pkg/domain"
)

// StreamManager fans session events out to SSE subscribers.
type StreamManager struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // session ID -> set of channels
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		logger:      logger,
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a channel for the session. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 32)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of the session. Slow clients
// lose messages instead of blocking the run.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast the session's events as JSON.
func (sm *StreamManager) Hooks(sessionID string) domain.LifecycleHooks {
	send := func(v any) {
		data, err := json.Marshal(v)
		if err != nil {
			sm.logger.Error("SSE: failed to encode event", "session_id", sessionID, "err", err)
			return
		}
		sm.Broadcast(sessionID, string(data))
	}
	return domain.LifecycleHooks{
		OnRunStart:  func(_ context.Context, e *domain.RunEvent) { send(e) },
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) { send(e) },
		OnCommand:   func(_ context.Context, e *domain.CommandEvent) { send(e) },
		OnReset:     func(_ context.Context, e *domain.ResetEvent) { send(e) },
		OnStatus:    func(_ context.Context, e *domain.StatusEvent) { send(e) },
	}
}

// heartbeat is how often idle SSE connections get a comment line.
const heartbeat = 15 * time.Second
