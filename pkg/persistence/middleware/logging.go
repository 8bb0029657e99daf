package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.ProgramStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level, and failures
// other than a missing program at error level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.ProgramStore) ports.ProgramStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(op, name string, start time.Time, err error) {
	attrs := []any{"op", op, "name", name, "duration", time.Since(start)}
	if err != nil && !errors.Is(err, domain.ErrProgramNotFound) {
		m.logger.Error("program store call failed", append(attrs, "err", err)...)
		return
	}
	m.logger.Debug("program store call", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, name string, ws *domain.Workspace) error {
	start := time.Now()
	err := m.next.Save(ctx, name, ws)
	m.log("save", name, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, name string) (*domain.Workspace, error) {
	start := time.Now()
	ws, err := m.next.Load(ctx, name)
	m.log("load", name, start, err)
	return ws, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := m.next.Delete(ctx, name)
	m.log("delete", name, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := m.next.List(ctx)
	m.log("list", "", start, err)
	return names, err
}
