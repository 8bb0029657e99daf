package middleware

import (
	"context"
	"fmt"

	"github.com/aretw0/robobunny/internal/validator"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
)

type lintMiddleware struct {
	ports.ProgramStore
	limit int
}

// NewLintMiddleware rejects saves of programs with error-level lint
// findings, such as unknown turn directions or exceeding limit blocks
// (limit <= 0 disables the count check). Reads pass through unchanged.
func NewLintMiddleware(limit int) Middleware {
	return func(next ports.ProgramStore) ports.ProgramStore {
		return &lintMiddleware{ProgramStore: next, limit: limit}
	}
}

func (m *lintMiddleware) Save(ctx context.Context, name string, ws *domain.Workspace) error {
	if err := validator.Validate(ws, m.limit); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidDocument, name, err)
	}
	return m.ProgramStore.Save(ctx, name, ws)
}
