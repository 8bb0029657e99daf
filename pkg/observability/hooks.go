package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/robobunny/pkg/domain"
)

// Combine fans every event out to all hook sets, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnRunStart = chain(out.OnRunStart, h.OnRunStart)
		out.OnRunFinish = chain(out.OnRunFinish, h.OnRunFinish)
		out.OnCommand = chain(out.OnCommand, h.OnCommand)
		out.OnReset = chain(out.OnReset, h.OnReset)
		out.OnStatus = chain(out.OnStatus, h.OnStatus)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LogHooks logs every lifecycle event. Commands are logged at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start", "token", e.Token, "length", e.Length)
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_finish", "token", e.Token, "outcome", e.Outcome)
		},
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			logger.DebugContext(ctx, "command",
				"token", e.Token,
				"index", e.Index,
				"command", e.Command.String(),
				"score", e.Snapshot.Score,
				"game_over", e.Snapshot.GameOver,
			)
		},
		OnReset: func(ctx context.Context, e *domain.ResetEvent) {
			logger.InfoContext(ctx, "reset")
		},
		OnStatus: func(ctx context.Context, e *domain.StatusEvent) {
			logger.InfoContext(ctx, "status", "message", e.Status.Message, "kind", e.Status.Kind)
		},
	}
}
