package runtime

import (
	"context"
	"time"

	"github.com/aretw0/robobunny/pkg/domain"
)

// Hooks run on the calling goroutine and never under the controller lock,
// so they may call back into State or Snapshot.

func (c *Controller) emitRunStart(ctx context.Context, token domain.RunToken, length int) {
	if c.hooks.OnRunStart == nil {
		return
	}
	c.hooks.OnRunStart(ctx, &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunStart, Token: token},
		Length:    length,
	})
}

func (c *Controller) emitRunFinish(ctx context.Context, token domain.RunToken, length int, outcome domain.RunOutcome) {
	if c.hooks.OnRunFinish == nil {
		return
	}
	c.hooks.OnRunFinish(ctx, &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunFinish, Token: token},
		Length:    length,
		Outcome:   outcome,
	})
}

func (c *Controller) emitCommand(ctx context.Context, token domain.RunToken, index int, cmd domain.Command, snap domain.Snapshot) {
	if c.hooks.OnCommand == nil {
		return
	}
	c.hooks.OnCommand(ctx, &domain.CommandEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCommand, Token: token},
		Index:     index,
		Command:   cmd,
		Snapshot:  snap,
	})
}

func (c *Controller) emitReset(ctx context.Context) {
	if c.hooks.OnReset == nil {
		return
	}
	c.hooks.OnReset(ctx, &domain.ResetEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventReset},
	})
}
