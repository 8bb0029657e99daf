package robobunny_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/robobunny"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLevel() domain.MapDefinition {
	return domain.MapDefinition{
		Name:     "open",
		GridSize: 21,
		Bunny:    domain.Placement{X: 10, Y: 10, Direction: domain.HeadingUp},
	}
}

func newEditor(t *testing.T, opts ...robobunny.Option) *robobunny.Editor {
	t.Helper()
	opts = append([]robobunny.Option{
		robobunny.WithStepDelay(0),
		robobunny.WithSettleDelay(0),
	}, opts...)
	e := robobunny.New(opts...)
	require.NoError(t, e.LoadMap(openLevel()))
	return e
}

func TestEditor_Guards(t *testing.T) {
	ctx := context.Background()
	e := robobunny.New(robobunny.WithSettleDelay(0))

	_, err := e.RunProgram(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyProgram)
	assert.Equal(t, domain.Status{Message: robobunny.MessageEmptyProgram, Kind: domain.StatusError}, e.Status())

	b := dsl.New()
	b.Jump(1)
	_, err = e.RunProgram(ctx, b.Build())
	assert.ErrorIs(t, err, domain.ErrMapNotLoaded)
	assert.Equal(t, robobunny.MessageNoMap, e.Status().Message)

	_, err = e.StepProgram(ctx, b.Build())
	assert.ErrorIs(t, err, domain.ErrMapNotLoaded)
	assert.False(t, e.MapLoaded())
}

func TestEditor_RunProgram(t *testing.T) {
	e := newEditor(t)

	b := dsl.New()
	b.Repeat(2).Do(func(body *dsl.Builder) {
		body.Jump(2)
		body.Turn(domain.DirectionRight)
	})

	ok, err := e.RunProgram(context.Background(), b.Build())
	require.NoError(t, err)
	assert.True(t, ok)

	snap := e.Snapshot()
	assert.Equal(t, 12, snap.Agents[0].X)
	assert.Equal(t, 8, snap.Agents[0].Y)
	assert.Equal(t, domain.HeadingDown, snap.Agents[0].Direction)
	assert.Equal(t, domain.Status{Message: "完成！得分：0", Kind: domain.StatusComplete}, e.Status())
}

func TestEditor_RunProgramStartsFromReset(t *testing.T) {
	e := newEditor(t)
	b := dsl.New()
	b.Jump(1)

	_, err := e.RunProgram(context.Background(), b.Build())
	require.NoError(t, err)
	_, err = e.RunProgram(context.Background(), b.Build())
	require.NoError(t, err)

	snap := e.Snapshot()
	assert.Equal(t, 9, snap.Agents[0].Y, "second run starts from the initial placement")
	assert.Equal(t, 1, snap.Agents[0].Moves)
}

func TestEditor_ResetInterruptsRun(t *testing.T) {
	e := newEditor(t, robobunny.WithStepDelay(60*time.Millisecond))

	b := dsl.New()
	b.Repeat(20).Do(func(body *dsl.Builder) { body.Jump(1) })

	done := make(chan bool, 1)
	go func() {
		ok, _ := e.RunProgram(context.Background(), b.Build())
		done <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	e.Reset()

	assert.False(t, <-done)
	snap := e.Snapshot()
	assert.Equal(t, 10, snap.Agents[0].Y)
	assert.Equal(t, 0, snap.Agents[0].Moves)
	assert.False(t, e.Running())
}

func TestEditor_SettleDelayHonoursContext(t *testing.T) {
	e := newEditor(t, robobunny.WithSettleDelay(time.Second))
	b := dsl.New()
	b.Jump(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ok, err := e.RunProgram(ctx, b.Build())
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, e.Snapshot().Agents[0].Moves)
}

func TestEditor_StepProgram(t *testing.T) {
	e := newEditor(t)
	ctx := context.Background()

	b := dsl.New()
	b.Jump(1)
	b.Turn(domain.DirectionLeft)
	b.Jump(3)
	root := b.Build()

	res, err := e.StepProgram(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Next)
	assert.False(t, res.Done)
	assert.Equal(t, 9, res.Snapshot.Agents[0].Y)

	res, err = e.StepProgram(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Next)
	assert.Equal(t, 2, e.Cursor())

	res, err = e.StepProgram(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, -1, res.Next)
	assert.True(t, res.Done)
	assert.Equal(t, 7, res.Snapshot.Agents[0].X)
	assert.Equal(t, domain.Status{Message: "完成！得分：0", Kind: domain.StatusComplete}, e.Status())

	e.Reset()
	assert.Equal(t, 0, e.Cursor())
	assert.Equal(t, 10, e.Snapshot().Agents[0].X)
}

func TestEditor_StepAfterGameOver(t *testing.T) {
	e := robobunny.New(robobunny.WithStepDelay(0))
	require.NoError(t, e.LoadMap(domain.MapDefinition{
		GridSize: 2,
		Bunny:    domain.Placement{X: 0, Y: 0, Direction: domain.HeadingUp},
	}))

	b := dsl.New()
	b.Jump(1)
	b.Jump(1)
	root := b.Build()

	res, err := e.StepProgram(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, res.Snapshot.GameOver)

	_, err = e.StepProgram(context.Background(), root)
	assert.ErrorIs(t, err, domain.ErrGameOver)
}

func TestEditor_GameOverStatus(t *testing.T) {
	e := robobunny.New(robobunny.WithStepDelay(0), robobunny.WithSettleDelay(0))
	require.NoError(t, e.LoadMap(domain.MapDefinition{
		GridSize: 3,
		Cells: [][]domain.Cell{
			{{Type: domain.CellRock}, {Type: domain.CellEmpty}, {Type: domain.CellEmpty}},
			{{Type: domain.CellCarrot, Value: 3}, {Type: domain.CellEmpty}, {Type: domain.CellEmpty}},
			{{Type: domain.CellEmpty}, {Type: domain.CellEmpty}, {Type: domain.CellEmpty}},
		},
		Bunny: domain.Placement{X: 0, Y: 2, Direction: domain.HeadingUp},
	}))

	b := dsl.New()
	b.Repeat(3).Do(func(body *dsl.Builder) { body.Jump(1) })

	ok, err := e.RunProgram(context.Background(), b.Build())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.Status{Message: "遊戲結束！得分：3", Kind: domain.StatusError}, e.Status())
	assert.Equal(t, 2, e.Snapshot().Agents[0].Moves)
}

func TestEditor_BlockLimit(t *testing.T) {
	e := robobunny.New()
	assert.Equal(t, robobunny.DefaultBlockLimit, e.BlockLimit())

	b := dsl.New()
	b.Repeat(2).Do(func(body *dsl.Builder) { body.Jump(1) })
	root := b.Build()

	assert.Equal(t, 3, e.BlockCount(root))
	assert.False(t, e.OverLimit(root))

	e.SetBlockLimit(3)
	assert.True(t, e.OverLimit(root))

	level := openLevel()
	level.BlockLimit = 15
	require.NoError(t, e.LoadMap(level))
	assert.Equal(t, 15, e.BlockLimit(), "a level's own limit replaces the current one")
}

func TestEditor_LoadMapRejectsInvalid(t *testing.T) {
	e := robobunny.New()
	err := e.LoadMap(domain.MapDefinition{GridSize: 3, Bunny: domain.Placement{X: 5, Y: 0, Direction: domain.HeadingUp}})
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	assert.False(t, e.MapLoaded())
}

func TestEditor_Hooks(t *testing.T) {
	var mu sync.Mutex
	var statuses []domain.StatusKind
	commands := 0
	hooks := domain.LifecycleHooks{
		OnStatus: func(_ context.Context, ev *domain.StatusEvent) {
			mu.Lock()
			defer mu.Unlock()
			statuses = append(statuses, ev.Status.Kind)
		},
		OnCommand: func(context.Context, *domain.CommandEvent) {
			mu.Lock()
			defer mu.Unlock()
			commands++
		},
	}
	e := newEditor(t, robobunny.WithLifecycleHooks(hooks))

	b := dsl.New()
	b.Jump(1)
	b.Jump(1)
	_, err := e.RunProgram(context.Background(), b.Build())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, commands)
	assert.Equal(t, []domain.StatusKind{domain.StatusRunning, domain.StatusComplete}, statuses)
}
