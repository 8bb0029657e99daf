package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractWorkspace(name string) *domain.Workspace {
	return &domain.Workspace{
		Name: name,
		Blocks: []domain.BlockSpec{
			{Type: domain.BlockForwardJump, Value: "1"},
			{Type: domain.BlockRepeat, Times: "3", Do: []domain.BlockSpec{
				{Type: domain.BlockTurn, Value: string(domain.DirectionRight)},
				{Type: domain.BlockForwardLeftJump, Value: "2", Disabled: true},
			}},
		},
	}
}

// RunProgramStoreContract runs a suite of tests to verify that a ProgramStore
// implementation adheres to the interface contract.
func RunProgramStoreContract(t *testing.T, store ProgramStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		ws := contractWorkspace(name)

		err := store.Save(ctx, name, ws)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, ws, loaded)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractWorkspace(name)))

		first, err := store.Load(ctx, name)
		require.NoError(t, err)
		first.Blocks[1].Do[0].Value = string(domain.DirectionBack)

		second, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, string(domain.DirectionRight), second.Blocks[1].Do[0].Value)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractWorkspace(name)))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound, "Load after Delete should return ErrProgramNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Delete of a missing name should succeed")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		_ = store.Save(ctx, id1, contractWorkspace(id1))
		_ = store.Save(ctx, id2, contractWorkspace(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}
