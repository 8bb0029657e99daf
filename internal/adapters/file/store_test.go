package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/robobunny/internal/adapters/file"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ProgramStore = (*file.Store)(nil)

func TestStore_Contract(t *testing.T) {
	ports.RunProgramStoreContract(t, file.New(t.TempDir()))
}

func TestStore_WritesYAML(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ws := &domain.Workspace{
		Name:   "hop",
		Blocks: []domain.BlockSpec{{Type: domain.BlockForwardJump, Value: "2"}},
	}

	require.NoError(t, store.Save(context.Background(), "hop", ws))

	data, err := os.ReadFile(filepath.Join(dir, "hop.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: F_Jump")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestStore_Overwrite(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "p", &domain.Workspace{Name: "v1"}))
	require.NoError(t, store.Save(ctx, "p", &domain.Workspace{Name: "v2"}))

	ws, err := store.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "v2", ws.Name)
}

func TestStore_InvalidNames(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "../escape", `a\b`, ".."} {
		assert.Error(t, store.Save(ctx, name, &domain.Workspace{}), "name %q", name)
		_, err := store.Load(ctx, name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("blocks: ["), 0o644))

	_, err := file.New(dir).Load(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}
