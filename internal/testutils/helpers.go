package testutils

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to dir/name and returns the absolute path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path, err := filepath.Abs(filepath.Join(dir, name))
	require.NoError(t, err, "Failed to get absolute path")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write %s", name)
	return path
}

// SyncBuffer is a bytes.Buffer safe for concurrent writers, for capturing
// output produced by background runs.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
