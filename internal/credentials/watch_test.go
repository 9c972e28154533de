package credentials

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/joshsymonds/lexcura/pkg/logger"
)

func TestWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	var calls atomic.Int32
	w, err := NewWatcher(path, func() { calls.Add(1) }, logger.NewMockLogger())
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond
	w.Start(context.Background())

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o600))

	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte(`{"rotated":true}`), 0o600))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, w.Close())
	assert.LessOrEqual(t, calls.Load(), int32(3))
}

func TestWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "sa.json"), func() {}, logger.NewMockLogger())
	require.Error(t, err)
}
