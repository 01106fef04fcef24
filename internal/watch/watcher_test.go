package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: a\n"), 0o600))

	var calls atomic.Int32
	w, err := NewConfigWatcher(path, 100*time.Millisecond, func(context.Context) { calls.Add(1) }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() { _ = w.Close() }()

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte("title: "+string(rune('a'+i))+"\n"), 0o600))
	}
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	// Five rapid writes settle into far fewer reloads.
	time.Sleep(300 * time.Millisecond)
	assert.Less(t, calls.Load(), int32(5))
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: a\n"), 0o600))

	var calls atomic.Int32
	w, err := NewConfigWatcher(path, 10*time.Millisecond, func(context.Context) { calls.Add(1) }, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, calls.Load())

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
