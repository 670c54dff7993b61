package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestWatcher_IsRelevantEvent(t *testing.T) {
	dir := t.TempDir()
	styles := filepath.Join(dir, "sdxl_styles.json")

	w, err := New(DefaultConfig(styles))
	require.NoError(t, err)
	t.Cleanup(func() { w.fsWatcher.Close() })

	require.True(t, w.isRelevantEvent(fsnotify.Event{Name: styles, Op: fsnotify.Write}))
	require.True(t, w.isRelevantEvent(fsnotify.Event{Name: styles, Op: fsnotify.Create}))
	require.False(t, w.isRelevantEvent(fsnotify.Event{Name: styles, Op: fsnotify.Chmod}))
	require.False(t, w.isRelevantEvent(fsnotify.Event{Name: filepath.Join(dir, "other.json"), Op: fsnotify.Write}))
}

func TestWatcher_SignalsOnDocumentWrite(t *testing.T) {
	dir := t.TempDir()
	styles := filepath.Join(dir, "sdxl_styles.json")
	require.NoError(t, os.WriteFile(styles, []byte(`[]`), 0o644))

	cfg := DefaultConfig(styles)
	cfg.DebounceDur = 20 * time.Millisecond
	w, err := New(cfg)
	require.NoError(t, err)

	changes, err := w.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(styles, []byte(`[{"name":"a"}]`), 0o644))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}
