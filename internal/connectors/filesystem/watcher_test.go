package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher_DefaultDebounce(t *testing.T) {
	w := NewWatcher("content", 0, nil)
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "notes.md", "x")
	sub := filepath.Join(dir, "sub.md")
	require.NoError(t, os.Mkdir(sub, 0o755))

	w := NewWatcher(dir, time.Millisecond, nil)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"create", fsnotify.Event{Name: file, Op: fsnotify.Create}, true},
		{"write", fsnotify.Event{Name: file, Op: fsnotify.Write}, true},
		{"remove", fsnotify.Event{Name: filepath.Join(dir, "gone.txt"), Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: file, Op: fsnotify.Rename}, true},
		{"write and chmod", fsnotify.Event{Name: file, Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, false},
		{"unsupported extension", fsnotify.Event{Name: filepath.Join(dir, "a.png"), Op: fsnotify.Create}, false},
		{"hidden file", fsnotify.Event{Name: filepath.Join(dir, ".swap.md"), Op: fsnotify.Write}, false},
		{"directory create", fsnotify.Event{Name: sub, Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.handleFsEvent(tt.event))
		})
	}
}

func TestWatcher_Run_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w := NewWatcher(dir, 100*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		writeFile(t, dir, "burst.md", "version")
	}

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
