package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, paths ...string) *Watcher {
	t.Helper()

	w, err := New(nil, Options{SettleDelay: 50 * time.Millisecond})
	require.NoError(t, err)
	for _, p := range paths {
		require.NoError(t, w.Watch(p))
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return w
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case event := <-w.Events():
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "modified", EventModified.String())
	assert.Equal(t, "removed", EventRemoved.String())
	assert.Equal(t, "unknown", EventType(42).String())
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}
	opts.setDefaults()
	assert.Equal(t, DefaultSettleDelay, opts.SettleDelay)
}

func TestWatch_MissingDirectory(t *testing.T) {
	w, err := New(nil, Options{})
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch(filepath.Join(t.TempDir(), "nope", "libros.csv"))
	assert.Error(t, err)
}

func TestWatcher_EmitsSettledWrite(t *testing.T) {
	dir := t.TempDir()
	books := filepath.Join(dir, "libros.csv")
	require.NoError(t, os.WriteFile(books, []byte("header\n"), 0o644))

	w := startWatcher(t, books)

	require.NoError(t, os.WriteFile(books, []byte("header\nRayuela,Julio Cortázar,4.5,Novela,,0,0\n"), 0o644))

	event := waitEvent(t, w)
	assert.Equal(t, EventModified, event.Type)
	assert.Equal(t, books, event.Path)
	assert.NotZero(t, event.Size)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	books := filepath.Join(dir, "libros.csv")
	require.NoError(t, os.WriteFile(books, []byte("header\n"), 0o644))

	w := startWatcher(t, books)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "otro.csv"), []byte("x"), 0o644))

	select {
	case event := <-w.Events():
		t.Fatalf("unexpected event %+v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	categories := filepath.Join(dir, "categorias.csv")
	require.NoError(t, os.WriteFile(categories, []byte("header\n"), 0o644))

	w := startWatcher(t, categories)

	for i := range 5 {
		content := []byte("header\n" + string(rune('a'+i)) + ",true\n")
		require.NoError(t, os.WriteFile(categories, content, 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	event := waitEvent(t, w)
	assert.Equal(t, EventModified, event.Type)

	select {
	case extra := <-w.Events():
		t.Fatalf("expected a single event, got another %+v", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_Removed(t *testing.T) {
	dir := t.TempDir()
	books := filepath.Join(dir, "libros.csv")
	require.NoError(t, os.WriteFile(books, []byte("header\n"), 0o644))

	w := startWatcher(t, books)

	require.NoError(t, os.Remove(books))

	event := waitEvent(t, w)
	assert.Equal(t, EventRemoved, event.Type)
	assert.Equal(t, books, event.Path)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(nil, Options{})
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())

	_, open := <-w.Events()
	assert.False(t, open)
}

func TestWatcher_StopWithPendingWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "libros.csv")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, err := New(nil, Options{SettleDelay: 30 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Watch(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte("ab"), 0o644))
	require.NoError(t, w.Stop())

	// Let any timer armed before Stop fire against the closed channels.
	time.Sleep(100 * time.Millisecond)

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestWatcher_SettleAfterStopIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libros.csv")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, err := New(nil, Options{})
	require.NoError(t, err)
	require.NoError(t, w.Stop())

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	w.mu.Lock()
	w.pending[abs] = &pendingEvent{timer: time.NewTimer(time.Hour)}
	w.mu.Unlock()

	assert.NotPanics(t, func() { w.checkSettled(abs) })
}
