package colguide

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colguide.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	changes := make(chan string, 8)
	w := NewSettingsWatcher(path, 20*time.Millisecond, func(p string) { changes <- p }, nil)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.ErrorIs(t, w.Start(context.Background()), ErrWatcherRunning)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644))
	select {
	case p := <-changes:
		t.Fatalf("unexpected change for %s", p)
	case <-time.After(100 * time.Millisecond):
	}

	// A burst of writes is reported once.
	for i := range 3 {
		require.NoError(t, os.WriteFile(path, []byte{'{', '}', byte('0' + i)}, 0644))
	}
	select {
	case p := <-changes:
		assert.Equal(t, path, p)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case p := <-changes:
		t.Fatalf("burst reported twice: %s", p)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSettingsWatcherStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colguide.json")

	ctx, cancel := context.WithCancel(context.Background())
	w := NewSettingsWatcher(path, 10*time.Millisecond, func(string) {}, nil)
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.Running())

	cancel()
	w.Stop()
	assert.False(t, w.Running())
	w.Stop()

	require.NoError(t, w.Start(context.Background()))
	w.Stop()
}

func TestSettingsWatcherMissingDirectory(t *testing.T) {
	w := NewSettingsWatcher(filepath.Join(t.TempDir(), "nope", "colguide.json"), 0, nil, nil)
	assert.Error(t, w.Start(context.Background()))
	assert.False(t, w.Running())
}

func TestLibraryWatchReloadsOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colguide.json")

	applied := make(chan struct{}, 8)
	var pending []func()
	lib, err := Init(LibraryOptions{
		OptionsPath:   path,
		WatchDebounce: 20 * time.Millisecond,
		Dispatch: func(fn func()) {
			pending = append(pending, fn)
			applied <- struct{}{}
		},
	})
	require.NoError(t, err)
	defer lib.Close()
	a, v := attachView(t, lib, "main.go")
	require.Len(t, v.Lines(), 1)

	require.NoError(t, lib.Watch(context.Background()))
	assert.ErrorIs(t, lib.Watch(context.Background()), ErrWatcherRunning)

	opts := testOptions(testAssociation("*.go", testGuide(10), testGuide(20)))
	data, err := EncodeOptions(opts)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("reload was not dispatched")
	}

	// Run the dispatched reload on the test goroutine, as a UI loop would.
	require.NoError(t, lib.Close())
	for _, fn := range pending {
		fn()
	}
	assert.Equal(t, 2, lib.Model().Association(0).GuideCount())
	assert.True(t, a.Closed())
}
