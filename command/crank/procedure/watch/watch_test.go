package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRoots(t *testing.T) {
	assert.Equal(t,
		[]string{filepath.Join("crates", "librush", "src", "eval", "api")},
		Roots([]string{
			"crates/librush/src/eval/api/**/*.rs",
			"crates/librush/src/eval/api/base.rs",
		}),
	)
	assert.Equal(t, []string{"."}, Roots([]string{"*.rs"}))
}

func TestWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "api")
	require.NoError(t, os.MkdirAll(nested, 0755))

	var mutex sync.Mutex
	var batches [][]string
	handler := func(_ context.Context, paths []string) {
		mutex.Lock()
		defer mutex.Unlock()
		batches = append(batches, paths)
	}

	watcher, err := New(nil, ".rs", handler, dir)
	require.NoError(t, err)
	watcher.Debounce = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx)
	}()

	base := filepath.Join(nested, "base.rs")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(base, []byte("pub fn foo() {}\n"), 0644))
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	assert.Eventually(t, func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		return len(batches) == 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mutex.Lock()
	defer mutex.Unlock()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{base}, batches[0])
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(nil, ".rs", func(context.Context, []string) {}, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
