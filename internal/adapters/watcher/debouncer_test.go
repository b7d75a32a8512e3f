package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/patchwork/internal/adapters/watcher"
)

func TestNewDebouncer(t *testing.T) {
	tests := []struct {
		name     string
		window   time.Duration
		callback func([]string)
	}{
		{
			name:     "with callback",
			window:   100 * time.Millisecond,
			callback: func([]string) {},
		},
		{
			name:     "with nil callback",
			window:   50 * time.Millisecond,
			callback: nil,
		},
		{
			name:     "with zero window",
			window:   0,
			callback: func([]string) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := watcher.NewDebouncer(tt.window, tt.callback)
			require.NotNil(t, d)
		})
	}
}

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/patches/demo/patch.yaml")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)
		assert.Equal(t, "/patches/demo/patch.yaml", receivedPaths[0])
	})
}

func TestDebouncer_Add_DuplicatePathsCoalesced(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		// An editor save produces a burst of events for the same file.
		d.Add("/patches/demo/patch.yaml")
		d.Add("/patches/demo/patch.yaml")
		d.Add("/patches/demo/patch.yaml")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		// Deduplicated via the interned handles.
		require.Len(t, receivedPaths, 1)
		assert.Equal(t, "/patches/demo/patch.yaml", receivedPaths[0])
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var mu sync.Mutex

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		d.Add("/patches/a/patch.yaml")
		time.Sleep(50 * time.Millisecond)

		// Second add resets the window.
		d.Add("/patches/b/patch.yaml")
		time.Sleep(50 * time.Millisecond)

		// 100ms after the first add: a non-reset timer would have fired.
		synctest.Wait()
		mu.Lock()
		count := callCount
		mu.Unlock()
		assert.Equal(t, 0, count)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		count = callCount
		mu.Unlock()
		require.Equal(t, 1, count)
	})
}

func TestDebouncer_Flush_Immediate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/patches/a/patch.yaml")
		d.Add("/patches/b/patch.yaml")

		d.Flush()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 2)
		assert.Contains(t, receivedPaths, "/patches/a/patch.yaml")
		assert.Contains(t, receivedPaths, "/patches/b/patch.yaml")
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var callCount int

	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
		callCount++
	})

	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_Flush_AfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/patches/demo/patch.yaml")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)

		// Timer already fired, flushing again must not double-process.
		d.Flush()

		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/patches/a/patch.yaml")
		d.Add("/patches/b/patch.yaml")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
	})
}

func TestDebouncer_Add_AfterFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/patches/a/patch.yaml")
		d.Flush()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)

		d.Add("/patches/b/patch.yaml")
		d.Add("/patches/c/patch.yaml")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 2, callCount)
		require.Len(t, receivedPaths, 2)
		assert.Contains(t, receivedPaths, "/patches/b/patch.yaml")
		assert.Contains(t, receivedPaths, "/patches/c/patch.yaml")
	})
}
