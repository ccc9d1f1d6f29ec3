package check

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MeKo-Tech/kielabel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchRerunsOnWrite(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteLabelFile(t, dir, "Label.txt", "a.jpg\t[]")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 10*time.Millisecond, func() error {
			runs.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(dir+"/Cache.cach", []byte("x"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	require.NoError(t, os.WriteFile(path, []byte("b.jpg\t[]\n"), 0o600))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), "/nonexistent/dir/Label.txt", time.Millisecond, func() error { return nil })
	assert.Error(t, err)
}
