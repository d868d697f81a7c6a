package ttstore

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hailam/gametree/internal/cache"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir, err := os.MkdirTemp("", "gametree-ttstore-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSnapshotAndRestoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	c := cache.New(32, 5)
	c.Set(1, 1.5, 2)
	c.Set(2, -3.25, 0)
	c.Set(3, 7, 4)

	require.NoError(t, store.SnapshotCache(c))

	restored := cache.New(32, 5)
	require.NoError(t, store.RestoreCache(restored))

	if diff := cmp.Diff(c.Snapshot(), restored.Snapshot()); diff != "" {
		t.Fatalf("restored cache differs from source (-want +got):\n%s", diff)
	}
}

func TestSnapshotOverwritesPreviousSnapshot(t *testing.T) {
	store := openTestStore(t)

	first := cache.New(16, 5)
	first.Set(1, 1, 0)
	first.Set(2, 2, 0)
	require.NoError(t, store.SnapshotCache(first))

	second := cache.New(16, 5)
	second.Set(1, 99, 1)
	require.NoError(t, store.SnapshotCache(second))

	restored := cache.New(16, 5)
	require.NoError(t, store.RestoreCache(restored))

	require.Len(t, restored.Snapshot(), 1)
	value, quality, ok := restored.Check(1, -1)
	require.True(t, ok)
	require.Equal(t, float32(99), value)
	require.Equal(t, int16(1), quality)
}

func TestRestoreIntoEmptyStoreLeavesCacheEmpty(t *testing.T) {
	store := openTestStore(t)

	c := cache.New(16, 5)
	c.Set(1, 1, 0)

	require.NoError(t, store.RestoreCache(c))
	require.Empty(t, c.Snapshot())
}

func TestDataDirAndCacheDirAreCreated(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")

	dir, err := CacheDir()
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
