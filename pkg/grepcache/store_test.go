package grepcache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/peek/pkg/grepcache"
)

func openStore(t *testing.T) *grepcache.Store {
	t.Helper()

	store, err := grepcache.OpenStore(filepath.Join(t.TempDir(), "digests.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openStore(t)

	_, ok, err := store.Get(ctx, "/repo", "rg x")
	require.NoError(t, err)
	assert.False(t, ok)

	first := grepcache.Digest{
		Cwd:         "/repo",
		Command:     "rg x",
		Total:       10,
		CachedPath:  "/cache/a.txt",
		RefreshedAt: time.Unix(100, 5),
	}
	require.NoError(t, store.Put(ctx, first))

	got, ok, err := store.Get(ctx, "/repo", "rg x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.Total, got.Total)
	assert.Equal(t, first.CachedPath, got.CachedPath)
	assert.True(t, first.RefreshedAt.Equal(got.RefreshedAt))

	second := first
	second.Total = 42
	second.RefreshedAt = time.Unix(200, 0)
	require.NoError(t, store.Put(ctx, second))

	got, ok, err = store.Get(ctx, "/repo", "rg x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, got.Total)
}

func TestOpenStore_Memory(t *testing.T) {
	t.Parallel()

	store, err := grepcache.OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(context.Background(), grepcache.Digest{Cwd: "/m", Command: "rg", CachedPath: "m"}))

	_, ok, err := store.Get(context.Background(), "/m", "rg")
	require.NoError(t, err)
	assert.True(t, ok)
}
