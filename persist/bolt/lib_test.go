package bolt

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/agripreserve/harvestkit/localstore"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func open(t *testing.T) *Persist {
	t.Helper()
	p, err := Open(filepath.Join(t.TempDir(), "sub", "prefs.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestBolt(t *testing.T) {
	t.Parallel()
	p := open(t)

	_, err := p.Load(ctx, "a")
	require.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, p.Store(ctx, "b", []byte("2")))
	require.NoError(t, p.Store(ctx, "a", []byte("1")))
	require.NoError(t, p.Store(ctx, "a", []byte("11")))
	v, err := p.Load(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("11"), v)

	keys, err := p.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, p.Delete(ctx, "a"))
	require.NoError(t, p.Delete(ctx, "a"))
	_, err = p.Load(ctx, "a")
	require.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, p.Clear(ctx))
	keys, err = p.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
	require.NoError(t, p.Store(ctx, "c", []byte("3")))
}

func TestEmptyAndOddKeys(t *testing.T) {
	t.Parallel()
	p := open(t)
	for _, k := range []string{"", "k", "\x00"} {
		require.NoError(t, p.Store(ctx, k, []byte("v"+k)))
	}
	v, err := p.Load(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)

	keys, err := p.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"", "\x00", "k"}, keys)

	require.NoError(t, p.Delete(ctx, ""))
	_, err = p.Load(ctx, "")
	require.ErrorIs(t, err, fs.ErrNotExist)

	s := localstore.New(&localstore.Config{StoreWith: p})
	localstore.Set(ctx, s, "", true)
	require.True(t, localstore.Get(ctx, s, "", false))
}

func TestReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "prefs.db")
	p, err := Open(path, []byte("custom"))
	require.NoError(t, err)
	s := localstore.New(&localstore.Config{StoreWith: p, Prefix: "app:"})
	localstore.Set(ctx, s, "zoom", 3)
	require.NoError(t, p.Close())

	p, err = Open(path, []byte("custom"))
	require.NoError(t, err)
	defer p.Close()
	s = localstore.New(&localstore.Config{StoreWith: p, Prefix: "app:"})
	require.Equal(t, 3, localstore.Get(ctx, s, "zoom", 0))
	s.Clear(ctx)
	require.Empty(t, s.Keys(ctx))
}
