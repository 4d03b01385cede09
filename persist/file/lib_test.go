package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/agripreserve/harvestkit/localstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestFiles(t *testing.T) {
	t.Parallel()
	p, err := NewPersistForPath(t.TempDir())
	require.NoError(t, err)

	_, err = p.Load(ctx, "foo")
	require.ErrorIs(t, err, fs.ErrNotExist)

	err = p.Store(ctx, "foo", []byte("hello"))
	require.NoError(t, err)
	loaded, err := p.Load(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), loaded)

	err = p.Store(ctx, "foo", []byte("goodbye"))
	require.NoError(t, err)
	loaded, err = p.Load(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, []byte("goodbye"), loaded)

	require.NoError(t, p.Delete(ctx, "foo"))
	require.NoError(t, p.Delete(ctx, "foo"))
	_, err = p.Load(ctx, "foo")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestKeysWithAwkwardNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p, err := NewPersistForPath(filepath.Join(dir, "nested", "prefs"))
	require.NoError(t, err)
	names := []string{"darkMode", "../escape", "prefs:crop/filter", ""}
	for _, n := range names {
		require.NoError(t, p.Store(ctx, n, []byte(n)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(p.basepath, ".tmp-leftover"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(p.basepath, "README"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(p.basepath, "e-not base64!"), nil, 0o644))

	keys, err := p.Keys(ctx)
	require.NoError(t, err)
	sort.Strings(keys)
	want := append([]string(nil), names...)
	sort.Strings(want)
	require.Equal(t, want, keys)

	_, err = os.Stat(filepath.Join(dir, "escape"))
	require.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, p.Clear(ctx))
	keys, err = p.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestNameLengthLimit(t *testing.T) {
	t.Parallel()
	p, err := NewPersistForPath(t.TempDir())
	require.NoError(t, err)

	longest := strings.Repeat("x", MaxNameLen)
	require.NoError(t, p.Store(ctx, longest, []byte("1")))
	v, err := p.Load(ctx, longest)
	require.NoError(t, err)
	require.Equal(t, []byte("1"), v)

	tooLong := longest + "x"
	require.ErrorIs(t, p.Store(ctx, tooLong, []byte("1")), ErrNameTooLong)
	_, err = p.Load(ctx, tooLong)
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.NoError(t, p.Delete(ctx, tooLong))

	keys, err := p.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{longest}, keys)
}

func TestSurvivesReopen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p, err := NewPersistForPath(dir)
	require.NoError(t, err)
	s := localstore.New(&localstore.Config{StoreWith: p})
	localstore.Set(ctx, s, "darkMode", true)

	p2, err := NewPersistForPath(dir)
	require.NoError(t, err)
	s2 := localstore.New(&localstore.Config{StoreWith: p2})
	require.True(t, localstore.Get(ctx, s2, "darkMode", false))
}
