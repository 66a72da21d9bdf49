package storage

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("ledgers/a.csv", []byte("carnet\n"))
	require.NoError(t, err)
	assert.Equal(t, "ledgers/a.csv", name)

	f, err := store.Open(name)
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "carnet\n", string(body))

	require.NoError(t, store.Delete(name))
	require.NoError(t, store.Delete(name))
	_, err = store.Open(name)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStorageLeavesNoPartialFile(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root)
	require.NoError(t, err)

	_, err = store.Save("ledger.pdf", []byte("%PDF"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "ledger.pdf"+partialSuffix))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../outside.csv", "/etc/passwd", ".", "x.csv.partial"} {
		_, err = store.Save(name, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidPath, name)
	}
}

func TestLocalStorageCleanup(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	_, err = store.Save("old.csv", []byte("x"))
	require.NoError(t, err)

	removed, err := store.CleanupOlderThan(-1)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, removed)

	removed, err = store.CleanupOlderThan(-1)
	require.NoError(t, err)
	assert.Empty(t, removed)
}
