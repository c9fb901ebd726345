package colguide

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileSystemWriteFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "nested", "colguide.json")

	fs := LocalFileSystem()
	require.NoError(t, fs.MkdirAll(filepath.Dir(name)))
	require.NoError(t, fs.WriteFile(name, []byte("first")))
	require.NoError(t, fs.WriteFile(name, []byte("second")))

	data, err := fs.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// No temporary files are left behind.
	entries, err := os.ReadDir(filepath.Dir(name))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalFileSystemWriteFileMissingDir(t *testing.T) {
	fs := LocalFileSystem()
	err := fs.WriteFile(filepath.Join(t.TempDir(), "missing", "x.json"), []byte("x"))
	assert.Error(t, err)
}

func TestSettingsStoreOnLocalFileSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "colguide.json")
	m := NewOptionsModel(nil, nil)
	store := NewSettingsStore(nil, path, m, nil)

	m.Association(0).Guide(0).SetColor(Black)
	require.NoError(t, store.Save())

	other := NewOptionsModel(nil, nil)
	loaded, err := NewSettingsStore(LocalFileSystem(), path, other, nil).Load()
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, Black, other.Association(0).Guide(0).Color())
}
