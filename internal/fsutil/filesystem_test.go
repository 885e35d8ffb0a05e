package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystemRoundTrip(t *testing.T) {
	t.Parallel()

	fs := NewMemoryFileSystem()

	require.NoError(t, fs.WriteFile("out/timeline.csv", []byte("a,b\n"), 0644))
	data, err := fs.ReadFile("out/timeline.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	assert.True(t, fs.Exists("out/timeline.csv"))
	assert.False(t, fs.Exists("out/map.html"))

	require.NoError(t, fs.Remove("out/timeline.csv"))
	assert.False(t, fs.Exists("out/timeline.csv"))
	assert.Error(t, fs.Remove("out/timeline.csv"))
}

func TestMemoryFileSystemCreateVisibleOnClose(t *testing.T) {
	t.Parallel()

	fs := NewMemoryFileSystem()
	w, err := fs.Create("map.html")
	require.NoError(t, err)

	_, err = w.Write([]byte("<html>"))
	require.NoError(t, err)
	assert.False(t, fs.Exists("map.html"))

	require.NoError(t, w.Close())
	assert.True(t, fs.Exists("map.html"))

	r, err := fs.Open("map.html")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "<html>", string(data))
}

func TestMemoryFileSystemMkdirAll(t *testing.T) {
	t.Parallel()

	fs := NewMemoryFileSystem()
	require.NoError(t, fs.MkdirAll("reports/run1", 0755))
	assert.True(t, fs.Exists("reports/run1"))
}

func TestMemoryFileSystemNames(t *testing.T) {
	t.Parallel()

	fs := NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("b.csv", nil, 0644))
	require.NoError(t, fs.WriteFile("a.csv", nil, 0644))
	assert.Equal(t, []string{"a.csv", "b.csv"}, fs.Names())
}

func TestOSFileSystem(t *testing.T) {
	t.Parallel()

	fs := OSFileSystem{}
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "hashes.csv")

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, fs.WriteFile(path, []byte("filename,sha256_hash\n"), 0644))
	assert.True(t, fs.Exists(path))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "filename,sha256_hash\n", string(data))

	require.NoError(t, fs.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
