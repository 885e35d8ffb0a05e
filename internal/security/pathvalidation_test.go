package security

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePathWithinDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	assert.NoError(t, ValidatePathWithinDirectory(filepath.Join(dir, "gmm_storage.db"), dir))
	assert.NoError(t, ValidatePathWithinDirectory(filepath.Join(dir, "sub", "x.db"), dir))

	assert.Error(t, ValidatePathWithinDirectory(filepath.Join(dir, "..", "escape.db"), dir))
	assert.Error(t, ValidatePathWithinDirectory("/etc/passwd", dir))
	assert.Error(t, ValidatePathWithinDirectory(filepath.Join(dir, "a", "..", "..", "b"), dir))
}

func TestSafeBaseName(t *testing.T) {
	t.Parallel()

	got, err := SafeBaseName("/data/data/com.google.android.gms/databases/gmm_storage.db")
	require.NoError(t, err)
	assert.Equal(t, "gmm_storage.db", got)

	got, err = SafeBaseName("plain.db")
	require.NoError(t, err)
	assert.Equal(t, "plain.db", got)

	_, err = SafeBaseName("/")
	assert.Error(t, err)

	_, err = SafeBaseName("..")
	assert.Error(t, err)
}
