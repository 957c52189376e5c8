package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"b.hcl", "a.hcl", "notes.txt", "nested/c.hcl", "nested/d.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	t.Run("single extension, lexical order", func(t *testing.T) {
		files, err := FindFilesByExtensions(dir, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.hcl"),
			filepath.Join(dir, "b.hcl"),
			filepath.Join(dir, "nested", "c.hcl"),
		}, files)
	})

	t.Run("multiple extensions", func(t *testing.T) {
		files, err := FindFilesByExtensions(dir, ".hcl", ".yaml")
		require.NoError(t, err)
		assert.Len(t, files, 4)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := FindFilesByExtensions(filepath.Join(dir, "absent"), ".hcl")
		assert.Error(t, err)
	})
}
