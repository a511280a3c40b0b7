package testutil

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/andparsons/composer-project-files-installer/pkg/filesystem"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// WriteTree creates every file of files below root. Keys are slash
// separated relative paths; a key ending in "/" creates an empty directory.
func WriteTree(t *testing.T, fs types.FS, root string, files map[string]string) {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, fs.MkdirAll(p, 0755))
			continue
		}
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, fs.WriteFile(p, []byte(files[name]), 0644))
	}
}

// NewTestFSWithTree is NewTestFS followed by WriteTree
func NewTestFSWithTree(t *testing.T, root string, files map[string]string) types.FS {
	t.Helper()
	fs := NewTestFS()
	require.NoError(t, fs.MkdirAll(root, 0755))
	WriteTree(t, fs, root, files)
	return fs
}
