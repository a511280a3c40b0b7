package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoFSBasics(t *testing.T) {
	fs := NewMemoryFS()

	require.NoError(t, fs.MkdirAll("/pkg/assets", 0755))
	require.NoError(t, fs.WriteFile("/pkg/assets/a.css", []byte("a"), 0644))

	content, err := fs.ReadFile("/pkg/assets/a.css")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), content)

	_, err = fs.ReadFile("/pkg/assets")
	assert.Error(t, err, "reading a directory must fail")

	entries, err := fs.ReadDir("/pkg/assets")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.css", entries[0].Name())

	info, err := fs.Lstat("/pkg/assets")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	resolved, err := fs.EvalSymlinks("/pkg/assets/../assets/a.css")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/pkg/assets/a.css"), resolved)

	_, err = fs.EvalSymlinks("/pkg/missing")
	assert.True(t, os.IsNotExist(err))
}

func TestAferoFSSimulatedSymlink(t *testing.T) {
	fs := NewMemoryFS()

	require.NoError(t, fs.Symlink("../vendor/pkg/file", "/project/file"))
	target, err := fs.Readlink("/project/file")
	require.NoError(t, err)
	assert.Equal(t, "../vendor/pkg/file", target)
}

func TestAferoFSGlob(t *testing.T) {
	mem := afero.NewMemMapFs()
	fs := NewAferoFS(mem)
	for _, f := range []string{"/pkg/assets/a.css", "/pkg/assets/b.css", "/pkg/assets/c.js", "/pkg/assets/sub/d.css"} {
		require.NoError(t, afero.WriteFile(mem, f, []byte(f), 0644))
	}

	matches, err := fs.Glob("/pkg/assets/*.css")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.FromSlash("/pkg/assets/a.css"),
		filepath.FromSlash("/pkg/assets/b.css"),
	}, matches)

	matches, err = fs.Glob("/pkg/**/*.css")
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	matches, err = fs.Glob("/pkg/assets/c.js")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.FromSlash("/pkg/assets/c.js")}, matches)

	matches, err = fs.Glob("/nowhere/*.css")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestAferoFSOverOsFs(t *testing.T) {
	root := t.TempDir()
	fs := NewAferoFS(afero.NewOsFs())

	require.NoError(t, fs.WriteFile(filepath.Join(root, "real.txt"), []byte("x"), 0644))
	require.NoError(t, fs.Symlink("real.txt", filepath.Join(root, "link.txt")))

	info, err := fs.Lstat(filepath.Join(root, "link.txt"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	target, err := fs.Readlink(filepath.Join(root, "link.txt"))
	require.NoError(t, err)
	assert.Equal(t, "real.txt", target)
}
