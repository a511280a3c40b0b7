package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/filesystem"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCopyFor(l layout, mappings ...types.Mapping) *Copy {
	c := NewCopy(filesystem.NewOS(), l.source, l.project)
	c.SetMappings(mappings)
	return c
}

func TestCopyFile(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "app/etc/config.php", "config")

	c := newCopyFor(l, types.Mapping{Source: "app/etc/config.php", Dest: "app/etc/config.php"})
	require.NoError(t, c.Deploy())

	dst := filepath.Join(l.project, "app", "etc", "config.php")
	assert.False(t, isSymlink(t, dst))
	assert.Equal(t, "config", readFile(t, dst))
}

func TestCopyKeepsFileMode(t *testing.T) {
	skipWithoutSymlinks(t)
	l := newLayout(t)
	writeFile(t, l.source, "bin/run.sh", "#!/bin/sh")
	require.NoError(t, os.Chmod(filepath.Join(l.source, "bin", "run.sh"), 0755))

	c := newCopyFor(l, types.Mapping{Source: "bin/run.sh", Dest: "bin/run.sh"})
	require.NoError(t, c.Deploy())

	info, err := os.Stat(filepath.Join(l.project, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestCopyDirectoryRecursively(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "app/js/app.js", "js")
	writeFile(t, l.source, "app/js/lib/util.js", "util")

	c := newCopyFor(l, types.Mapping{Source: "app/js", Dest: "pub/static/js"})
	require.NoError(t, c.Deploy())

	assert.Equal(t, map[string]string{
		"pub":                       "dir",
		"pub/static":                "dir",
		"pub/static/js":             "dir",
		"pub/static/js/app.js":      "file:js",
		"pub/static/js/lib":         "dir",
		"pub/static/js/lib/util.js": "file:util",
	}, snapshot(t, l.project))
}

func TestCopyMergesIntoExistingDirectory(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "app/js/app.js", "js")
	writeFile(t, l.source, "app/js/lib/util.js", "util")
	writeFile(t, l.project, "js/local.js", "local")
	writeFile(t, l.project, "js/lib/local.js", "local lib")

	c := newCopyFor(l, types.Mapping{Source: "app/js", Dest: "js"})
	require.NoError(t, c.Deploy())

	assert.Equal(t, map[string]string{
		"js":              "dir",
		"js/app.js":       "file:js",
		"js/local.js":     "file:local",
		"js/lib":          "dir",
		"js/lib/local.js": "file:local lib",
		"js/lib/util.js":  "file:util",
	}, snapshot(t, l.project))
}

func TestCopyNestsWhenBasenamesDiffer(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "app/js/app.js", "js")
	writeFile(t, l.project, "public/index.php", "index")

	c := newCopyFor(l, types.Mapping{Source: "app/js", Dest: "public"})
	require.NoError(t, c.Deploy())

	assert.Equal(t, "js", readFile(t, filepath.Join(l.project, "public", "js", "app.js")))
	assert.Equal(t, "index", readFile(t, filepath.Join(l.project, "public", "index.php")))
	assert.False(t, exists(filepath.Join(l.project, "public", "app.js")))

	require.NoError(t, c.Clean())
	assert.False(t, exists(filepath.Join(l.project, "public", "js")))
	assert.Equal(t, "index", readFile(t, filepath.Join(l.project, "public", "index.php")))
}

func TestCopyDirectoryToNewName(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "app/design/layout.xml", "<layout/>")

	c := newCopyFor(l, types.Mapping{Source: "app/design", Dest: "theme"})
	require.NoError(t, c.Deploy())

	assert.Equal(t, "<layout/>", readFile(t, filepath.Join(l.project, "theme", "layout.xml")))
}

func TestCopyConflict(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "robots.txt", "robots")
	writeFile(t, l.project, "pub/robots.txt", "local")

	c := newCopyFor(l, types.Mapping{Source: "robots.txt", Dest: "pub/robots.txt"})
	err := c.Deploy()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	assert.Equal(t, "local", readFile(t, filepath.Join(l.project, "pub", "robots.txt")))

	c.SetIsForced(true)
	require.NoError(t, c.Deploy())
	assert.Equal(t, "robots", readFile(t, filepath.Join(l.project, "pub", "robots.txt")))
}

func TestCopyGlob(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "assets/a.css", "a")
	writeFile(t, l.source, "assets/b.css", "b")
	writeFile(t, l.source, "assets/c.js", "c")

	c := newCopyFor(l, types.Mapping{Source: "assets/*.css", Dest: "public/css/"})
	require.NoError(t, c.Deploy())

	assert.Equal(t, map[string]string{
		"public":           "dir",
		"public/css":       "dir",
		"public/css/a.css": "file:a",
		"public/css/b.css": "file:b",
	}, snapshot(t, l.project))
}

func TestCopySkipsIgnoredSubtree(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "app/code/Module.php", "module")
	writeFile(t, l.source, "app/secret/key.txt", "key")
	writeFile(t, l.source, "app/backup.bak", "old")

	c := newCopyFor(l, types.Mapping{Source: "app", Dest: "app"})
	c.SetIgnoredMappings([]string{"app/secret", "**/*.bak"})
	require.NoError(t, c.Deploy())

	assert.Equal(t, map[string]string{
		"app":                 "dir",
		"app/code":            "dir",
		"app/code/Module.php": "file:module",
	}, snapshot(t, l.project))
}

func TestCopyRoundTrip(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "app/etc/config.php", "config")
	writeFile(t, l.source, "app/js/app.js", "js")
	writeFile(t, l.source, "app/js/lib/util.js", "util")
	writeFile(t, l.source, "assets/a.css", "a")
	writeFile(t, l.source, "robots.txt", "robots")
	writeFile(t, l.project, "index.php", "index")

	before := snapshot(t, l.project)

	c := newCopyFor(l,
		types.Mapping{Source: "app/etc/config.php", Dest: "app/etc/config.php"},
		types.Mapping{Source: "app/js", Dest: "pub/static/js"},
		types.Mapping{Source: "assets/*.css", Dest: "public/css/"},
		types.Mapping{Source: "robots.txt", Dest: "pub/"},
	)
	require.NoError(t, c.Deploy())
	assert.Equal(t, "robots", readFile(t, filepath.Join(l.project, "pub", "robots.txt")))

	require.NoError(t, c.Clean())
	assert.Equal(t, before, snapshot(t, l.project))
}

func TestCopyCleanKeepsForeignFiles(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "app/js/app.js", "js")

	c := newCopyFor(l, types.Mapping{Source: "app/js", Dest: "js"})
	require.NoError(t, c.Deploy())
	writeFile(t, l.project, "js/custom.js", "custom")

	require.NoError(t, c.Clean())
	assert.Equal(t, map[string]string{
		"js":           "dir",
		"js/custom.js": "file:custom",
	}, snapshot(t, l.project))
}

func TestCopyRejectsDestinationBehindLink(t *testing.T) {
	skipWithoutSymlinks(t)
	l := newLayout(t)
	writeFile(t, l.source, "robots.txt", "robots")
	writeFile(t, l.root, "shared/robots.txt", "shared")
	require.NoError(t, os.Symlink(filepath.Join(l.root, "shared"), filepath.Join(l.project, "shared")))

	c := newCopyFor(l, types.Mapping{Source: "robots.txt", Dest: "shared/robots.txt"})
	c.SetIsForced(true)
	err := c.Deploy()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidMapping))
	assert.Equal(t, "shared", readFile(t, filepath.Join(l.root, "shared", "robots.txt")))
}

func TestCopyRoundTripSourceHoldsSameNamedChild(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "src/dir/dir/x.txt", "x")
	writeFile(t, l.source, "src/dir/y.txt", "y")
	before := snapshot(t, l.project)

	c := newCopyFor(l, types.Mapping{Source: "src/dir", Dest: "target"})
	require.NoError(t, c.Deploy())
	assert.Equal(t, "x", readFile(t, filepath.Join(l.project, "target", "dir", "x.txt")))
	assert.Equal(t, "y", readFile(t, filepath.Join(l.project, "target", "y.txt")))

	require.NoError(t, c.Clean())
	assert.Equal(t, before, snapshot(t, l.project))
}

func TestCopyRoundTripNestedSourceHoldsSameNamedChild(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.source, "src/dir/dir/x.txt", "x")
	writeFile(t, l.source, "src/dir/y.txt", "y")
	writeFile(t, l.project, "target/index.php", "index")
	before := snapshot(t, l.project)

	c := newCopyFor(l, types.Mapping{Source: "src/dir", Dest: "target"})
	require.NoError(t, c.Deploy())
	assert.Equal(t, "x", readFile(t, filepath.Join(l.project, "target", "dir", "dir", "x.txt")))
	assert.Equal(t, "y", readFile(t, filepath.Join(l.project, "target", "dir", "y.txt")))

	require.NoError(t, c.Clean())
	assert.Equal(t, before, snapshot(t, l.project))
}
