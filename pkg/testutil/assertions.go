package testutil

import (
	"testing"

	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/stretchr/testify/assert"
)

// AssertFileContent checks that path exists on fs with the given content
func AssertFileContent(t *testing.T, fs types.FS, path, want string) bool {
	t.Helper()

	data, err := fs.ReadFile(path)
	if !assert.NoError(t, err, "reading %s", path) {
		return false
	}
	return assert.Equal(t, want, string(data), "content of %s", path)
}

// AssertNotExists checks that nothing exists at path on fs
func AssertNotExists(t *testing.T, fs types.FS, path string) bool {
	t.Helper()

	if _, err := fs.Lstat(path); err == nil {
		return assert.Fail(t, "path should not exist", path)
	}
	return true
}

// AssertDir checks that path is a directory on fs
func AssertDir(t *testing.T, fs types.FS, path string) bool {
	t.Helper()

	info, err := fs.Stat(path)
	if !assert.NoError(t, err, "stat %s", path) {
		return false
	}
	return assert.True(t, info.IsDir(), "%s should be a directory", path)
}
