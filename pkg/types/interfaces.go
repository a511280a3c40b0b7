package types

import (
	"io/fs"
)

// FS is the filesystem interface the deployment engine works against
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	EvalSymlinks(path string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// Glob expands a pattern (doublestar syntax, "**" allowed) to the
	// absolute paths it matches, in lexical order.
	Glob(pattern string) ([]string, error)

	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}
