package filesystem

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// aferoFS implements types.FS using afero
type aferoFS struct {
	fs afero.Fs
}

// NewAferoFS creates a new afero filesystem implementation
func NewAferoFS(fs afero.Fs) types.FS {
	return &aferoFS{fs: fs}
}

// NewMemoryFS returns an in-memory filesystem
func NewMemoryFS() types.FS {
	return NewAferoFS(afero.NewMemMapFs())
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	info, err := a.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(a.fs, name)
}

func (a *aferoFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(a.fs, name, data, perm)
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) Symlink(oldname, newname string) error {
	if linker, ok := a.fs.(afero.Linker); ok {
		return linker.SymlinkIfPossible(oldname, newname)
	}
	// MemMapFs has no links; store the target as file content so Readlink
	// can report it back.
	return afero.WriteFile(a.fs, newname, []byte(oldname), 0777|os.ModeSymlink)
}

func (a *aferoFS) Readlink(name string) (string, error) {
	if reader, ok := a.fs.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(name)
	}
	content, err := afero.ReadFile(a.fs, name)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func (a *aferoFS) EvalSymlinks(p string) (string, error) {
	if _, isOS := a.fs.(*afero.OsFs); isOS {
		return filepath.EvalSymlinks(p)
	}
	if _, err := a.fs.Stat(p); err != nil {
		return "", err
	}
	return filepath.Clean(p), nil
}

func (a *aferoFS) Remove(name string) error {
	return a.fs.Remove(name)
}

func (a *aferoFS) RemoveAll(path string) error {
	return a.fs.RemoveAll(path)
}

func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := a.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(name)
		return info, err
	}
	return a.fs.Stat(name)
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := afero.ReadDir(a.fs, name)
	if err != nil {
		return nil, err
	}
	dirEntries := make([]fs.DirEntry, len(entries))
	for i, entry := range entries {
		dirEntries[i] = fs.FileInfoToDirEntry(entry)
	}
	return dirEntries, nil
}

// Glob splits the pattern into a literal base and a relative pattern, the
// way doublestar.FilepathGlob does for the OS, and globs inside a base path
// view of the afero filesystem.
func (a *aferoFS) Glob(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, nil
	}

	pattern = filepath.ToSlash(filepath.Clean(pattern))
	base, rel := doublestar.SplitPattern(pattern)
	if rel == "" || rel == "." || rel == ".." {
		if _, err := a.fs.Stat(filepath.FromSlash(pattern)); err != nil {
			return nil, nil
		}
		return []string{filepath.FromSlash(pattern)}, nil
	}

	if info, err := a.fs.Stat(filepath.FromSlash(base)); err != nil || !info.IsDir() {
		return nil, nil
	}

	view := afero.NewIOFS(afero.NewBasePathFs(a.fs, filepath.FromSlash(base)))
	matches, err := doublestar.Glob(view, rel)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i] = filepath.FromSlash(path.Join(base, matches[i]))
	}
	sort.Strings(matches)
	return matches, nil
}
