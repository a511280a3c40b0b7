package strategy

import (
	stderrors "errors"
	"io/fs"
	"path"
	"path/filepath"
	"runtime"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/paths"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
)

// Symlink links every mapped source into the project
type Symlink struct {
	base
}

// NewSymlink creates a symlink strategy
func NewSymlink(fs types.FS, sourceDir, destDir string) *Symlink {
	return &Symlink{base: newBase(types.StrategySymlink, fs, sourceDir, destDir)}
}

func (s *Symlink) Deploy() error {
	return s.deploy(s)
}

func (s *Symlink) Clean() error {
	return s.clean()
}

func (s *Symlink) materialize(it item, src, dst string, srcInfo fs.FileInfo) ([]item, error) {
	if !srcInfo.IsDir() && !srcInfo.Mode().IsRegular() {
		return nil, errors.Newf(errors.ErrSourceNotFound, "could not find path %s", src).
			WithDetail("source", it.source)
	}

	splitDir := srcInfo.IsDir() && s.hasIgnoredBelow(it.dest)

	if info, err := s.fs.Lstat(dst); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if !splitDir && s.linksTo(dst, src) {
			s.logger.Trace().Str("dest", dst).Msg("Symlink already in place")
			return nil, nil
		}
		if err := s.fs.Remove(dst); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove stale symlink %s", dst)
		}
	}

	if err := s.fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirectoryCreateFailed, "directory %s was not created", filepath.Dir(dst))
	}

	info, err := s.fs.Lstat(dst)
	if err == nil && info.IsDir() && filepath.Base(src) != filepath.Base(dst) {
		return []item{{
			kind:    itemCreate,
			source:  it.source,
			dest:    path.Join(paths.TrimTrailingSeparators(it.dest), filepath.Base(src)),
			mapping: it.mapping,
		}}, nil
	}

	// Linking a whole directory would cover ignored paths below it, so its
	// children are linked one by one into a real directory instead.
	if splitDir {
		return s.descend(it, src, dst)
	}

	switch {
	case err == nil && info.IsDir():
		if !s.forced {
			return nil, errors.AlreadyExists(it.dest, "")
		}
		if !paths.StrictlyContainsPath(s.destDir, dst) {
			return nil, errors.Newf(errors.ErrInvalidMapping, "refusing to replace %s", dst)
		}
		if err := s.fs.RemoveAll(dst); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", dst)
		}
		return []item{it}, nil
	case err == nil:
		if !s.forced {
			return nil, errors.AlreadyExists(it.dest, " and is not a symlink")
		}
		if err := s.fs.Remove(dst); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", dst)
		}
	case !stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", dst)
	}

	if !paths.StrictlyContainsPath(s.destDir, dst) {
		return nil, errors.Newf(errors.ErrInvalidMapping, "destination %s is not inside %s", dst, s.destDir).
			WithDetail("dest", it.dest)
	}

	target := s.linkTarget(src, dst)
	if err := s.fs.Symlink(target, dst); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "an error occurred while creating symlink %s", dst)
	}

	if _, err := s.fs.Readlink(dst); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLinkVerificationFailed, "symlink %s is not readable", dst)
	}
	if _, err := s.fs.Stat(dst); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLinkVerificationFailed, "symlink %s does not resolve", dst).
			WithDetail("target", target)
	}

	s.logger.Debug().Str("source", it.source).Str("dest", it.dest).Str("target", target).Msg("Created symlink")
	return nil, nil
}

// descend replaces a directory link with a real directory holding links to
// each child
func (s *Symlink) descend(it item, src, dst string) ([]item, error) {
	if info, err := s.fs.Lstat(dst); err == nil && !info.IsDir() {
		if !s.forced {
			return nil, errors.AlreadyExists(it.dest, " and is not a directory")
		}
		if err := s.fs.Remove(dst); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", dst)
		}
	}
	if err := s.fs.MkdirAll(dst, dirPerm); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirectoryCreateFailed, "directory %s was not created", dst)
	}

	entries, err := s.fs.ReadDir(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}
	next := make([]item, 0, len(entries))
	for _, entry := range entries {
		next = append(next, item{
			kind:    itemCreate,
			source:  path.Join(paths.TrimTrailingSeparators(it.source), entry.Name()),
			dest:    path.Join(paths.TrimTrailingSeparators(it.dest), entry.Name()),
			mapping: it.mapping,
		})
	}
	return next, nil
}

// linkTarget is relative to the link's directory so a project stays
// relocatable. Windows gets the absolute source.
func (s *Symlink) linkTarget(src, dst string) string {
	if runtime.GOOS == "windows" {
		return src
	}
	from := filepath.Dir(dst)
	if resolved, err := s.fs.EvalSymlinks(from); err == nil {
		from = resolved
	}
	to := src
	if resolved, err := s.fs.EvalSymlinks(src); err == nil {
		to = resolved
	}
	rel, err := filepath.Rel(from, to)
	if err != nil {
		return src
	}
	return rel
}
