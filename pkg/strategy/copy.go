package strategy

import (
	stderrors "errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/filesystem"
	"github.com/andparsons/composer-project-files-installer/pkg/paths"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
)

// Copy copies every mapped source into the project
type Copy struct {
	base
}

// NewCopy creates a copy strategy
func NewCopy(fs types.FS, sourceDir, destDir string) *Copy {
	return &Copy{base: newBase(types.StrategyCopy, fs, sourceDir, destDir)}
}

func (c *Copy) Deploy() error {
	return c.deploy(c)
}

func (c *Copy) Clean() error {
	return c.clean()
}

func (c *Copy) materialize(it item, src, dst string, srcInfo fs.FileInfo) ([]item, error) {
	mapSource := paths.TrimTrailingSeparators(it.mapping.Source)
	mapDest := paths.TrimTrailingSeparators(it.mapping.Dest)
	cleanSource := paths.TrimTrailingSeparators(it.source)
	cleanDest := paths.TrimTrailingSeparators(it.dest)

	if err := c.fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirectoryCreateFailed, "directory %s was not created", filepath.Dir(dst))
	}

	// The first item of a literal mapping whose basenames differ targets a
	// path inside the destination; record that in the mapping carried by the
	// items pushed from here on.
	mapping := it.mapping
	if mapSource == cleanSource && mapDest == cleanDest && filepath.Base(src) != filepath.Base(dst) {
		mapping.Dest = mapDest + "/" + path.Base(cleanSource)
		cleanDest += "/" + path.Base(cleanSource)
	}

	info, err := c.fs.Stat(dst)
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", dst)
	}

	if err == nil && info.IsDir() {
		destRest, destOK := relativeRest(cleanDest, mapDest)
		srcRest, srcOK := relativeRest(cleanSource, globRoot(mapSource))
		if srcInfo.IsDir() && destOK && srcOK && destRest == srcRest {
			return c.merge(it, mapping, src)
		}
		return []item{{
			kind:    itemCreate,
			source:  it.source,
			dest:    path.Join(paths.TrimTrailingSeparators(it.dest), filepath.Base(src)),
			mapping: mapping,
		}}, nil
	}

	if !paths.StrictlyContainsPath(c.destDir, dst) {
		return nil, errors.Newf(errors.ErrInvalidMapping, "destination %s is not inside %s", dst, c.destDir).
			WithDetail("dest", it.dest)
	}

	if err == nil {
		if !c.forced {
			return nil, errors.AlreadyExists(it.dest, "")
		}
		if err := c.fs.Remove(dst); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", dst)
		}
	}

	if !srcInfo.IsDir() {
		if err := c.copyFile(src, dst, srcInfo.Mode().Perm()); err != nil {
			return nil, err
		}
		c.logger.Debug().Str("source", it.source).Str("dest", it.dest).Msg("Copied file")
		return nil, nil
	}

	if err := c.copyTree(src, dst, cleanDestOf(it)); err != nil {
		return nil, err
	}
	c.logger.Debug().Str("source", it.source).Str("dest", it.dest).Msg("Copied directory")
	return nil, nil
}

// merge copies each child of src into the existing destination directory
func (c *Copy) merge(it item, mapping types.Mapping, src string) ([]item, error) {
	entries, err := c.fs.ReadDir(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}
	next := make([]item, 0, len(entries))
	for _, entry := range entries {
		next = append(next, item{
			kind:    itemCreate,
			source:  path.Join(paths.TrimTrailingSeparators(it.source), entry.Name()),
			dest:    cleanDestOf(it),
			mapping: mapping,
		})
	}
	return next, nil
}

// copyTree walks src in pre-order, creating each directory and copying each
// file below dst. Ignored destinations are skipped along with everything
// below them.
func (c *Copy) copyTree(src, dst, dest string) error {
	if err := c.fs.MkdirAll(dst, dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirectoryCreateFailed, "directory %s was not created", dst)
	}

	children := func(rel string) ([]string, error) {
		entries, err := c.fs.ReadDir(filepath.Join(src, filepath.FromSlash(rel)))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", filepath.Join(src, rel))
		}
		out := make([]string, len(entries))
		for i, entry := range entries {
			out[i] = path.Join(rel, entry.Name())
		}
		return out, nil
	}

	stack, err := children("")
	if err != nil {
		return err
	}
	reverse(stack)

	for len(stack) > 0 {
		rel := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if c.isIgnored(path.Join(dest, rel)) {
			c.logger.Debug().Str("dest", path.Join(dest, rel)).Msg("Destination ignored")
			continue
		}

		from := filepath.Join(src, filepath.FromSlash(rel))
		to := filepath.Join(dst, filepath.FromSlash(rel))

		info, err := c.fs.Stat(from)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", from)
		}

		if info.IsDir() {
			if err := c.fs.MkdirAll(to, dirPerm); err != nil {
				return errors.Wrapf(err, errors.ErrDirectoryCreateFailed, "directory %s was not created", to)
			}
			sub, err := children(rel)
			if err != nil {
				return err
			}
			reverse(sub)
			stack = append(stack, sub...)
		} else if err := c.copyFile(from, to, info.Mode().Perm()); err != nil {
			return err
		}

		if _, err := c.fs.Stat(to); err != nil {
			return errors.Wrapf(err, errors.ErrCopyVerificationFailed, "could not create %s", to)
		}
	}
	return nil
}

func (c *Copy) copyFile(from, to string, perm fs.FileMode) error {
	data, err := c.fs.ReadFile(from)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", from)
	}
	if err := c.fs.WriteFile(to, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", to)
	}
	sum, err := filesystem.Checksum(c.fs, to)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCopyVerificationFailed, "could not create %s", to)
	}
	if want := filesystem.ChecksumBytes(data); sum != want {
		return errors.Newf(errors.ErrCopyVerificationFailed, "copy of %s differs from its source", from).
			WithDetail("dest", to).
			WithDetail("checksum", sum)
	}
	return nil
}

// globRoot is the literal part of a mapping source: the pattern base for a
// glob, the source itself otherwise
func globRoot(source string) string {
	if !hasMeta(source) {
		return source
	}
	root, _ := doublestar.SplitPattern(source)
	if root == "." {
		return ""
	}
	return root
}

// relativeRest returns p with the root prefix and its separator removed. ok
// is false when p does not lie at or below root.
func relativeRest(p, root string) (string, bool) {
	switch {
	case root == "" || root == ".":
		return p, true
	case p == root:
		return "", true
	case strings.HasPrefix(p, root+"/"):
		return p[len(root)+1:], true
	default:
		return "", false
	}
}

func cleanDestOf(it item) string {
	return paths.TrimTrailingSeparators(it.dest)
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
