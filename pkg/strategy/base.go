package strategy

import (
	stderrors "errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/logging"
	"github.com/andparsons/composer-project-files-installer/pkg/paths"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

const dirPerm fs.FileMode = 0777

type itemKind int

const (
	itemCreate itemKind = iota
	itemRemove
	itemRemoveDir
)

// item is one unit of work. source is relative to the source dir and dest
// relative to the destination dir, both as declared (forward slashes,
// trailing separators preserved). mapping is the mapping the item was
// derived from; Copy may rewrite it for the items it pushes.
type item struct {
	kind    itemKind
	source  string
	dest    string
	mapping types.Mapping
}

// materializer is the variant-specific step of a deploy. It receives an
// item whose source exists, with absolute paths resolved, and returns the
// items to process next in order.
type materializer interface {
	materialize(it item, src, dst string, srcInfo fs.FileInfo) ([]item, error)
}

// base holds the configuration and the worklist driver shared by every variant
type base struct {
	kind      types.StrategyType
	fs        types.FS
	sourceDir string
	destDir   string
	mappings  []types.Mapping
	ignored   []string
	forced    bool
	logger    zerolog.Logger
}

func newBase(kind types.StrategyType, fs types.FS, sourceDir, destDir string) base {
	return base{
		kind:      kind,
		fs:        fs,
		sourceDir: filepath.Clean(sourceDir),
		destDir:   filepath.Clean(destDir),
		logger: logging.GetLogger("strategy").With().
			Str("strategy", string(kind)).
			Str("source_dir", sourceDir).
			Logger(),
	}
}

func (b *base) Type() types.StrategyType {
	return b.kind
}

func (b *base) SetMappings(mappings []types.Mapping) {
	b.mappings = append([]types.Mapping(nil), mappings...)
}

// SetIgnoredMappings stores destination-relative paths in normalized form.
// Entries may be literal paths or doublestar patterns.
func (b *base) SetIgnoredMappings(ignored []string) {
	b.ignored = make([]string, 0, len(ignored))
	for _, ig := range ignored {
		if strings.TrimSpace(ig) == "" {
			continue
		}
		b.ignored = append(b.ignored, paths.NormalizeRelative(ig))
	}
}

func (b *base) SetIsForced(forced bool) {
	b.forced = forced
}

func (b *base) Mappings() []types.Mapping {
	return b.mappings
}

func (b *base) IsForced() bool {
	return b.forced
}

func (b *base) SourceDir() string {
	return b.sourceDir
}

func (b *base) DestDir() string {
	return b.destDir
}

// deploy runs every mapping in order and stops at the first failure
func (b *base) deploy(m materializer) error {
	done := logging.LogOperationStart(b.logger, "deploy")
	defer done()

	for _, mp := range b.mappings {
		if err := b.checkMapping(mp); err != nil {
			return err
		}
		b.logger.Debug().Str("source", mp.Source).Str("dest", mp.Dest).Msg("Deploying mapping")
		if err := b.run(m, item{kind: itemCreate, source: mp.Source, dest: mp.Dest, mapping: mp}); err != nil {
			return err
		}
	}
	return nil
}

// clean removes what deploy created. A mapping whose source can no longer be
// found is skipped; any other failure aborts the pass.
func (b *base) clean() error {
	done := logging.LogOperationStart(b.logger, "clean")
	defer done()

	for _, mp := range b.mappings {
		if err := b.checkMapping(mp); err != nil {
			return err
		}
		err := b.run(nil, item{kind: itemRemove, source: mp.Source, dest: mp.Dest, mapping: mp})
		if err != nil {
			if !errors.IsErrorCode(err, errors.ErrSourceNotFound) {
				return err
			}
			b.logger.Debug().Err(err).Str("source", mp.Source).Msg("Nothing to clean for mapping")
		}
		b.pruneEmptyDirs(b.pruneStart(mp.Dest))
	}
	return nil
}

// run drains the worklist seeded with first. Follow-up items are pushed in
// reverse so they are processed in the order they were returned.
func (b *base) run(m materializer, first item) error {
	stack := []item{first}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var next []item
		var err error
		switch it.kind {
		case itemCreate:
			next, err = b.create(m, it)
		case itemRemove:
			next, err = b.remove(it)
		case itemRemoveDir:
			b.removeDirIfEmpty(it.dest)
		}
		if err != nil {
			return err
		}
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}
	return nil
}

// checkMapping rejects mappings that resolve outside their roots
func (b *base) checkMapping(mp types.Mapping) error {
	if !paths.ContainsPath(b.destDir, b.destPath(mp.Dest)) {
		return errors.Newf(errors.ErrInvalidMapping, "destination %s is outside of %s", mp.Dest, b.destDir).
			WithDetail("dest", mp.Dest)
	}
	if !paths.ContainsPath(b.sourceDir, b.sourcePath(mp.Source)) {
		return errors.Newf(errors.ErrInvalidMapping, "source %s is outside of %s", mp.Source, b.sourceDir).
			WithDetail("source", mp.Source)
	}
	return nil
}

// create resolves one deploy item: ignore check, directory declaration,
// glob expansion, then the variant step
func (b *base) create(m materializer, it item) ([]item, error) {
	if b.isIgnored(it.dest) {
		b.logger.Debug().Str("dest", it.dest).Msg("Destination ignored")
		return nil, nil
	}

	src := b.sourcePath(it.source)
	dst := b.destPath(it.dest)

	srcInfo, srcErr := b.fs.Stat(src)
	if srcErr != nil && !stderrors.Is(srcErr, fs.ErrNotExist) {
		return nil, errors.Wrapf(srcErr, errors.ErrFileAccess, "cannot access source %s", src)
	}
	srcIsDir := srcErr == nil && srcInfo.IsDir()
	behindLink := b.throughLink(dst)

	if behindLink && srcErr == nil {
		if b.resolvesTo(dst, src) {
			b.logger.Trace().Str("dest", dst).Msg("Destination already provided by a linked parent")
			return nil, nil
		}
		return nil, errors.Newf(errors.ErrInvalidMapping, "destination %s lies behind a symlink", it.dest).
			WithDetail("dest", it.dest)
	}

	if paths.HasTrailingSeparator(it.dest) && !srcIsDir && !behindLink && !b.exists(dst) {
		if err := b.fs.MkdirAll(dst, dirPerm); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirectoryCreateFailed, "directory %s was not created", dst)
		}
	}

	if srcErr != nil {
		matches, err := b.glob(src, false)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, errors.Newf(errors.ErrSourceNotFound, "source %s does not exist", src).
				WithDetail("source", it.source)
		}
		next := make([]item, 0, len(matches))
		for _, match := range matches {
			next = append(next, item{
				kind:    itemCreate,
				source:  b.relSource(match),
				dest:    b.relDest(filepath.Join(dst, filepath.Base(match))),
				mapping: it.mapping,
			})
		}
		return next, nil
	}

	if m == nil {
		return nil, nil
	}
	return m.materialize(it, src, dst, srcInfo)
}

// remove resolves one clean item
func (b *base) remove(it item) ([]item, error) {
	if b.isIgnored(it.dest) {
		b.logger.Debug().Str("dest", it.dest).Msg("Destination ignored")
		return nil, nil
	}

	src := b.sourcePath(it.source)
	dst := b.destPath(it.dest)

	srcInfo, err := b.fs.Stat(src)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot access source %s", src)
		}
		matches, gerr := b.glob(src, path.Base(filepath.ToSlash(src)) == "*")
		if gerr != nil {
			return nil, gerr
		}
		if len(matches) == 0 {
			return nil, errors.Newf(errors.ErrSourceNotFound, "source %s does not exist", src).
				WithDetail("source", it.source)
		}
		next := make([]item, 0, len(matches)+1)
		for _, match := range matches {
			next = append(next, item{
				kind:    itemRemove,
				source:  b.relSource(match),
				dest:    b.relDest(filepath.Join(dst, filepath.Base(match))),
				mapping: it.mapping,
			})
		}
		return append(next, item{kind: itemRemoveDir, dest: it.dest}), nil
	}

	if b.throughLink(dst) {
		b.logger.Debug().Str("dest", dst).Msg("Destination lies behind a symlink, not descending")
		return nil, nil
	}

	if srcInfo.IsDir() {
		return b.removeDirSource(it, src, dst)
	}

	// a file deployed into a directory lives one level below it; the
	// directory itself is never removed for a file source
	if filepath.Base(src) != filepath.Base(dst) && b.isRealDir(dst) {
		dst = filepath.Join(dst, filepath.Base(src))
		if b.isIgnored(b.relDest(dst)) {
			return nil, nil
		}
	}
	return nil, b.removePath(dst)
}

// removeDirSource handles a directory source: a link at the destination is
// removed as a whole, a real directory is emptied child by child and then
// removed if nothing else remains in it.
func (b *base) removeDirSource(it item, src, dst string) ([]item, error) {
	info, err := b.fs.Lstat(dst)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", dst)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, b.removePath(dst)
	}
	if !info.IsDir() {
		return nil, nil
	}

	targets := []string{dst}

	// a link or a copy nested into a pre-existing directory with another name.
	// When src holds a child named like itself, a copy onto a new destination
	// looks the same as a nested one, so both layouts are cleaned.
	if filepath.Base(src) != filepath.Base(dst) {
		nested := filepath.Join(dst, filepath.Base(src))
		if b.linksTo(nested, src) {
			return nil, b.removePath(nested)
		}
		if b.isRealDir(nested) {
			if b.exists(filepath.Join(src, filepath.Base(src))) {
				targets = []string{nested, dst}
			} else {
				targets = []string{nested}
			}
		}
	}

	entries, err := b.fs.ReadDir(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}
	next := make([]item, 0, len(targets)*(len(entries)+1))
	for _, target := range targets {
		for _, entry := range entries {
			next = append(next, item{
				kind:    itemRemove,
				source:  path.Join(paths.TrimTrailingSeparators(it.source), entry.Name()),
				dest:    b.relDest(filepath.Join(target, entry.Name())),
				mapping: it.mapping,
			})
		}
		next = append(next, item{kind: itemRemoveDir, dest: b.relDest(target)})
	}
	return next, nil
}

// removePath deletes a deployed path. Links are unlinked, never followed; a
// missing target is not an error.
func (b *base) removePath(dst string) error {
	if !paths.StrictlyContainsPath(b.destDir, dst) {
		return nil
	}
	info, err := b.fs.Lstat(dst)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", dst)
	}

	if info.IsDir() && info.Mode()&fs.ModeSymlink == 0 {
		if b.hasIgnoredBelow(b.relDest(dst)) {
			b.logger.Debug().Str("dest", dst).Msg("Directory holds ignored paths, not removing")
			return nil
		}
		err = b.fs.RemoveAll(dst)
	} else {
		err = b.fs.Remove(dst)
	}
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", dst)
	}
	b.logger.Trace().Str("dest", dst).Msg("Removed")
	return nil
}

// removeDirIfEmpty is best effort
func (b *base) removeDirIfEmpty(dest string) {
	dst := b.destPath(dest)
	if !paths.StrictlyContainsPath(b.destDir, dst) {
		return
	}
	if b.isEmptyDir(dst) {
		_ = b.fs.Remove(dst)
	}
}

// pruneStart returns the first directory considered for pruning after a
// mapping was cleaned. A destination declared with a trailing separator was
// a directory created by deploy, so pruning starts there, or at its parent
// once the clean pass has removed it.
func (b *base) pruneStart(dest string) string {
	dst := b.destPath(dest)
	if paths.HasTrailingSeparator(dest) && b.exists(dst) {
		return dst
	}
	return filepath.Dir(dst)
}

// pruneEmptyDirs removes empty directories from dir upward and stops at the
// first missing or non-empty one, or at the destination dir, which is never
// removed.
func (b *base) pruneEmptyDirs(dir string) {
	for d := dir; paths.StrictlyContainsPath(b.destDir, d); d = filepath.Dir(d) {
		if !b.isEmptyDir(d) {
			return
		}
		if err := b.fs.Remove(d); err != nil {
			return
		}
		b.logger.Trace().Str("dir", d).Msg("Pruned empty directory")
	}
}

func (b *base) isRealDir(p string) bool {
	info, err := b.fs.Lstat(p)
	return err == nil && info.IsDir() && info.Mode()&fs.ModeSymlink == 0
}

func (b *base) isEmptyDir(dir string) bool {
	if !b.isRealDir(dir) {
		return false
	}
	entries, err := b.fs.ReadDir(dir)
	return err == nil && len(entries) == 0
}

// throughLink reports whether any directory between the destination dir and
// dst (exclusive) is a symlink
func (b *base) throughLink(dst string) bool {
	rel, err := filepath.Rel(b.destDir, filepath.Dir(dst))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	cur := b.destDir
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		info, err := b.fs.Lstat(cur)
		if err != nil {
			return false
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return true
		}
	}
	return false
}

// resolvesTo reports whether p and target resolve to the same existing path
func (b *base) resolvesTo(p, target string) bool {
	resolved, err := b.fs.EvalSymlinks(p)
	if err != nil {
		return false
	}
	want, err := b.fs.EvalSymlinks(target)
	return err == nil && resolved == want
}

// linksTo reports whether p is a symlink resolving to the same path as target
func (b *base) linksTo(p, target string) bool {
	info, err := b.fs.Lstat(p)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return false
	}
	resolved, err := b.fs.EvalSymlinks(p)
	if err != nil {
		return false
	}
	want, err := b.fs.EvalSymlinks(target)
	if err != nil {
		return false
	}
	return resolved == want
}

// glob expands pattern to existing paths. Unless hidden is set, entries whose
// name starts with a dot only match when the pattern's last element does too.
func (b *base) glob(pattern string, hidden bool) ([]string, error) {
	matches, err := b.fs.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidMapping, "invalid source pattern %s", pattern)
	}
	keepHidden := hidden || strings.HasPrefix(filepath.Base(pattern), ".")
	out := matches[:0]
	for _, match := range matches {
		if !paths.ContainsPath(b.sourceDir, match) {
			continue
		}
		if !keepHidden && paths.IsHidden(match) {
			continue
		}
		out = append(out, match)
	}
	return out, nil
}

// isIgnored reports whether dest equals or lies below an ignored path, or
// matches an ignored pattern
func (b *base) isIgnored(dest string) bool {
	d := paths.NormalizeRelative(dest)
	for _, ig := range b.ignored {
		if paths.HasPathPrefix(d, ig) {
			return true
		}
		if hasMeta(ig) && matchSelfOrAncestor(ig, d) {
			return true
		}
	}
	return false
}

// hasIgnoredBelow reports whether an ignored path may lie strictly below dest
func (b *base) hasIgnoredBelow(dest string) bool {
	d := paths.NormalizeRelative(dest)
	for _, ig := range b.ignored {
		if hasMeta(ig) {
			root, _ := doublestar.SplitPattern(ig)
			if paths.HasPathPrefix(root, d) || paths.HasPathPrefix(d, root) {
				return true
			}
			continue
		}
		if ig != d && paths.HasPathPrefix(ig, d) {
			return true
		}
	}
	return false
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

func matchSelfOrAncestor(pattern, p string) bool {
	for cur := p; cur != "/" && cur != "."; cur = path.Dir(cur) {
		if ok, _ := doublestar.Match(pattern, cur); ok {
			return true
		}
	}
	return false
}

func (b *base) exists(p string) bool {
	_, err := b.fs.Lstat(p)
	return err == nil
}

func (b *base) sourcePath(source string) string {
	return filepath.Join(b.sourceDir, filepath.FromSlash(paths.TrimTrailingSeparators(source)))
}

func (b *base) destPath(dest string) string {
	return filepath.Join(b.destDir, filepath.FromSlash(paths.TrimTrailingSeparators(dest)))
}

func (b *base) relSource(abs string) string {
	rel, err := paths.RelativeTo(b.sourceDir, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return rel
}

func (b *base) relDest(abs string) string {
	rel, err := paths.RelativeTo(b.destDir, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return rel
}
