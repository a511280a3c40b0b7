package paths

import (
	"path"
	"path/filepath"
	"strings"
)

// SanitizePath expands home and cleans the path
func SanitizePath(p string) string {
	cleaned := filepath.Clean(expandHome(p))
	if cleaned == "" {
		return "."
	}
	return cleaned
}

// ContainsPath checks if child is parent itself or lies below it.
// Both paths are normalized before comparison.
func ContainsPath(parent, child string) bool {
	rel, err := filepath.Rel(SanitizePath(parent), SanitizePath(child))
	if err != nil {
		return false
	}
	return !hasDotDotPrefix(rel)
}

// StrictlyContainsPath checks if child lies below parent and is not parent itself
func StrictlyContainsPath(parent, child string) bool {
	rel, err := filepath.Rel(SanitizePath(parent), SanitizePath(child))
	if err != nil {
		return false
	}
	return rel != "." && !hasDotDotPrefix(rel)
}

// RelativeTo returns target relative to base, using forward slashes
func RelativeTo(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// NormalizeRelative turns a destination-relative path into the canonical
// form used for ignore matching: a leading "/", forward slashes, with "./",
// duplicate separators and trailing separators collapsed.
func NormalizeRelative(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return path.Clean("/" + p)
}

// HasPathPrefix reports whether p equals prefix or lies below it. Both must
// be in NormalizeRelative form.
func HasPathPrefix(p, prefix string) bool {
	if prefix == "/" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

// IsHidden reports whether the last element of p starts with a dot
func IsHidden(p string) bool {
	base := filepath.Base(p)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// HasTrailingSeparator reports whether p ends in "/" or "\"
func HasTrailingSeparator(p string) bool {
	return strings.HasSuffix(p, "/") || strings.HasSuffix(p, "\\")
}

// TrimTrailingSeparators removes trailing spaces and separators the way
// mapping declarations are normalized before they are joined to a root
func TrimTrailingSeparators(p string) string {
	return strings.TrimRight(p, " \\/")
}
