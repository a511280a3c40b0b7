package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/andparsons/composer-project-files-installer/pkg/errors"
)

// Environment variable names
const (
	// EnvProjectDir overrides project root discovery
	EnvProjectDir = "FILES_INSTALLER_PROJECT_DIR"

	// EnvStateDir overrides the XDG state directory
	EnvStateDir = "FILES_INSTALLER_STATE_DIR"

	// EnvComposerVendorDir is honoured the same way Composer does
	EnvComposerVendorDir = "COMPOSER_VENDOR_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name used under the XDG base directories
	AppDirName = "files-installer"

	// ComposerFile is the host project manifest
	ComposerFile = "composer.json"

	// DefaultVendorDir is the vendor directory relative to the project root
	DefaultVendorDir = "vendor"

	// InstalledFile is Composer's installed package list, relative to the vendor dir
	InstalledFile = "composer/installed.json"

	// ProjectConfigBase is the base name of the optional project config file
	ProjectConfigBase = "files-installer"

	// LogFileName is the name of the log file
	LogFileName = "files-installer.log"
)

// Paths provides centralized path management for one project
type Paths interface {
	ProjectRoot() string
	UsedFallback() bool
	VendorDir() string
	ComposerJSONPath() string
	InstalledJSONPath() string
	ProjectConfigPaths() []string
	ConfigDir() string
	StateDir() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
	IsInProject(path string) (bool, error)
}

type paths struct {
	projectRoot  string
	vendorDir    string
	xdgConfig    string
	xdgState     string
	usedFallback bool
}

// New creates a new Paths instance with the given project root.
// If projectRoot is empty, it is discovered from the environment, the nearest
// composer.json above the working directory, or the working directory itself.
func New(projectRoot string) (Paths, error) {
	p := &paths{}

	if projectRoot == "" {
		root, fallback, err := findProjectRoot()
		if err != nil {
			return nil, err
		}
		projectRoot = root
		p.usedFallback = fallback
	}

	abs, err := filepath.Abs(expandHome(projectRoot))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve project root %s", projectRoot)
	}
	p.projectRoot = filepath.Clean(abs)

	vendor := os.Getenv(EnvComposerVendorDir)
	if vendor == "" {
		vendor = DefaultVendorDir
	}
	vendor = expandHome(vendor)
	if !filepath.IsAbs(vendor) {
		vendor = filepath.Join(p.projectRoot, vendor)
	}
	p.vendorDir = filepath.Clean(vendor)

	p.setupXDGDirs()
	return p, nil
}

func (p *paths) setupXDGDirs() {
	p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.xdgState = expandHome(stateDir)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}
}

// findProjectRoot determines the project root using the following priority:
// 1. FILES_INSTALLER_PROJECT_DIR environment variable
// 2. The nearest ancestor of the working directory holding composer.json
// 3. The working directory (fallback)
func findProjectRoot() (string, bool, error) {
	if root := os.Getenv(EnvProjectDir); root != "" {
		return expandHome(root), false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	for dir := cwd; ; dir = filepath.Dir(dir) {
		if info, err := os.Stat(filepath.Join(dir, ComposerFile)); err == nil && !info.IsDir() {
			return dir, false, nil
		}
		if filepath.Dir(dir) == dir {
			break
		}
	}

	return cwd, true, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	// ~something (not the user's home)
	return path
}

// ExpandHome expands a leading ~ in path
func ExpandHome(path string) string {
	return expandHome(path)
}

func (p *paths) ProjectRoot() string {
	return p.projectRoot
}

// UsedFallback reports whether discovery fell back to the working directory
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

func (p *paths) VendorDir() string {
	return p.vendorDir
}

func (p *paths) ComposerJSONPath() string {
	return filepath.Join(p.projectRoot, ComposerFile)
}

func (p *paths) InstalledJSONPath() string {
	return filepath.Join(p.vendorDir, filepath.FromSlash(InstalledFile))
}

// ProjectConfigPaths lists the optional project config files in load order
func (p *paths) ProjectConfigPaths() []string {
	return []string{
		filepath.Join(p.projectRoot, ProjectConfigBase+".toml"),
		filepath.Join(p.projectRoot, ProjectConfigBase+".yaml"),
	}
}

func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

func (p *paths) StateDir() string {
	return p.xdgState
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath expands home, makes the path absolute relative to the
// project root and cleans it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidMapping, "empty path")
	}

	expanded := expandHome(path)
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(p.projectRoot, expanded)
	}
	return filepath.Clean(expanded), nil
}

// IsInProject checks if a path is within the project root
func (p *paths) IsInProject(path string) (bool, error) {
	normalized, err := p.NormalizePath(path)
	if err != nil {
		return false, err
	}
	return ContainsPath(p.projectRoot, normalized), nil
}

// LogFilePath returns the default log file location without resolving a project
func LogFilePath() string {
	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		return filepath.Join(expandHome(stateDir), LogFileName)
	}
	return filepath.Join(xdg.StateHome, AppDirName, LogFileName)
}

func hasDotDotPrefix(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
