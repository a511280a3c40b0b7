// Package manifest reads a host-neutral package list, for projects that are
// not managed by Composer. The manifest is TOML or YAML:
//
//	[[package]]
//	name = "acme/theme"
//	type = "sozo-project-files"
//	install-path = "vendor/acme/theme"
//	map = [["robots.txt", "pub/robots.txt"]]
//
// Relative install paths are resolved against the manifest's directory.
package manifest

import (
	"path/filepath"
	"strings"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Manifest is the decoded file
type Manifest struct {
	Packages []types.Package `toml:"package" yaml:"package"`
}

// Load reads and decodes the manifest at path
func Load(fs types.FS, path string) ([]types.Package, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read manifest %s", path).
			WithDetail("path", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Parse(data, formatOf(path), filepath.Dir(abs))
}

// Format is the manifest encoding
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Parse decodes manifest content and resolves relative install paths
// against baseDir
func Parse(data []byte, format Format, baseDir string) ([]types.Package, error) {
	var m Manifest
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	case FormatTOML:
		err = toml.Unmarshal(data, &m)
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported manifest format %q", string(format))
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid %s manifest", string(format))
	}

	seen := make(map[string]bool, len(m.Packages))
	for i := range m.Packages {
		p := &m.Packages[i]
		if p.Name == "" {
			return nil, errors.Newf(errors.ErrConfigInvalid, "package %d has no name", i).
				WithDetail("index", i)
		}
		if seen[strings.ToLower(p.Name)] {
			return nil, errors.Newf(errors.ErrConfigInvalid, "package %s is listed twice", p.Name).
				WithDetail("package", p.Name)
		}
		seen[strings.ToLower(p.Name)] = true

		if p.InstallPath == "" {
			return nil, errors.Newf(errors.ErrConfigInvalid, "package %s has no install-path", p.Name).
				WithDetail("package", p.Name)
		}
		installPath := filepath.FromSlash(p.InstallPath)
		if !filepath.IsAbs(installPath) {
			installPath = filepath.Join(baseDir, installPath)
		}
		p.InstallPath = filepath.Clean(installPath)
	}
	return m.Packages, nil
}
