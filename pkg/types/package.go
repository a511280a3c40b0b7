package types

import (
	"github.com/andparsons/composer-project-files-installer/pkg/errors"
)

// PackageType selects the destination suffix applied to a package's mappings
type PackageType string

const (
	PackageTypeDeployFiles  PackageType = "sozo-deploy-files"
	PackageTypeBuildFiles   PackageType = "sozo-build-files"
	PackageTypeProjectFiles PackageType = "sozo-project-files"
)

// AllPackageTypes returns every supported package type
func AllPackageTypes() []PackageType {
	return []PackageType{PackageTypeDeployFiles, PackageTypeBuildFiles, PackageTypeProjectFiles}
}

// ParsePackageType validates a package type string
func ParsePackageType(name string) (PackageType, error) {
	pt := PackageType(name)
	if _, err := pt.Suffix(); err != nil {
		return "", err
	}
	return pt, nil
}

// Suffix returns the path prepended to every destination of a package of this type
func (p PackageType) Suffix() (string, error) {
	switch p {
	case PackageTypeDeployFiles:
		return "/config/deploy/", nil
	case PackageTypeBuildFiles:
		return "/config/build/", nil
	case PackageTypeProjectFiles:
		return "./", nil
	default:
		return "", errors.Newf(errors.ErrUnknownPackageType, "unknown package type %q", string(p)).
			WithDetail("type", string(p))
	}
}

func (p PackageType) String() string {
	return string(p)
}

// Package is the host's description of one installed dependency
type Package struct {
	Name        string     `json:"name" yaml:"name" toml:"name"`
	Type        string     `json:"type" yaml:"type" toml:"type"`
	InstallPath string     `json:"install-path" yaml:"install-path" toml:"install-path"`
	Map         [][]string `json:"map,omitempty" yaml:"map,omitempty" toml:"map,omitempty"`
}

// HasMap reports whether the package declares its own mapping list
func (p Package) HasMap() bool {
	return p.Map != nil
}
