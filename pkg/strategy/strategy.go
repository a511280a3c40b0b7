package strategy

import (
	"path/filepath"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
)

// Strategy deploys and cleans the mappings of one package
type Strategy interface {
	Type() types.StrategyType
	SetMappings(mappings []types.Mapping)
	SetIgnoredMappings(ignored []string)
	SetIsForced(forced bool)
	Mappings() []types.Mapping
	IsForced() bool
	SourceDir() string
	DestDir() string
	Deploy() error
	Clean() error
}

// New creates the strategy for kind. sourceDir is the package install root
// and destDir the project root; relative paths are made absolute.
func New(kind types.StrategyType, fs types.FS, sourceDir, destDir string) (Strategy, error) {
	src, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid source dir %s", sourceDir)
	}
	dst, err := filepath.Abs(destDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid destination dir %s", destDir)
	}

	switch kind {
	case types.StrategySymlink:
		return NewSymlink(fs, src, dst), nil
	case types.StrategyCopy:
		return NewCopy(fs, src, dst), nil
	case types.StrategyNone:
		return NewNone(fs, src, dst), nil
	default:
		return nil, errors.Newf(errors.ErrConfigInvalid, "unknown install strategy %q", string(kind)).
			WithDetail("strategy", string(kind))
	}
}
