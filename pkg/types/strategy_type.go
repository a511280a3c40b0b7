package types

import (
	"strings"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
)

// StrategyType is the materialization policy applied to every mapping of a package
type StrategyType string

const (
	StrategySymlink StrategyType = "symlink"
	StrategyCopy    StrategyType = "copy"
	StrategyNone    StrategyType = "none"
)

// DefaultStrategy is used when the configuration names no strategy
const DefaultStrategy = StrategySymlink

// AllStrategyTypes returns every known strategy in declaration order
func AllStrategyTypes() []StrategyType {
	return []StrategyType{StrategySymlink, StrategyCopy, StrategyNone}
}

// ParseStrategyType converts a configured strategy name. The empty string
// selects the default; any other unknown name is a configuration error.
func ParseStrategyType(name string) (StrategyType, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return DefaultStrategy, nil
	}
	for _, st := range AllStrategyTypes() {
		if string(st) == normalized {
			return st, nil
		}
	}
	return "", errors.Newf(errors.ErrUnknownStrategy, "unknown install strategy %q", name).
		WithDetail("strategy", name)
}

func (s StrategyType) String() string {
	return string(s)
}
