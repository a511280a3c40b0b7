package strategy

import (
	"github.com/andparsons/composer-project-files-installer/pkg/types"
)

// None registers a package without touching the filesystem. Deploy and Clean
// always succeed.
type None struct {
	base
}

// NewNone creates a no-op strategy
func NewNone(fs types.FS, sourceDir, destDir string) *None {
	return &None{base: newBase(types.StrategyNone, fs, sourceDir, destDir)}
}

func (n *None) Deploy() error {
	n.logger.Debug().Int("mappings", len(n.mappings)).Msg("Strategy none, skipping deploy")
	return nil
}

func (n *None) Clean() error {
	n.logger.Debug().Int("mappings", len(n.mappings)).Msg("Strategy none, skipping clean")
	return nil
}
