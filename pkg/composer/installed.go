package composer

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"sort"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/logging"
	"github.com/andparsons/composer-project-files-installer/pkg/paths"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
)

// installedPackage is one entry of installed.json
type installedPackage struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	InstallPath string `json:"install-path"`
	Extra       struct {
		Map [][]string `json:"map"`
	} `json:"extra"`
}

type installedV2 struct {
	Packages []installedPackage `json:"packages"`
}

// Reader loads installed packages through a filesystem
type Reader struct {
	fs types.FS
}

// NewReader creates a reader on fs
func NewReader(fs types.FS) *Reader {
	return &Reader{fs: fs}
}

// ReadInstalled reads vendorDir/composer/installed.json
func (r *Reader) ReadInstalled(vendorDir string) ([]types.Package, error) {
	path := filepath.Join(vendorDir, filepath.FromSlash(paths.InstalledFile))
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path).
			WithDetail("path", path)
	}
	pkgs, err := ParseInstalled(data, vendorDir)
	if err != nil {
		return nil, err
	}
	logger := logging.GetLogger("composer")
	logger.Debug().
		Str("path", path).
		Int("packages", len(pkgs)).
		Msg("Read installed packages")
	return pkgs, nil
}

// ParseInstalled decodes installed.json content. Relative install paths are
// resolved against vendorDir/composer, the way Composer 2 writes them;
// Composer 1 entries carry no install path and live at vendorDir/<name>.
// Packages are returned sorted by name.
func ParseInstalled(data []byte, vendorDir string) ([]types.Package, error) {
	var raw []installedPackage

	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return nil, errors.New(errors.ErrConfigParse, "installed.json is empty")
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid installed.json")
		}
	default:
		var v2 installedV2
		if err := json.Unmarshal(trimmed, &v2); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid installed.json")
		}
		raw = v2.Packages
	}

	composerDir := filepath.Join(vendorDir, "composer")
	pkgs := make([]types.Package, 0, len(raw))
	for _, p := range raw {
		if p.Name == "" {
			continue
		}
		installPath := filepath.Join(vendorDir, filepath.FromSlash(p.Name))
		if p.InstallPath != "" {
			installPath = filepath.FromSlash(p.InstallPath)
			if !filepath.IsAbs(installPath) {
				installPath = filepath.Join(composerDir, installPath)
			}
		}
		pkgs = append(pkgs, types.Package{
			Name:        p.Name,
			Type:        p.Type,
			InstallPath: filepath.Clean(installPath),
			Map:         p.Extra.Map,
		})
	}

	sort.SliceStable(pkgs, func(i, j int) bool {
		return pkgs[i].Name < pkgs[j].Name
	})
	return pkgs, nil
}
