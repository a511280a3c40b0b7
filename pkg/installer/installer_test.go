package installer

import (
	stderrors "errors"
	"testing"

	"github.com/andparsons/composer-project-files-installer/pkg/config"
	"github.com/andparsons/composer-project-files-installer/pkg/deploy"
	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/testutil"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	projectRoot = "/project"
	themeDir    = "/project/vendor/acme/theme"
)

func themePackage() types.Package {
	return types.Package{
		Name:        "acme/theme",
		Type:        string(types.PackageTypeProjectFiles),
		InstallPath: themeDir,
		Map: [][]string{
			{"robots.txt", "pub/robots.txt"},
			{"app/etc/env.php", "app/etc/env.php"},
		},
	}
}

func newFixture(t *testing.T) types.FS {
	t.Helper()
	return testutil.NewTestFSWithTree(t, themeDir, map[string]string{
		"robots.txt":      "robots",
		"app/etc/env.php": "env",
		"js/app.js":       "js",
	})
}

func copyConfig(t *testing.T, extra map[string]interface{}) *config.Config {
	t.Helper()
	if extra == nil {
		extra = map[string]interface{}{}
	}
	if _, ok := extra[config.KeyStrategy]; !ok {
		extra[config.KeyStrategy] = "copy"
	}
	cfg, err := config.FromExtra(extra)
	require.NoError(t, err)
	return cfg
}

func TestInstallAndDeploy(t *testing.T) {
	fs := newFixture(t)
	in, err := New(copyConfig(t, nil), fs, deploy.NewManager(), Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	registered, err := in.Install(themePackage())
	require.NoError(t, err)
	assert.True(t, registered)

	results := in.OnPostInstall()
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, types.StrategyCopy, results[0].Strategy)
	assert.Equal(t, deploy.CopyPriority, results[0].Priority)

	testutil.AssertFileContent(t, fs, "/project/pub/robots.txt", "robots")
	testutil.AssertFileContent(t, fs, "/project/app/etc/env.php", "env")

	assert.Empty(t, in.OnPostUpdate(), "the registry is cleared after a deploy pass")
}

func TestInstallSkipsPackagesWithoutMap(t *testing.T) {
	fs := newFixture(t)
	manager := deploy.NewManager()
	in, err := New(copyConfig(t, nil), fs, manager, Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	pkg := themePackage()
	pkg.Map = nil
	registered, err := in.Install(pkg)
	require.NoError(t, err)
	assert.False(t, registered)
	assert.Equal(t, 0, manager.Len())
}

func TestInstallUsesMapOverwrite(t *testing.T) {
	fs := newFixture(t)
	cfg := copyConfig(t, map[string]interface{}{
		config.KeyMapOverwrite: map[string]interface{}{
			"Acme/Theme": []interface{}{[]interface{}{"js", "public/js"}},
		},
	})
	in, err := New(cfg, fs, deploy.NewManager(), Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	pkg := themePackage()
	pkg.Map = nil
	registered, err := in.Install(pkg)
	require.NoError(t, err)
	require.True(t, registered)

	results := in.OnPostInstall()
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	testutil.AssertFileContent(t, fs, "/project/public/js/app.js", "js")
	testutil.AssertNotExists(t, fs, "/project/pub/robots.txt")
}

func TestInstallAppliesTranslationsAndSuffix(t *testing.T) {
	fs := newFixture(t)
	cfg := copyConfig(t, map[string]interface{}{
		config.KeyTranslations: map[string]interface{}{"pub/": "public/"},
	})
	in, err := New(cfg, fs, deploy.NewManager(), Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	pkg := themePackage()
	pkg.Type = string(types.PackageTypeDeployFiles)
	_, err = in.Install(pkg)
	require.NoError(t, err)

	results := in.OnPostInstall()
	require.NoError(t, results[0].Err)
	testutil.AssertFileContent(t, fs, "/project/config/deploy/public/robots.txt", "robots")
	testutil.AssertFileContent(t, fs, "/project/config/deploy/app/etc/env.php", "env")
}

func TestInstallStrategyOverrideIgnoresAndForce(t *testing.T) {
	fs := newFixture(t)
	testutil.WriteTree(t, fs, projectRoot, map[string]string{
		"pub/robots.txt":  "local",
		"app/etc/env.php": "local env",
	})
	cfg := copyConfig(t, map[string]interface{}{
		config.KeyStrategy:  "symlink",
		config.KeyOverwrite: map[string]interface{}{"ACME/THEME": "copy"},
		config.KeyForce:     true,
		config.KeyIgnore: map[string]interface{}{
			"*": []interface{}{"app/etc/env.php"},
		},
	})
	in, err := New(cfg, fs, deploy.NewManager(), Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	_, err = in.Install(themePackage())
	require.NoError(t, err)

	results := in.OnPostInstall()
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, types.StrategyCopy, results[0].Strategy)
	testutil.AssertFileContent(t, fs, "/project/pub/robots.txt", "robots")
	testutil.AssertFileContent(t, fs, "/project/app/etc/env.php", "local env")
}

func TestInstallRejectsBadMapping(t *testing.T) {
	fs := newFixture(t)
	in, err := New(copyConfig(t, nil), fs, deploy.NewManager(), Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	pkg := themePackage()
	pkg.Map = [][]string{{"only-source"}}
	_, err = in.Install(pkg)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidMapping))
}

func TestInstallRejectsUnknownType(t *testing.T) {
	fs := newFixture(t)
	in, err := New(copyConfig(t, nil), fs, deploy.NewManager(), Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	pkg := themePackage()
	pkg.Type = "library"
	_, err = in.Install(pkg)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownPackageType))
	assert.False(t, in.Supports("library"))
	assert.True(t, in.Supports("sozo-build-files"))
}

func TestRegister(t *testing.T) {
	fs := newFixture(t)
	manager := deploy.NewManager()
	in, err := New(copyConfig(t, nil), fs, manager, Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	broken := themePackage()
	broken.Name = "acme/broken"
	broken.Map = [][]string{{"a", "b", "c"}}
	library := themePackage()
	library.Name = "acme/lib"
	library.Type = "library"

	failed := in.Register([]types.Package{themePackage(), broken, library})
	require.Len(t, failed, 1)
	assert.Equal(t, "acme/broken", failed[0].PackageName)
	assert.Equal(t, 1, manager.Len())
}

func TestUpdateCleansInitialVersion(t *testing.T) {
	fs := newFixture(t)
	in, err := New(copyConfig(t, nil), fs, deploy.NewManager(), Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	_, err = in.Install(themePackage())
	require.NoError(t, err)
	require.NoError(t, in.OnPostInstall()[0].Err)

	target := themePackage()
	target.Map = [][]string{{"js", "public/js"}}
	registered, err := in.Update(themePackage(), target)
	require.NoError(t, err)
	require.True(t, registered)

	testutil.AssertNotExists(t, fs, "/project/pub")
	testutil.AssertNotExists(t, fs, "/project/app")

	require.NoError(t, in.OnPostUpdate()[0].Err)
	testutil.AssertFileContent(t, fs, "/project/public/js/app.js", "js")
}

func TestUninstall(t *testing.T) {
	fs := newFixture(t)
	in, err := New(copyConfig(t, nil), fs, deploy.NewManager(), Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	_, err = in.Install(themePackage())
	require.NoError(t, err)
	require.NoError(t, in.OnPostInstall()[0].Err)

	require.NoError(t, in.Uninstall(themePackage()))
	testutil.AssertNotExists(t, fs, "/project/pub/robots.txt")
	testutil.AssertFileContent(t, fs, "/project/vendor/acme/theme/robots.txt", "robots")
}

func TestPriorityTableFromConfig(t *testing.T) {
	fs := newFixture(t)
	testutil.WriteTree(t, fs, "/project/vendor/acme/base", map[string]string{"base.txt": "base"})
	cfg := copyConfig(t, map[string]interface{}{
		config.KeyDeploySortPriority: map[string]interface{}{"acme/base": 500},
	})
	in, err := New(cfg, fs, deploy.NewManager(), Options{ProjectRoot: projectRoot})
	require.NoError(t, err)

	base := types.Package{
		Name:        "acme/base",
		Type:        string(types.PackageTypeProjectFiles),
		InstallPath: "/project/vendor/acme/base",
		Map:         [][]string{{"base.txt", "base.txt"}},
	}
	_, err = in.Install(themePackage())
	require.NoError(t, err)
	_, err = in.Install(base)
	require.NoError(t, err)

	results := in.OnPostInstall()
	require.Len(t, results, 2)
	assert.Equal(t, "acme/base", results[0].PackageName)
	assert.Equal(t, 500, results[0].Priority)
}

func TestNewCreatesMissingRoot(t *testing.T) {
	tests := []struct {
		name      string
		confirmer Confirmer
		strategy  string
		wantErr   error
		wantRoot  bool
	}{
		{name: "confirmed", confirmer: Always, strategy: "copy", wantRoot: true},
		{name: "declined", confirmer: ConfirmFunc(func(string) (bool, error) { return false, nil }), strategy: "copy", wantErr: errors.New(errors.ErrConfigInvalid, "")},
		{name: "no confirmer", strategy: "symlink", wantErr: errors.New(errors.ErrConfigInvalid, "")},
		{name: "confirmer fails", confirmer: ConfirmFunc(func(string) (bool, error) { return false, stderrors.New("eof") }), strategy: "copy", wantErr: errors.New(errors.ErrInternal, "")},
		{name: "none strategy needs no root", strategy: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testutil.NewTestFS()
			var asked string
			confirmer := tt.confirmer
			if confirmer != nil {
				inner := confirmer
				confirmer = ConfirmFunc(func(q string) (bool, error) {
					asked = q
					return inner.Confirm(q)
				})
			}

			cfg := copyConfig(t, map[string]interface{}{config.KeyStrategy: tt.strategy})
			_, err := New(cfg, fs, deploy.NewManager(), Options{ProjectRoot: "/missing/root", Confirmer: confirmer})
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			if tt.confirmer != nil {
				assert.Contains(t, asked, "missing! create now?")
			}
			if tt.wantRoot {
				testutil.AssertDir(t, fs, "/missing/root")
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = "hardlink"
	_, err := New(cfg, testutil.NewTestFS(), deploy.NewManager(), Options{ProjectRoot: "/"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}
