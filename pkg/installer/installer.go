package installer

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/andparsons/composer-project-files-installer/pkg/config"
	"github.com/andparsons/composer-project-files-installer/pkg/deploy"
	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/logging"
	"github.com/andparsons/composer-project-files-installer/pkg/mapping"
	"github.com/andparsons/composer-project-files-installer/pkg/strategy"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/rs/zerolog"
)

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(question string) (bool, error)

func (f ConfirmFunc) Confirm(question string) (bool, error) {
	return f(question)
}

// Always answers every question with yes
var Always Confirmer = ConfirmFunc(func(string) (bool, error) { return true, nil })

// Options configures an Installer
type Options struct {
	// ProjectRoot is where mappings are deployed. Relative paths are
	// resolved against the working directory.
	ProjectRoot string
	// Confirmer is asked before a missing project root is created. A nil
	// Confirmer declines.
	Confirmer Confirmer
}

// Installer registers packages with a deploy manager
type Installer struct {
	cfg         *config.Config
	fs          types.FS
	manager     *deploy.Manager
	projectRoot string
	logger      zerolog.Logger
}

// New validates the configuration and prepares the project root
func New(cfg *config.Config, fsys types.FS, manager *deploy.Manager, opts Options) (*Installer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	global, err := cfg.GlobalStrategy()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "invalid global strategy")
	}

	rootArg := opts.ProjectRoot
	if rootArg == "" {
		rootArg = "."
	}
	root, err := filepath.Abs(rootArg)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid project root %s", rootArg)
	}

	in := &Installer{
		cfg:     cfg,
		fs:      fsys,
		manager: manager,
		logger:  logging.GetLogger("installer"),
	}

	if global != types.StrategyNone {
		if err := in.ensureRoot(root, opts.Confirmer); err != nil {
			return nil, err
		}
		if resolved, err := fsys.EvalSymlinks(root); err == nil {
			root = resolved
		}
	}
	in.projectRoot = root

	manager.SetPriorityTable(cfg.Priorities())
	in.logger.Debug().
		Str("project_root", root).
		Str("strategy", string(global)).
		Msg("Installer ready")
	return in, nil
}

// ensureRoot creates a missing project root after confirmation
func (in *Installer) ensureRoot(root string, confirmer Confirmer) error {
	info, err := in.fs.Stat(root)
	if err == nil {
		if !info.IsDir() {
			return errors.Newf(errors.ErrConfigInvalid, "root dir %q is not valid", root).
				WithDetail("path", root)
		}
		return nil
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access root dir %s", root)
	}

	create := false
	if confirmer != nil {
		create, err = confirmer.Confirm(fmt.Sprintf("root dir %s missing! create now?", root))
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "confirmation failed")
		}
	}
	if !create {
		return errors.Newf(errors.ErrConfigInvalid, "root dir %q is not valid", root).
			WithDetail("path", root)
	}
	if err := in.fs.MkdirAll(root, 0777); err != nil {
		return errors.Wrapf(err, errors.ErrDirectoryCreateFailed, "root dir %s was not created", root)
	}
	in.logger.Info().Str("path", root).Msg("Created root dir")
	return nil
}

// ProjectRoot returns the absolute project root
func (in *Installer) ProjectRoot() string {
	return in.projectRoot
}

// Supports reports whether packages of this type are handled
func (in *Installer) Supports(packageType string) bool {
	_, err := types.ParsePackageType(packageType)
	return err == nil
}

// Install registers pkg for the next deploy pass. A package without a
// mapping list, declared or overridden, is skipped and false is returned.
func (in *Installer) Install(pkg types.Package) (bool, error) {
	if !in.hasMap(pkg) {
		in.logger.Debug().Str("package", pkg.Name).Msg("No mapping declared, skipping")
		return false, nil
	}
	s, err := in.strategyFor(pkg)
	if err != nil {
		return false, err
	}
	in.manager.AddEntry(pkg.Name, s)
	return true, nil
}

// Update cleans what the initial version deployed, then registers the
// target version. Cleanup failures are logged and do not stop the update.
func (in *Installer) Update(initial, target types.Package) (bool, error) {
	if in.hasMap(initial) {
		if err := in.clean(initial); err != nil {
			in.logger.Warn().Err(err).Str("package", initial.Name).Msg("Cleanup of previous version failed")
		}
	}
	return in.Install(target)
}

// Uninstall removes what the package deployed
func (in *Installer) Uninstall(pkg types.Package) error {
	if !in.hasMap(pkg) {
		return nil
	}
	return in.clean(pkg)
}

// Register installs every supported package of pkgs and returns one result
// per package that could not be registered
func (in *Installer) Register(pkgs []types.Package) []deploy.Result {
	var failed []deploy.Result
	for _, pkg := range pkgs {
		if !in.Supports(pkg.Type) {
			continue
		}
		if _, err := in.Install(pkg); err != nil {
			in.logger.Debug().Err(err).Str("package", pkg.Name).Msg("Package not registered")
			failed = append(failed, deploy.Result{PackageName: pkg.Name, Err: err})
		}
	}
	return failed
}

// OnPostInstall runs the deploy pass over every registered package and
// clears the registry
func (in *Installer) OnPostInstall() []deploy.Result {
	return in.runDeploy("post-install")
}

// OnPostUpdate is OnPostInstall for the update event
func (in *Installer) OnPostUpdate() []deploy.Result {
	return in.runDeploy("post-update")
}

func (in *Installer) runDeploy(event string) []deploy.Result {
	in.logger.Debug().Str("event", event).Int("packages", in.manager.Len()).Msg("Start deploy via deploy manager")
	results := in.manager.RunDeploy()
	in.manager.Reset()
	return results
}

func (in *Installer) clean(pkg types.Package) error {
	s, err := in.strategyFor(pkg)
	if err != nil {
		return err
	}
	return s.Clean()
}

func (in *Installer) hasMap(pkg types.Package) bool {
	if pkg.HasMap() {
		return true
	}
	_, ok := in.cfg.MapOverwriteFor(pkg.Name)
	return ok
}

// strategyFor builds the configured strategy for pkg with its mappings,
// ignores and force flag set
func (in *Installer) strategyFor(pkg types.Package) (strategy.Strategy, error) {
	pt, err := types.ParsePackageType(pkg.Type)
	if err != nil {
		return nil, err
	}
	suffix, err := pt.Suffix()
	if err != nil {
		return nil, err
	}

	kind, err := in.cfg.StrategyFor(pkg.Name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid strategy for package %s", pkg.Name)
	}

	raw := pkg.Map
	if override, ok := in.cfg.MapOverwriteFor(pkg.Name); ok {
		raw = override
	}
	mappings, err := mapping.Parse(raw, in.cfg.TranslationRules(), suffix)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidMapping, "invalid mapping for package %s", pkg.Name).
			WithDetail("package", pkg.Name)
	}

	sourceDir, err := filepath.Abs(pkg.InstallPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid install path %s", pkg.InstallPath)
	}

	s, err := strategy.New(kind, in.fs, sourceDir, in.projectRoot)
	if err != nil {
		return nil, err
	}
	s.SetMappings(mappings)
	s.SetIgnoredMappings(in.cfg.IgnoresFor(pkg.Name))
	s.SetIsForced(in.cfg.Force)

	in.logger.Debug().
		Str("package", pkg.Name).
		Str("strategy", string(kind)).
		Int("mappings", len(mappings)).
		Msg("Built strategy")
	return s, nil
}
