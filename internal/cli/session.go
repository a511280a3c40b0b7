package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/andparsons/composer-project-files-installer/pkg/composer"
	"github.com/andparsons/composer-project-files-installer/pkg/config"
	"github.com/andparsons/composer-project-files-installer/pkg/deploy"
	"github.com/andparsons/composer-project-files-installer/pkg/display"
	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/filesystem"
	"github.com/andparsons/composer-project-files-installer/pkg/installer"
	"github.com/andparsons/composer-project-files-installer/pkg/manifest"
	"github.com/andparsons/composer-project-files-installer/pkg/paths"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/andparsons/composer-project-files-installer/pkg/ui"
	"github.com/spf13/cobra"
)

// session is everything one command run needs: resolved paths, the loaded
// configuration, the package list and an installer bound to a manager
type session struct {
	paths     paths.Paths
	cfg       *config.Config
	manager   *deploy.Manager
	installer *installer.Installer
	packages  []types.Package
	format    ui.Format
}

func newSession(cmd *cobra.Command, opts *rootOptions, confirmer installer.Confirmer) (*session, error) {
	format, err := ui.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	p, err := paths.New(opts.projectDir)
	if err != nil {
		return nil, err
	}
	if p.UsedFallback() {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, p.ProjectRoot())
	}

	cfg, err := config.Load(config.Sources{
		ComposerJSON:   p.ComposerJSONPath(),
		ProjectConfigs: p.ProjectConfigPaths(),
		Overrides:      overrides(cmd, opts),
	})
	if err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	pkgs, err := loadPackages(fsys, p, opts.manifest)
	if err != nil {
		return nil, err
	}

	manager := deploy.NewManager()
	inst, err := installer.New(cfg, fsys, manager, installer.Options{
		ProjectRoot: p.ProjectRoot(),
		Confirmer:   confirmer,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		paths:     p,
		cfg:       cfg,
		manager:   manager,
		installer: inst,
		packages:  pkgs,
		format:    format,
	}, nil
}

// overrides turns explicitly set flags into configuration keys
func overrides(cmd *cobra.Command, opts *rootOptions) map[string]interface{} {
	out := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("force") {
		out[config.KeyForce] = opts.force
	}
	if flags.Changed("strategy") {
		out[config.KeyStrategy] = opts.strategy
	}
	return out
}

func loadPackages(fsys types.FS, p paths.Paths, manifestPath string) ([]types.Package, error) {
	if manifestPath != "" {
		path, err := p.NormalizePath(manifestPath)
		if err != nil {
			return nil, err
		}
		return manifest.Load(fsys, path)
	}
	return composer.NewReader(fsys).ReadInstalled(p.VendorDir())
}

// confirmerFor prompts on interactive input and accepts the default
// answer otherwise
func confirmerFor(in io.Reader, out io.Writer) installer.Confirmer {
	if f, ok := in.(*os.File); ok && ui.IsTerminal(f) {
		return ui.NewConsole(in, out)
	}
	return installer.Always
}

// report renders the results and turns failures into an error
func (s *session) report(cmd *cobra.Command, operation string, results []deploy.Result) error {
	report := display.NewReport(operation, results)
	if err := display.NewRenderer(cmd.OutOrStdout(), s.format).Render(report); err != nil {
		return err
	}
	if report.HasFailures() {
		return errors.Newf(errors.ErrInternal, MsgErrFailures, report.Failed, len(report.Packages)).
			WithDetail("operation", operation)
	}
	return nil
}
