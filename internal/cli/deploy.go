package cli

import (
	"github.com/andparsons/composer-project-files-installer/pkg/display"
	"github.com/andparsons/composer-project-files-installer/pkg/logging"
	"github.com/spf13/cobra"
)

func newDeployCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "deploy",
		Short:   MsgDeployShort,
		Long:    MsgDeployLong,
		Example: MsgDeployExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, confirmerFor(cmd.InOrStdin(), cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cli.deploy")
			logger.Info().
				Str("project", s.paths.ProjectRoot()).
				Str("strategy", s.cfg.Strategy).
				Int("packages", len(s.packages)).
				Msg("Deploying packages")

			failed := s.installer.Register(s.packages)
			results := append(failed, s.installer.OnPostInstall()...)
			return s.report(cmd, display.OperationDeploy, results)
		},
	}
}
