package cli

import (
	"github.com/andparsons/composer-project-files-installer/pkg/display"
	"github.com/andparsons/composer-project-files-installer/pkg/logging"
	"github.com/spf13/cobra"
)

func newCleanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: MsgCleanShort,
		Long:  MsgCleanLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// nothing to clean in a project root that does not exist
			s, err := newSession(cmd, opts, nil)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cli.clean")
			logger.Info().
				Str("project", s.paths.ProjectRoot()).
				Int("packages", len(s.packages)).
				Msg("Cleaning packages")

			failed := s.installer.Register(s.packages)
			results := append(failed, s.manager.RunCleanup()...)
			s.manager.Reset()
			return s.report(cmd, display.OperationClean, results)
		},
	}
}
