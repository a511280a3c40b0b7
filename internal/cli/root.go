// Package cli builds the files-installer command tree.
package cli

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/andparsons/composer-project-files-installer/internal/version"
	"github.com/andparsons/composer-project-files-installer/pkg/cobrax/topics"
	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

type rootOptions struct {
	verbosity  int
	projectDir string
	force      bool
	strategy   string
	format     string
	manifest   string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "files-installer",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerWithOutput(opts.verbosity, cmd.ErrOrStderr())
			logging.LogCommand(cmd.Name(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrConfigInvalid, MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&opts.projectDir, "project-dir", "C", "", MsgFlagProjectDir)
	flags.BoolVar(&opts.force, "force", false, MsgFlagForce)
	flags.StringVar(&opts.strategy, "strategy", "", MsgFlagStrategy)
	flags.StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	flags.StringVar(&opts.manifest, "manifest", "", MsgFlagManifest)

	_ = rootCmd.RegisterFlagCompletionFunc("strategy", cobra.FixedCompletions(
		[]string{"symlink", "copy", "none"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"auto", "term", "text", "json"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(newDeployCmd(opts))
	rootCmd.AddCommand(newCleanCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	sub, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		if _, err := topics.Initialize(rootCmd, sub, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		}); err != nil {
			log.Warn().Err(err).Msg("Help topics unavailable")
		}
	}

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String(cmd.Root().Name()))
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(files-installer completion bash)

Zsh:
  $ files-installer completion zsh > "${fpath[1]}/_files-installer"

Fish:
  $ files-installer completion fish | source

PowerShell:
  PS> files-installer completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				err = cmd.Root().GenZshCompletion(out)
			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			if err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "failed to generate %s completion", args[0])
			}
			return nil
		},
	}
}
