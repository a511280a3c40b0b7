package cli

// Command descriptions
const (
	MsgRootShort = "Deploy files shipped by Composer packages into the project"
	MsgRootLong  = `files-installer places files shipped inside installed packages at chosen
locations in the project tree, by symlink or by copy, and removes them again
when the package is updated or removed.

Packages declare their files as a list of [source, destination] pairs in
"extra.map". The project's composer.json "extra" section, an optional
files-installer.toml/.yaml and FILES_INSTALLER_* environment variables tune
the deployment. See 'files-installer help topics'.`

	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	MsgDeployShort = "Deploy the mapped files of every installed package"
	MsgDeployLong  = `Deploy reads the installed packages, either from Composer's
vendor/composer/installed.json or from a package manifest given with
--manifest, registers every package that declares a mapping and deploys them
highest priority first.

A failure of one package does not stop the others. The command exits with a
non-zero status when any package failed.`
	MsgDeployExample = `  # Deploy using composer metadata of the current project
  files-installer deploy

  # Copy instead of symlink, replacing existing files
  files-installer deploy --strategy copy --force

  # Deploy packages listed in a manifest, machine readable output
  files-installer deploy --manifest packages.toml --format json`

	MsgCleanShort = "Remove the files deployed by every installed package"
	MsgCleanLong  = `Clean removes what deploy placed in the project: links pointing into the
package, copied files and directories emptied by the removal. Files the
project owns are never touched.`
)

// Flag descriptions
const (
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagProjectDir = "Project root (default: nearest directory holding composer.json)"
	MsgFlagForce      = "Replace existing files at mapping destinations"
	MsgFlagStrategy   = "Deploy strategy: symlink, copy or none"
	MsgFlagFormat     = "Output format: auto, term, text or json"
	MsgFlagManifest   = "Read packages from a TOML or YAML manifest instead of installed.json"
)

// Status and error messages
const (
	MsgFallbackWarning = "Warning: no composer.json found, using %s as project root\n"
	MsgErrFailures     = "%d of %d packages failed"
	MsgErrNoCommand    = "no command specified"
)
