// Package paths provides centralized path handling for files-installer.
//
// It resolves the project layout the installer works in:
//
//   - Project root discovery (explicit flag, FILES_INSTALLER_PROJECT_DIR, the
//     nearest directory holding composer.json, or the working directory)
//   - The Composer vendor directory (COMPOSER_VENDOR_DIR or <root>/vendor)
//   - XDG state and config locations for the log file and user configuration
//   - Containment checks that keep destinations inside the project root
//
// # Environment Variables
//
//   - FILES_INSTALLER_PROJECT_DIR: project root override
//   - FILES_INSTALLER_STATE_DIR: state directory override (default: $XDG_STATE_HOME/files-installer)
//   - COMPOSER_VENDOR_DIR: vendor directory, relative to the project root when not absolute
package paths
