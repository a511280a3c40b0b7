// Package version holds build information injected at link time.
package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/andparsons/composer-project-files-installer/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/andparsons/composer-project-files-installer/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/andparsons/composer-project-files-installer/internal/version.Date={{.Date}}
)

// String renders the version block printed by the version command
func String(program string) string {
	return fmt.Sprintf("%s version %s\n  commit: %s\n  built:  %s\n", program, Version, Commit, Date)
}
