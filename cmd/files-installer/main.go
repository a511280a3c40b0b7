package main

import (
	"fmt"
	"os"

	"github.com/andparsons/composer-project-files-installer/internal/cli"
	"github.com/andparsons/composer-project-files-installer/pkg/ui"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Style("Error").Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
