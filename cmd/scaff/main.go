package main

import (
	"os"

	"github.com/arthur-debert/scaff/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		cli.RenderError(rootCmd, os.Stderr, err)
		os.Exit(1)
	}
}
