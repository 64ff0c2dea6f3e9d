package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/scaff/internal/cli"
	"github.com/arthur-debert/scaff/internal/version"
)

func main() {
	header := &doc.GenManHeader{
		Title:   "SCAFF",
		Section: "1",
		Source:  "scaff " + version.Version,
		Manual:  "scaff manual",
	}

	if err := doc.GenMan(cli.NewRootCmd(), header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
