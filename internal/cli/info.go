package cli

import (
	"github.com/arthur-debert/scaff/pkg/bundle"
	"github.com/spf13/cobra"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <bundle-dir>",
		Short: "Describe a template bundle",
		Long:  `Info prints a bundle's manifest: its description, files and options.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bundle.Load(args[0])
			if err != nil {
				return err
			}
			return opts.renderer(cmd.OutOrStdout()).RenderBundle(b)
		},
	}
}
