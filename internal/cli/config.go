package cli

import (
	"fmt"

	"github.com/arthur-debert/scaff/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration",
		Long: `Config prints the built-in defaults. Copy them to
$XDG_CONFIG_HOME/scaff/config.toml or a project .scaff.toml and edit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultConfigContent())
			return err
		},
	}
}
