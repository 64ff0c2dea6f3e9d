package cli

import (
	"github.com/spf13/cobra"
)

func newTokensCmd(opts *rootOptions) *cobra.Command {
	var syntax string

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a template",
		Long: `Tokens splits a template into text and directive tokens without resolving
anything, and prints each token with its byte offset.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := readTemplate(cmd, args)
			if err != nil {
				return err
			}

			var overrides map[string]interface{}
			if syntax != "" {
				overrides = map[string]interface{}{"syntax.preset": syntax}
			}
			cfg, err := opts.loadConfig(overrides)
			if err != nil {
				return err
			}
			tmplSyntax, err := cfg.TemplateSyntax()
			if err != nil {
				return err
			}

			tokens, err := tmplSyntax.Tokenize(source)
			if err != nil {
				return err
			}
			return opts.renderer(cmd.OutOrStdout()).RenderTokens(tokens)
		},
	}

	cmd.Flags().StringVar(&syntax, "syntax", "", "Directive syntax preset: default or xcode")
	return cmd
}
