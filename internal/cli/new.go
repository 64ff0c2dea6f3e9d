package cli

import (
	"github.com/arthur-debert/scaff/pkg/bundle"
	"github.com/arthur-debert/scaff/pkg/logging"
	"github.com/arthur-debert/scaff/pkg/template"
	"github.com/spf13/cobra"
)

func newNewCmd(opts *rootOptions) *cobra.Command {
	var (
		sets   []string
		force  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "new <bundle-dir> <out-dir>",
		Short: "Instantiate a template bundle",
		Long: `New renders every file of a template bundle into out-dir. Target paths and
file contents share one set of bindings, so a generated uuid or date has the
same value everywhere in the new project.

Option values come from --set, then the manifest defaults, then the
manifest's generate tags.`,
		Example: `  # Create a project from a bundle
  scaff new ~/bundles/cli-tool ./mytool --set name=mytool

  # Show what would be written
  scaff new ~/bundles/cli-tool ./mytool --set name=mytool --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli")

			cfg, err := opts.loadConfig(nil)
			if err != nil {
				return err
			}
			fallback, err := cfg.TemplateSyntax()
			if err != nil {
				return err
			}

			b, err := bundle.Load(args[0])
			if err != nil {
				return err
			}

			values, err := parseAssignments("set", sets)
			if err != nil {
				return err
			}
			optionBindings, err := b.Manifest.Bindings(values)
			if err != nil {
				return err
			}
			bindings := cfg.Bindings()
			for k, v := range optionBindings {
				bindings[k] = v
			}

			syntax := b.Manifest.TemplateSyntax(fallback)
			logger.Info().
				Str("bundle", b.Root).
				Str("out", args[1]).
				Str("open", syntax.Open).
				Bool("dry_run", dryRun).
				Msg("Instantiating bundle")

			ctx := template.NewContext(bindings, cfg.Generator())
			files, err := b.Render(template.NewProcessor(syntax), ctx)
			if err != nil {
				return err
			}

			written, err := bundle.Write(args[1], files, bundle.WriteOptions{
				Overwrite: force || cfg.Output.Overwrite,
				Skip:      cfg.Output.Skip,
				DryRun:    dryRun,
			})
			if err != nil {
				return err
			}
			return opts.renderer(cmd.OutOrStdout()).RenderFiles(written, dryRun)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set an option value (name=value, repeatable)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite files that already exist")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the files that would be written without writing them")

	return cmd
}
