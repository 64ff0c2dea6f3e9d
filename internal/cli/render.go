package cli

import (
	"io"
	"os"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/logging"
	"github.com/arthur-debert/scaff/pkg/template"
	"github.com/spf13/cobra"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		sets      []string
		generates []string
		syntax    string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a template file to stdout",
		Long: `Render processes one template, read from file or stdin, and writes the
result to stdout. Variables come from the configuration's [variables] and
[generated] tables, then from --set and --generate.`,
		Example: `  # Render with literal values
  scaff render greeting.txt --set name=world

  # Generate a fresh uuid for «id»
  echo '«id»' | scaff render --generate id=uuid

  # Xcode style markers
  scaff render --syntax xcode File.swift --set FILENAME=File.swift`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli")

			source, name, err := readTemplate(cmd, args)
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

			bindings := cfg.Bindings()
			generated, err := parseGenerated(generates)
			if err != nil {
				return err
			}
			for k, v := range generated {
				bindings[k] = v
			}
			literals, err := parseAssignments("set", sets)
			if err != nil {
				return err
			}
			for k, v := range literals {
				bindings[k] = template.Literal(v)
			}

			logger.Info().
				Str("template", name).
				Int("bindings", len(bindings)).
				Msg("Rendering template")

			ctx := template.NewContext(bindings, cfg.Generator())
			out, err := template.NewProcessor(tmplSyntax).Process(source, ctx)
			if err != nil {
				return errors.Annotate(err, "file", name)
			}
			return opts.renderer(cmd.OutOrStdout()).RenderOutput(out)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Bind a literal value (name=value, repeatable)")
	cmd.Flags().StringArrayVar(&generates, "generate", nil, "Bind a generated value (name=tag, repeatable)")
	cmd.Flags().StringVar(&syntax, "syntax", "", "Directive syntax preset: default or xcode")

	return cmd
}

// readTemplate returns the template named by args, or stdin when there is none
func readTemplate(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", errors.Wrap(err, errors.ErrFileRead, "failed to read stdin").
				WithDetail("path", "-")
		}
		return string(data), "<stdin>", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", args[0]).
			WithDetail("path", args[0])
	}
	return string(data), args[0], nil
}
