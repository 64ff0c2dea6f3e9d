// Package cli wires scaff's cobra commands.
package cli

import (
	"io"
	"os"

	"github.com/arthur-debert/scaff/internal/version"
	"github.com/arthur-debert/scaff/pkg/config"
	"github.com/arthur-debert/scaff/pkg/logging"
	"github.com/arthur-debert/scaff/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	verbosity  int
	configFile string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "scaff",
		Short: "Render templates and instantiate template bundles",
		Long: `scaff fills text templates whose directives («name» or «name:upper,snake»)
are replaced by bound variables, generated values (uuid, date, year, time)
and modifier pipelines, and instantiates whole template bundles into new
project directories.`,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			_, err := ui.ParseFormat(opts.format)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Extra configuration file layered over user and project config")
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", "Output format: auto, term, text or json")

	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newNewCmd(opts))
	rootCmd.AddCommand(newInfoCmd(opts))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if err := initTopics(rootCmd, helpTopics); err != nil {
		log.Debug().Err(err).Msg("help topics unavailable")
	}

	return rootCmd
}

// loadConfig merges configuration for the current working directory
func (o *rootOptions) loadConfig(overrides map[string]interface{}) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return config.Load(config.LoadOptions{
		ProjectDir: cwd,
		ConfigFile: o.configFile,
		Overrides:  overrides,
	})
}

// renderer builds the output renderer for w, detecting the format when the
// flag is left at auto
func (o *rootOptions) renderer(w io.Writer) *ui.Renderer {
	return newRenderer(o.format, w)
}

func newRenderer(flag string, w io.Writer) *ui.Renderer {
	format, err := ui.ParseFormat(flag)
	if err != nil {
		format = ui.FormatAuto
	}
	if format == ui.FormatAuto {
		if f, ok := w.(*os.File); ok {
			format = ui.DetectFormat(f)
		}
	}
	return ui.NewRenderer(format, w)
}

// FormatFlag returns the --format value of an executed root command, used by
// main to render the error it returns
func FormatFlag(cmd *cobra.Command) string {
	flag := cmd.PersistentFlags().Lookup("format")
	if flag == nil {
		return "auto"
	}
	return flag.Value.String()
}

// RenderError reports err on w in the format selected by the root command's
// --format flag
func RenderError(cmd *cobra.Command, w io.Writer, err error) {
	if rerr := newRenderer(FormatFlag(cmd), w).RenderError(err); rerr != nil {
		log.Error().Err(rerr).Msg("Failed to render error")
	}
}
