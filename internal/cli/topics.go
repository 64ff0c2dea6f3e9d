package cli

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/scaff/pkg/ui"
	"github.com/spf13/cobra"
)

//go:embed help/*.md
var helpFiles embed.FS

var helpTopics, _ = fs.Sub(helpFiles, "help")

// topicSet holds markdown help topics keyed by file name without extension
type topicSet map[string]string

func loadTopics(fsys fs.FS) (topicSet, error) {
	topics := make(topicSet)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		topics[strings.TrimSuffix(path.Base(p), ".md")] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}
	return topics, nil
}

func (t topicSet) names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// initTopics replaces cobra's help command with one that also knows the
// topics in fsys
func initTopics(rootCmd *cobra.Command, fsys fs.FS) error {
	if fsys == nil {
		return fmt.Errorf("no help topics")
	}
	topics, err := loadTopics(fsys)
	if err != nil {
		return err
	}
	originalHelp := rootCmd.HelpFunc()

	show := func(w io.Writer, name string) bool {
		content, ok := topics[strings.TrimLeft(name, "-")]
		if !ok {
			return false
		}
		if newRenderer(FormatFlag(rootCmd), w).Format() == ui.FormatTerminal {
			content = ui.RenderMarkdown(content, 0)
		}
		fmt.Fprint(w, content)
		return true
	}

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			return append(completions, topics.names()...), cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			switch {
			case len(args) == 0:
				originalHelp(rootCmd, args)
			case args[0] == "topics":
				fmt.Fprintln(out, "Available help topics:")
				for _, name := range topics.names() {
					fmt.Fprintf(out, "  %s\n", name)
				}
				fmt.Fprintf(out, "\nUse '%s help <topic>' to read about a specific topic.\n", rootCmd.Name())
			case show(out, args[0]):
			default:
				target, _, err := rootCmd.Find(args)
				if err != nil || target == nil {
					originalHelp(rootCmd, args)
					return
				}
				originalHelp(target, args)
			}
		},
	}

	rootCmd.SetHelpCommand(helpCmd)
	return nil
}
