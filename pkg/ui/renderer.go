package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/scaff/pkg/bundle"
	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/template"
	"github.com/pterm/pterm"
)

// Renderer writes command results to an output stream in a fixed format
type Renderer struct {
	format Format
	out    io.Writer
	// Width is the markdown wrap width for terminal output; 0 keeps the default
	Width int
}

// NewRenderer creates a renderer. FormatAuto is treated as plain text since
// the caller is expected to resolve it with DetectFormat first.
func NewRenderer(format Format, out io.Writer) *Renderer {
	if format == FormatAuto {
		format = FormatText
	}
	return &Renderer{format: format, out: out}
}

// Format returns the resolved output format
func (r *Renderer) Format() Format {
	return r.format
}

// RenderOutput writes processed template output verbatim in every format
// except JSON, where it is wrapped in an object.
func (r *Renderer) RenderOutput(output string) error {
	if r.format == FormatJSON {
		return r.writeJSON(map[string]string{"output": output})
	}
	_, err := io.WriteString(r.out, output)
	return err
}

// RenderMessage writes a single informational line
func (r *Renderer) RenderMessage(msg string) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(map[string]string{"message": msg})
	case FormatTerminal:
		return r.println(GetStyle("Success").Render(msg))
	default:
		return r.println(msg)
	}
}

type errorPayload struct {
	Error   string                 `json:"error"`
	Code    errors.ErrorCode       `json:"code"`
	Root    errors.ErrorCode       `json:"root,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RenderError reports err with its code and details
func (r *Renderer) RenderError(err error) error {
	payload := errorPayload{
		Error:   err.Error(),
		Code:    errors.GetErrorCode(err),
		Details: errors.GetErrorDetails(err),
	}
	if root := errors.Root(err); root != nil && root.Code != payload.Code {
		payload.Root = root.Code
	}

	if r.format == FormatJSON {
		return r.writeJSON(payload)
	}

	line := "Error: " + payload.Error
	detail := formatDetails(payload.Details)
	if r.format == FormatTerminal {
		line = GetStyle("Error").Render(line)
		if detail != "" {
			detail = GetStyle("Muted").Render(detail)
		}
	}
	if err := r.println(line); err != nil {
		return err
	}
	if detail != "" {
		return r.println("  " + detail)
	}
	return nil
}

func formatDetails(details map[string]interface{}) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(parts, " ")
}

type tokenPayload struct {
	Kind      string   `json:"kind"`
	Offset    int      `json:"offset"`
	Source    string   `json:"source"`
	Content   string   `json:"content,omitempty"`
	Name      string   `json:"name,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// RenderTokens lists a tokenized template, one token per line
func (r *Renderer) RenderTokens(tokens []template.Token) error {
	if r.format == FormatJSON {
		payload := make([]tokenPayload, 0, len(tokens))
		for _, t := range tokens {
			payload = append(payload, tokenPayload{
				Kind:      t.Kind.String(),
				Offset:    t.Offset,
				Source:    t.Source,
				Content:   t.Content,
				Name:      t.Name,
				Modifiers: t.Modifiers,
			})
		}
		return r.writeJSON(payload)
	}

	for _, t := range tokens {
		line := t.String()
		if r.format == FormatTerminal && t.IsDirective() {
			line = GetStyle("Directive").Render(line)
		}
		if err := r.println(line); err != nil {
			return err
		}
	}
	return nil
}

// RenderFiles lists the paths produced by a bundle run
func (r *Renderer) RenderFiles(paths []string, dryRun bool) error {
	if r.format == FormatJSON {
		return r.writeJSON(map[string]interface{}{"files": paths, "dry_run": dryRun})
	}

	verb := "created"
	if dryRun {
		verb = "would create"
	}
	for _, p := range paths {
		name := p
		if r.format == FormatTerminal {
			name = GetStyle("FilePath").Render(p)
		}
		if err := r.println(fmt.Sprintf("%s %s", verb, name)); err != nil {
			return err
		}
	}
	return nil
}

type bundlePayload struct {
	Identifier  string            `json:"identifier,omitempty"`
	Name        string            `json:"name,omitempty"`
	Kind        string            `json:"kind,omitempty"`
	Description string            `json:"description,omitempty"`
	Manifest    string            `json:"manifest"`
	Syntax      string            `json:"syntax,omitempty"`
	Options     []bundle.Option   `json:"options,omitempty"`
	Files       []bundle.FileNode `json:"files"`
}

// RenderBundle describes a bundle's manifest
func (r *Renderer) RenderBundle(b *bundle.Bundle) error {
	m := b.Manifest
	switch r.format {
	case FormatJSON:
		return r.writeJSON(bundlePayload{
			Identifier:  m.Identifier,
			Name:        m.Name,
			Kind:        m.Kind,
			Description: m.Description,
			Manifest:    b.ManifestPath,
			Syntax:      m.Syntax,
			Options:     m.Options,
			Files:       m.Files,
		})
	case FormatTerminal:
		if _, err := io.WriteString(r.out, RenderMarkdown(bundleMarkdown(b), r.Width)); err != nil {
			return err
		}
		if len(m.Options) == 0 {
			return nil
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(optionTable(m.Options)).Srender()
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to render options table")
		}
		return r.println(table)
	default:
		if _, err := io.WriteString(r.out, bundleMarkdown(b)); err != nil {
			return err
		}
		for _, row := range optionTable(m.Options) {
			if err := r.println(strings.Join(row, "\t")); err != nil {
				return err
			}
		}
		return nil
	}
}

func bundleMarkdown(b *bundle.Bundle) string {
	m := b.Manifest
	title := m.Name
	if title == "" {
		title = m.Identifier
	}
	if title == "" {
		title = b.Root
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if m.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", m.Description)
	}
	if m.Identifier != "" {
		fmt.Fprintf(&sb, "- identifier: `%s`\n", m.Identifier)
	}
	if m.Kind != "" {
		fmt.Fprintf(&sb, "- kind: `%s`\n", m.Kind)
	}
	if m.Syntax != "" {
		fmt.Fprintf(&sb, "- syntax: `%s`\n", m.Syntax)
	}
	fmt.Fprintf(&sb, "- manifest: `%s`\n\n", b.ManifestPath)

	sb.WriteString("## Files\n\n")
	for _, f := range m.Files {
		if f.Target == "" || f.Target == f.Source {
			fmt.Fprintf(&sb, "- `%s`\n", f.Source)
		} else {
			fmt.Fprintf(&sb, "- `%s` → `%s`\n", f.Source, f.Target)
		}
	}
	if len(m.Options) > 0 {
		sb.WriteString("\n## Options\n\n")
	}
	return sb.String()
}

func optionTable(options []bundle.Option) pterm.TableData {
	if len(options) == 0 {
		return nil
	}
	data := pterm.TableData{{"Identifier", "Default", "Generate", "Required", "Description"}}
	for _, opt := range options {
		required := ""
		if opt.Required {
			required = "yes"
		}
		data = append(data, []string{opt.Identifier, opt.Default, opt.Generate, required, opt.Description})
	}
	return data
}

func (r *Renderer) println(line string) error {
	_, err := fmt.Fprintln(r.out, line)
	return err
}

func (r *Renderer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode JSON output")
	}
	return nil
}
