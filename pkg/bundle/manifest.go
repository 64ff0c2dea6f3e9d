package bundle

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/template"
)

// Manifest describes a template bundle
type Manifest struct {
	Kind        string `toml:"kind" yaml:"kind"`
	Identifier  string `toml:"identifier" yaml:"identifier"`
	Name        string `toml:"name" yaml:"name"`
	Description string `toml:"description" yaml:"description"`
	// Syntax names a template.SyntaxPresets entry; empty means the caller's
	Syntax        string            `toml:"syntax" yaml:"syntax"`
	Options       []Option          `toml:"options" yaml:"options"`
	Files         []FileNode        `toml:"files" yaml:"files"`
	BuildSettings map[string]string `toml:"build_settings" yaml:"build_settings"`
}

// Option is a user-facing value the bundle asks for
type Option struct {
	Identifier  string `toml:"identifier" yaml:"identifier" json:"identifier,omitempty"`
	Name        string `toml:"name" yaml:"name" json:"name,omitempty"`
	Type        string `toml:"type" yaml:"type" json:"type,omitempty"`
	Default     string `toml:"default" yaml:"default" json:"default,omitempty"`
	Generate    string `toml:"generate" yaml:"generate" json:"generate,omitempty"`
	Required    bool   `toml:"required" yaml:"required" json:"required,omitempty"`
	Description string `toml:"description" yaml:"description" json:"description,omitempty"`
}

// FileNode maps a template source to its generated path.
// Both paths are slash-separated; Target may contain directives.
type FileNode struct {
	Source string `toml:"source" yaml:"source" json:"source,omitempty"`
	Target string `toml:"target" yaml:"target" json:"target,omitempty"`
}

// TargetTemplate returns the target path template, defaulting to Source
func (n FileNode) TargetTemplate() string {
	if n.Target == "" {
		return n.Source
	}
	return n.Target
}

// localSource reports whether a slash-separated source stays inside the
// bundle directory
func localSource(source string) bool {
	if path.IsAbs(source) || filepath.IsAbs(source) || filepath.VolumeName(source) != "" {
		return false
	}
	clean := path.Clean(strings.ReplaceAll(source, "\\", "/"))
	return clean != "." && clean != ".." && !strings.HasPrefix(clean, "../")
}

// Validate checks the structural fields the renderer depends on
func (m *Manifest) Validate() error {
	if len(m.Files) == 0 {
		return errors.New(errors.ErrBundleInvalid, "manifest declares no files")
	}
	for i, f := range m.Files {
		if f.Source == "" {
			return errors.Newf(errors.ErrBundleInvalid, "file node %d has no source", i).
				WithDetail("index", i)
		}
		if !localSource(f.Source) {
			return errors.Newf(errors.ErrBundleInvalid, "file source %q is outside the bundle", f.Source).
				WithDetail("index", i).
				WithDetail("file", f.Source)
		}
	}
	seen := make(map[string]bool, len(m.Options))
	for i, opt := range m.Options {
		if opt.Identifier == "" {
			return errors.Newf(errors.ErrBundleInvalid, "option %d has no identifier", i).
				WithDetail("index", i)
		}
		if seen[opt.Identifier] {
			return errors.Newf(errors.ErrBundleInvalid, "option %q declared twice", opt.Identifier).
				WithDetail("name", opt.Identifier)
		}
		seen[opt.Identifier] = true
	}
	if m.Syntax != "" {
		if _, ok := template.SyntaxPresets[m.Syntax]; !ok {
			return errors.Newf(errors.ErrBundleInvalid, "unknown syntax preset %q", m.Syntax).
				WithDetail("field", "syntax")
		}
	}
	return nil
}

// TemplateSyntax returns the bundle's syntax, or fallback when it names none
func (m *Manifest) TemplateSyntax(fallback template.Syntax) template.Syntax {
	if s, ok := template.SyntaxPresets[m.Syntax]; ok {
		return s
	}
	return fallback
}

// Option returns the option with the given identifier
func (m *Manifest) Option(identifier string) (Option, bool) {
	for _, opt := range m.Options {
		if opt.Identifier == identifier {
			return opt, true
		}
	}
	return Option{}, false
}

// Bindings builds the template bindings for one instantiation.
//
// For each option the supplied value wins, then Default, then the Generate
// tag. A required option left without any of them is an error; other options
// bind to the empty string. Build settings and undeclared supplied values
// become literals.
func (m *Manifest) Bindings(values map[string]string) (template.Bindings, error) {
	b := make(template.Bindings, len(m.BuildSettings)+len(m.Options)+len(values))
	for name, value := range m.BuildSettings {
		b[name] = template.Literal(value)
	}

	declared := make(map[string]bool, len(m.Options))
	var missing []string
	for _, opt := range m.Options {
		declared[opt.Identifier] = true
		if v, ok := values[opt.Identifier]; ok {
			b[opt.Identifier] = template.Literal(v)
			continue
		}
		switch {
		case opt.Default != "":
			b[opt.Identifier] = template.Literal(opt.Default)
		case opt.Generate != "":
			b[opt.Identifier] = template.Generated(opt.Generate)
		case opt.Required:
			missing = append(missing, opt.Identifier)
		default:
			b[opt.Identifier] = template.Literal("")
		}
	}
	if len(missing) > 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "missing required options: %v", missing).
			WithDetail("names", missing)
	}

	for name, value := range values {
		if !declared[name] {
			b[name] = template.Literal(value)
		}
	}
	return b, nil
}
