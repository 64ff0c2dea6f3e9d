package template

import (
	"github.com/arthur-debert/scaff/pkg/errors"
)

// Syntax fixes the lexical markers of a directive.
type Syntax struct {
	// Open and Close delimit a directive span.
	Open  string
	Close string
	// ModifierSeparator splits the name from the modifier pipeline.
	ModifierSeparator string
	// ModifierDelimiter splits modifiers within the pipeline.
	ModifierDelimiter string
}

var (
	// DefaultSyntax uses guillemets: «name:mod1,mod2»
	DefaultSyntax = Syntax{
		Open:              "«",
		Close:             "»",
		ModifierSeparator: ":",
		ModifierDelimiter: ",",
	}

	// XcodeSyntax uses triple underscores: ___NAME:mod1,mod2___
	XcodeSyntax = Syntax{
		Open:              "___",
		Close:             "___",
		ModifierSeparator: ":",
		ModifierDelimiter: ",",
	}
)

// SyntaxPresets maps preset names accepted by configuration to syntaxes.
var SyntaxPresets = map[string]Syntax{
	"default": DefaultSyntax,
	"xcode":   XcodeSyntax,
}

// Validate checks that every marker is set and that the pipeline markers are
// distinguishable.
func (s Syntax) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"open", s.Open},
		{"close", s.Close},
		{"modifier_separator", s.ModifierSeparator},
		{"modifier_delimiter", s.ModifierDelimiter},
	}
	for _, f := range fields {
		if f.value == "" {
			return errors.Newf(errors.ErrInvalidSyntax, "syntax marker %q must not be empty", f.name).
				WithDetail("field", f.name)
		}
	}
	if s.ModifierSeparator == s.ModifierDelimiter {
		return errors.New(errors.ErrInvalidSyntax, "modifier separator and delimiter must differ").
			WithDetail("field", "modifier_delimiter")
	}
	return nil
}
