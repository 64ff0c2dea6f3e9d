package template

import (
	"strings"

	"github.com/arthur-debert/scaff/pkg/errors"
)

// Tokenize splits source into tokens using DefaultSyntax.
func Tokenize(source string) ([]Token, error) {
	return DefaultSyntax.Tokenize(source)
}

// Tokenize splits source into text and directive tokens.
//
// Empty text tokens are never emitted, so adjacent directives produce adjacent
// directive tokens. An opening marker without a closing marker fails with
// ErrUnterminatedDirective at the opening marker's offset.
func (s Syntax) Tokenize(source string) ([]Token, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var tokens []Token
	pos := 0
	for pos < len(source) {
		rel := strings.Index(source[pos:], s.Open)
		if rel < 0 {
			break
		}
		open := pos + rel
		if open > pos {
			tokens = append(tokens, textToken(source, pos, open))
		}

		interiorStart := open + len(s.Open)
		closeRel := strings.Index(source[interiorStart:], s.Close)
		if closeRel < 0 {
			return nil, errors.Newf(errors.ErrUnterminatedDirective,
				"directive opened at offset %d is never closed", open).
				WithDetail("offset", open)
		}
		interiorEnd := interiorStart + closeRel
		end := interiorEnd + len(s.Close)

		name, modifiers, err := s.parseInterior(source[interiorStart:interiorEnd], open)
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, Token{
			Kind:      TokenDirective,
			Offset:    open,
			Source:    source[open:end],
			Name:      name,
			Modifiers: modifiers,
		})
		pos = end
	}

	if pos < len(source) {
		tokens = append(tokens, textToken(source, pos, len(source)))
	}
	return tokens, nil
}

// parseInterior splits a directive interior into its name and modifiers.
// offset is the position of the opening marker, used for error reporting.
func (s Syntax) parseInterior(interior string, offset int) (string, []string, error) {
	namePart, pipeline, hasPipeline := strings.Cut(interior, s.ModifierSeparator)

	name := strings.TrimSpace(namePart)
	if name == "" {
		return "", nil, errors.Newf(errors.ErrEmptyDirectiveName,
			"directive at offset %d has no name", offset).
			WithDetail("offset", offset)
	}
	if !hasPipeline {
		return name, nil, nil
	}

	parts := strings.Split(pipeline, s.ModifierDelimiter)
	modifiers := make([]string, 0, len(parts))
	for _, part := range parts {
		m := strings.TrimSpace(part)
		if m == "" {
			return "", nil, errors.Newf(errors.ErrEmptyModifier,
				"directive %q at offset %d has an empty modifier", name, offset).
				WithDetail("offset", offset).
				WithDetail("name", name)
		}
		modifiers = append(modifiers, m)
	}
	return name, modifiers, nil
}

func textToken(source string, start, end int) Token {
	return Token{
		Kind:    TokenText,
		Offset:  start,
		Source:  source[start:end],
		Content: source[start:end],
	}
}
