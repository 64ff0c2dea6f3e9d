package template

import (
	"fmt"
	"strings"
)

// TokenKind tags the variant held by a Token
type TokenKind int

const (
	// TokenText is a verbatim run of template source
	TokenText TokenKind = iota
	// TokenDirective is a parsed placeholder
	TokenDirective
)

// String returns the kind name
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenDirective:
		return "directive"
	default:
		return "unknown"
	}
}

// Token is one span of a tokenized template.
//
// Offset and Source are set for both kinds. Content is only meaningful for
// TokenText; Name and Modifiers only for TokenDirective.
type Token struct {
	Kind TokenKind
	// Offset is the byte offset of the token's first byte in the source
	Offset int
	// Source is the exact source extent covered by the token
	Source string

	Content string

	Name      string
	Modifiers []string
}

// IsDirective reports whether the token is a directive
func (t Token) IsDirective() bool {
	return t.Kind == TokenDirective
}

// String renders the token for debugging output
func (t Token) String() string {
	switch t.Kind {
	case TokenText:
		return fmt.Sprintf("%d text %q", t.Offset, t.Content)
	case TokenDirective:
		if len(t.Modifiers) == 0 {
			return fmt.Sprintf("%d directive %s", t.Offset, t.Name)
		}
		return fmt.Sprintf("%d directive %s [%s]", t.Offset, t.Name, strings.Join(t.Modifiers, " "))
	default:
		return fmt.Sprintf("%d unknown %q", t.Offset, t.Source)
	}
}

// Reconstruct concatenates the source extents of tokens in order.
// For any successfully tokenized template it returns the template unchanged.
func Reconstruct(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Source)
	}
	return b.String()
}

// Directives returns the distinct directive names in order of first
// appearance.
func Directives(tokens []Token) []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range tokens {
		if t.Kind != TokenDirective || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		names = append(names, t.Name)
	}
	return names
}
