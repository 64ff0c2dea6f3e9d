package template

import (
	"path"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arthur-debert/scaff/pkg/errors"
)

// Modifier is a pure string transformation applied to a resolved value
type Modifier func(string) string

// ModifierSet maps modifier names to their implementations
type ModifierSet map[string]Modifier

// DefaultModifiers returns a fresh set holding the built-in modifiers.
// Casers keep state, so the case modifiers build one per call.
func DefaultModifiers() ModifierSet {
	return ModifierSet{
		"upper":      func(s string) string { return cases.Upper(language.Und).String(s) },
		"lower":      func(s string) string { return cases.Lower(language.Und).String(s) },
		"title":      func(s string) string { return cases.Title(language.Und).String(s) },
		"capitalize": capitalize,
		"trim":       strings.TrimSpace,
		"identifier": identifier,
		"rfc1034":    rfc1034,
		"camel":      camel,
		"pascal":     pascal,
		"snake":      func(s string) string { return joinWords(s, "_") },
		"kebab":      func(s string) string { return joinWords(s, "-") },
		"xml":        xmlEscaper.Replace,
		"basename":   basename,
	}
}

// Clone returns an independent copy of the set
func (m ModifierSet) Clone() ModifierSet {
	out := make(ModifierSet, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Names returns the modifier names, sorted
func (m ModifierSet) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pipeline looks up every modifier before any of them runs.
func (m ModifierSet) pipeline(variable string, names []string) ([]Modifier, error) {
	if len(names) == 0 {
		return nil, nil
	}
	fns := make([]Modifier, 0, len(names))
	for _, name := range names {
		fn, ok := m[name]
		if !ok {
			return nil, errors.Newf(errors.ErrUnknownModifier, "unknown modifier %q", name).
				WithDetail("name", name).
				WithDetail("variable", variable)
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// identifier maps s onto a C99 extended identifier: letters, digits and
// underscores, never starting with a digit.
func identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// rfc1034 keeps ASCII letters, digits, hyphens and dots, as bundle
// identifiers require.
func rfc1034(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.'):
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

func basename(s string) string {
	base := path.Base(s)
	if base == "." || base == "/" {
		return s
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// splitWords breaks s at non-alphanumerics, lower-to-upper transitions and
// the end of an acronym ("HTTPServer" -> "HTTP", "Server").
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func joinWords(s, sep string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}

func camel(s string) string {
	words := splitWords(s)
	for i, w := range words {
		if i == 0 {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = capitalize(strings.ToLower(w))
	}
	return strings.Join(words, "")
}

func pascal(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = capitalize(strings.ToLower(w))
	}
	return strings.Join(words, "")
}
