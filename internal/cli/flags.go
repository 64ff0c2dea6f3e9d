package cli

import (
	"strings"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/template"
)

// parseAssignments turns repeated key=value flags into a map. The value may
// itself contain "=".
func parseAssignments(flag string, pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "--%s expects key=value, got %q", flag, pair).
				WithDetail("flag", flag)
		}
		values[key] = value
	}
	return values, nil
}

// parseGenerated turns --generate name=tag flags into generated bindings,
// checking each tag against the standard generator
func parseGenerated(pairs []string) (template.Bindings, error) {
	tags, err := parseAssignments("generate", pairs)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(template.GeneratorTags))
	for _, tag := range template.GeneratorTags {
		known[tag] = true
	}
	b := make(template.Bindings, len(tags))
	for name, tag := range tags {
		if !known[tag] {
			return nil, errors.Newf(errors.ErrUnknownGenerator, "unknown generator %q for %s", tag, name).
				WithDetail("tag", tag).
				WithDetail("name", name)
		}
		b[name] = template.Generated(tag)
	}
	return b, nil
}
