package template

import (
	"strings"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/logging"
)

// Processor renders templates written in one Syntax
type Processor struct {
	syntax Syntax
}

// NewProcessor creates a Processor for syntax
func NewProcessor(syntax Syntax) *Processor {
	return &Processor{syntax: syntax}
}

// Syntax returns the processor's syntax
func (p *Processor) Syntax() Syntax {
	return p.syntax
}

// Tokenize splits source using the processor's syntax
func (p *Processor) Tokenize(source string) ([]Token, error) {
	return p.syntax.Tokenize(source)
}

var defaultProcessor = NewProcessor(DefaultSyntax)

// Process renders tmpl with DefaultSyntax. See (*Processor).Process.
func Process(tmpl string, ctx *Context) (string, error) {
	return defaultProcessor.Process(tmpl, ctx)
}

// Process tokenizes tmpl and resolves each directive through ctx, in source
// order. Text tokens are copied verbatim.
//
// ctx is mutated: generated values resolved here stay cached in it. On the
// first error the remaining tokens are skipped and no output is returned.
// A nil ctx behaves like an empty context.
func (p *Processor) Process(tmpl string, ctx *Context) (string, error) {
	logger := logging.GetLogger("template")

	tokens, err := p.syntax.Tokenize(tmpl)
	if err != nil {
		logger.Debug().Err(err).Msg("tokenize failed")
		return "", err
	}
	if ctx == nil {
		ctx = NewContext(nil, nil)
	}

	var out strings.Builder
	out.Grow(len(tmpl))
	directives := 0
	for _, tok := range tokens {
		if tok.Kind == TokenText {
			out.WriteString(tok.Content)
			continue
		}
		value, err := ctx.Resolve(tok.Name, tok.Modifiers)
		if err != nil {
			logger.Debug().
				Err(err).
				Str("name", tok.Name).
				Int("offset", tok.Offset).
				Msg("resolve failed")
			return "", errors.Annotate(err, "offset", tok.Offset)
		}
		out.WriteString(value)
		directives++
	}

	logger.Trace().
		Int("tokens", len(tokens)).
		Int("directives", directives).
		Msg("template processed")

	return out.String(), nil
}
