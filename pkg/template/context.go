package template

import (
	"sort"

	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/arthur-debert/scaff/pkg/logging"
)

// Context carries the bindings, the generated-value cache and the modifier
// set for one processing pass.
//
// A Context is mutated by Resolve and must not be shared between goroutines.
type Context struct {
	bindings  Bindings
	cache     map[string]string
	generator Generator
	modifiers ModifierSet
}

// ContextOption customizes a Context at construction
type ContextOption func(*Context)

// WithModifiers replaces the modifier set with a copy of set
func WithModifiers(set ModifierSet) ContextOption {
	return func(c *Context) {
		c.modifiers = set.Clone()
	}
}

// WithModifier adds or replaces a single modifier
func WithModifier(name string, fn Modifier) ContextOption {
	return func(c *Context) {
		c.modifiers[name] = fn
	}
}

// NewContext creates a Context with an empty cache.
//
// bindings is copied, so later changes to the caller's map are not observed.
// generator may be nil when no generated bindings are used.
func NewContext(bindings Bindings, generator Generator, opts ...ContextOption) *Context {
	c := &Context{
		bindings:  bindings.Clone(),
		cache:     make(map[string]string),
		generator: generator,
		modifiers: DefaultModifiers(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind sets or replaces the binding for name.
// A value already cached for name keeps winning over the new binding.
func (c *Context) Bind(name string, b Binding) {
	c.bindings[name] = b
}

// Binding returns the binding for name
func (c *Context) Binding(name string) (Binding, bool) {
	b, ok := c.bindings[name]
	return b, ok
}

// Cached returns the cached raw value for name, if one was generated
func (c *Context) Cached(name string) (string, bool) {
	v, ok := c.cache[name]
	return v, ok
}

// Names returns the bound symbol names, sorted
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.bindings))
	for name := range c.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent Context with copies of the bindings and the
// current cache. It shares the generator and the modifier functions.
func (c *Context) Clone() *Context {
	cache := make(map[string]string, len(c.cache))
	for k, v := range c.cache {
		cache[k] = v
	}
	return &Context{
		bindings:  c.bindings.Clone(),
		cache:     cache,
		generator: c.generator,
		modifiers: c.modifiers.Clone(),
	}
}

// Resolve returns the value of name passed through modifiers.
//
// Generated values are produced on first resolution and cached; later calls
// return the cached raw value. Literals are looked up on every call and never
// cached. Modifier names are checked before any value is generated, so a
// failing call leaves the cache untouched: an unknown modifier on the first
// use of a generated name does not mint and cache a value, unlike a
// generate, cache, then modify order would.
func (c *Context) Resolve(name string, modifiers []string) (string, error) {
	raw, cached := c.cache[name]
	var b Binding
	if !cached {
		var ok bool
		if b, ok = c.bindings[name]; !ok {
			return "", errors.Newf(errors.ErrUnknownVariable, "unknown variable %q", name).
				WithDetail("name", name)
		}
	}

	pipeline, err := c.modifiers.pipeline(name, modifiers)
	if err != nil {
		return "", err
	}

	if !cached {
		if raw, err = c.materialize(name, b); err != nil {
			return "", err
		}
	}

	for _, fn := range pipeline {
		raw = fn(raw)
	}
	return raw, nil
}

// materialize turns a binding into its raw value, caching generated ones.
func (c *Context) materialize(name string, b Binding) (string, error) {
	if !b.IsGenerated() {
		return b.value, nil
	}

	if c.generator == nil {
		return "", errors.Newf(errors.ErrGenerate, "no generator configured for %q", name).
			WithDetail("name", name).
			WithDetail("tag", b.value)
	}
	v, err := c.generator.Generate(b.value)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrGenerate, "failed to generate %q", name).
			WithDetail("name", name).
			WithDetail("tag", b.value)
	}
	c.cache[name] = v

	logger := logging.GetLogger("template")
	logger.Trace().
		Str("name", name).
		Str("tag", b.value).
		Msg("cached generated value")

	return v, nil
}
