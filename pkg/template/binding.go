package template

// bindingKind distinguishes literal bindings from generator-backed ones
type bindingKind int

const (
	bindingLiteral bindingKind = iota
	bindingGenerated
)

// Binding is the value source for one symbol: either a literal string or a
// generator tag evaluated on first use.
type Binding struct {
	kind  bindingKind
	value string
}

// Literal binds a symbol to a fixed value
func Literal(value string) Binding {
	return Binding{kind: bindingLiteral, value: value}
}

// Generated binds a symbol to a generator tag such as "uuid"
func Generated(tag string) Binding {
	return Binding{kind: bindingGenerated, value: tag}
}

// IsGenerated reports whether the binding is generator-backed
func (b Binding) IsGenerated() bool {
	return b.kind == bindingGenerated
}

// Value returns the literal value, or the generator tag for generated bindings
func (b Binding) Value() string {
	return b.value
}

// String describes the binding for diagnostics
func (b Binding) String() string {
	if b.IsGenerated() {
		return "<generate " + b.value + ">"
	}
	return b.value
}

// Bindings maps symbol names to their bindings
type Bindings map[string]Binding

// LiteralBindings builds Bindings from plain string values
func LiteralBindings(values map[string]string) Bindings {
	b := make(Bindings, len(values))
	for k, v := range values {
		b[k] = Literal(v)
	}
	return b
}

// Clone returns an independent copy
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
