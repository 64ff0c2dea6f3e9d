package template

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/scaff/pkg/errors"
)

// sequenceGenerator returns ID-1, ID-2, ... and counts its calls.
type sequenceGenerator struct {
	calls int
}

func (g *sequenceGenerator) Generate(tag string) (string, error) {
	g.calls++
	return fmt.Sprintf("ID-%d", g.calls), nil
}

func TestResolveLiteral(t *testing.T) {
	ctx := NewContext(Bindings{"name": Literal("ada")}, nil)

	got, err := ctx.Resolve("name", nil)
	require.NoError(t, err)
	assert.Equal(t, "ada", got)

	got, err = ctx.Resolve("name", []string{"upper"})
	require.NoError(t, err)
	assert.Equal(t, "ADA", got)

	_, cached := ctx.Cached("name")
	assert.False(t, cached, "literals are never cached")
}

func TestResolveLiteralFollowsRebinding(t *testing.T) {
	ctx := NewContext(Bindings{"name": Literal("ada")}, nil)
	ctx.Bind("name", Literal("grace"))

	got, err := ctx.Resolve("name", nil)
	require.NoError(t, err)
	assert.Equal(t, "grace", got)
}

func TestResolveGeneratedIsCached(t *testing.T) {
	gen := &sequenceGenerator{}
	ctx := NewContext(Bindings{"uuid": Generated("uuid")}, gen)

	first, err := ctx.Resolve("uuid", nil)
	require.NoError(t, err)
	lower, err := ctx.Resolve("uuid", []string{"lower"})
	require.NoError(t, err)
	again, err := ctx.Resolve("uuid", nil)
	require.NoError(t, err)

	assert.Equal(t, "ID-1", first)
	assert.Equal(t, "id-1", lower)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, gen.calls)

	cached, ok := ctx.Cached("uuid")
	assert.True(t, ok)
	assert.Equal(t, "ID-1", cached, "modifiers are not baked into the cache")
}

func TestCachedValueWinsOverRebinding(t *testing.T) {
	gen := &sequenceGenerator{}
	ctx := NewContext(Bindings{"uuid": Generated("uuid")}, gen)

	_, err := ctx.Resolve("uuid", nil)
	require.NoError(t, err)
	ctx.Bind("uuid", Literal("replaced"))

	got, err := ctx.Resolve("uuid", nil)
	require.NoError(t, err)
	assert.Equal(t, "ID-1", got)
}

func TestContextsAreIndependent(t *testing.T) {
	gen := &sequenceGenerator{}
	bindings := Bindings{"uuid": Generated("uuid")}
	a := NewContext(bindings, gen)
	b := NewContext(bindings, gen)

	va, err := a.Resolve("uuid", nil)
	require.NoError(t, err)

	_, seen := b.Cached("uuid")
	assert.False(t, seen)

	vb, err := b.Resolve("uuid", nil)
	require.NoError(t, err)
	assert.NotEqual(t, va, vb)
}

func TestNewContextCopiesBindings(t *testing.T) {
	bindings := Bindings{"name": Literal("ada")}
	ctx := NewContext(bindings, nil)
	bindings["name"] = Literal("changed")
	bindings["extra"] = Literal("x")

	got, err := ctx.Resolve("name", nil)
	require.NoError(t, err)
	assert.Equal(t, "ada", got)

	_, err = ctx.Resolve("extra", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownVariable))
}

func TestCloneIsIndependent(t *testing.T) {
	gen := &sequenceGenerator{}
	ctx := NewContext(Bindings{"a": Generated("uuid"), "b": Generated("uuid")}, gen)
	_, err := ctx.Resolve("a", nil)
	require.NoError(t, err)

	clone := ctx.Clone()
	got, err := clone.Resolve("a", nil)
	require.NoError(t, err)
	assert.Equal(t, "ID-1", got, "clone keeps values cached before cloning")

	_, err = clone.Resolve("b", nil)
	require.NoError(t, err)
	_, inOriginal := ctx.Cached("b")
	assert.False(t, inOriginal)
}

func TestResolveErrors(t *testing.T) {
	t.Run("unknown variable", func(t *testing.T) {
		ctx := NewContext(nil, nil)
		got, err := ctx.Resolve("missing", nil)
		require.Error(t, err)
		assert.Empty(t, got)
		assert.Equal(t, errors.ErrUnknownVariable, errors.GetErrorCode(err))
		assert.Equal(t, "missing", errors.GetErrorDetails(err)["name"])
	})

	t.Run("unknown variable reported before unknown modifier", func(t *testing.T) {
		ctx := NewContext(nil, nil)
		_, err := ctx.Resolve("missing", []string{"nope"})
		assert.Equal(t, errors.ErrUnknownVariable, errors.GetErrorCode(err))
	})

	t.Run("unknown modifier leaves cache empty", func(t *testing.T) {
		gen := &sequenceGenerator{}
		ctx := NewContext(Bindings{"uuid": Generated("uuid")}, gen)
		_, err := ctx.Resolve("uuid", []string{"upper", "shout"})
		require.Error(t, err)
		assert.Equal(t, errors.ErrUnknownModifier, errors.GetErrorCode(err))
		assert.Equal(t, "shout", errors.GetErrorDetails(err)["name"])
		assert.Equal(t, "uuid", errors.GetErrorDetails(err)["variable"])

		_, cached := ctx.Cached("uuid")
		assert.False(t, cached)
		assert.Equal(t, 0, gen.calls)
	})

	t.Run("generated binding without generator", func(t *testing.T) {
		ctx := NewContext(Bindings{"uuid": Generated("uuid")}, nil)
		_, err := ctx.Resolve("uuid", nil)
		assert.Equal(t, errors.ErrGenerate, errors.GetErrorCode(err))
	})

	t.Run("generator failure is wrapped", func(t *testing.T) {
		ctx := NewContext(Bindings{"when": Generated("tomorrow")}, NewStandardGenerator())
		_, err := ctx.Resolve("when", nil)
		require.Error(t, err)
		assert.Equal(t, errors.ErrGenerate, errors.GetErrorCode(err))
		assert.Equal(t, errors.ErrUnknownGenerator, errors.Root(err).Code)
		assert.Equal(t, "when", errors.GetErrorDetails(err)["name"])
		assert.Equal(t, "tomorrow", errors.GetErrorDetails(err)["tag"])

		_, cached := ctx.Cached("when")
		assert.False(t, cached)
	})
}

func TestContextModifierOptions(t *testing.T) {
	reverse := func(s string) string {
		r := []rune(s)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return string(r)
	}

	t.Run("with modifier adds to defaults", func(t *testing.T) {
		ctx := NewContext(Bindings{"name": Literal("ada")}, nil, WithModifier("reverse", reverse))
		got, err := ctx.Resolve("name", []string{"reverse", "upper"})
		require.NoError(t, err)
		assert.Equal(t, "ADA", got)

		got, err = ctx.Resolve("name", []string{"capitalize", "reverse"})
		require.NoError(t, err)
		assert.Equal(t, "adA", got)
	})

	t.Run("with modifiers replaces defaults", func(t *testing.T) {
		ctx := NewContext(Bindings{"name": Literal("ada")}, nil,
			WithModifiers(ModifierSet{"shout": strings.ToUpper}))
		got, err := ctx.Resolve("name", []string{"shout"})
		require.NoError(t, err)
		assert.Equal(t, "ADA", got)

		_, err = ctx.Resolve("name", []string{"lower"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownModifier))
	})

	t.Run("with modifier does not leak into other contexts", func(t *testing.T) {
		NewContext(nil, nil, WithModifier("reverse", reverse))
		ctx := NewContext(Bindings{"name": Literal("ada")}, nil)
		_, err := ctx.Resolve("name", []string{"reverse"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownModifier))
	})
}

func TestContextNames(t *testing.T) {
	ctx := NewContext(LiteralBindings(map[string]string{"b": "2", "a": "1"}), nil)
	assert.Equal(t, []string{"a", "b"}, ctx.Names())

	b, ok := ctx.Binding("a")
	require.True(t, ok)
	assert.False(t, b.IsGenerated())
	assert.Equal(t, "1", b.Value())
	assert.Equal(t, "<generate uuid>", Generated("uuid").String())
}
