package autocomplete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retroauto/go-retroscript/parser"
)

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestKeywordPrefix(t *testing.T) {
	p := NewProvider()
	got := labels(p.Completions("re"))

	assert.Contains(t, got, "repeat")
	assert.Contains(t, got, "retry")
	assert.Contains(t, got, "return")
	assert.NotContains(t, got, "while")
}

func TestEmptyPrefixReturnsVocabulary(t *testing.T) {
	p := NewProvider()
	got := p.Completions("")

	require.GreaterOrEqual(t, len(got), len(keywordItems)+len(builtinItems))
	assert.Equal(t, "flow", got[0].Label)
}

func TestBuiltinSnippet(t *testing.T) {
	p := NewProvider()
	items := p.Completions("wait_i")

	require.Len(t, items, 1)
	assert.Equal(t, KindBuiltin, items[0].Kind)
	assert.Contains(t, items[0].Snippet, "${1:asset}")
}

func TestFlowsFromProgram(t *testing.T) {
	program, diags := parser.Parse("flow main {\n  run_flow(\"login\");\n}\nflow login {\n  click(1, 2);\n}\n")
	require.Empty(t, diags)

	p := NewProvider()
	p.UpdateContext(program)
	got := labels(p.Completions("lo"))

	assert.Contains(t, got, "login")
	assert.Contains(t, got, "log")
}

func TestVariablesFromProgram(t *testing.T) {
	program, diags := parser.Parse("const MAX = 5;\nflow main {\n  let count = 0;\n  $total = 1;\n}\n")
	require.Empty(t, diags)

	p := NewProvider()
	p.UpdateContext(program)

	got := labels(p.Completions("$"))
	assert.ElementsMatch(t, []string{"$MAX", "$count", "$total"}, got)

	assert.Equal(t, []string{"$count"}, labels(p.Completions("$co")))
}

func TestLabelsFromProgram(t *testing.T) {
	program, diags := parser.Parse("flow main {\n  label start:\n  click(1, 2);\n  goto start;\n}\n")
	require.Empty(t, diags)

	p := NewProvider()
	p.UpdateContext(program)
	got := p.Completions("sta")

	require.Len(t, got, 1)
	assert.Equal(t, "start", got[0].Label)
	assert.Equal(t, KindLabel, got[0].Kind)
}

func TestNilProgramKeepsContext(t *testing.T) {
	program, diags := parser.Parse("flow setup {\n  sleep(1s);\n}\n")
	require.Empty(t, diags)

	p := NewProvider()
	p.UpdateContext(program)
	p.UpdateContext(nil)

	assert.Contains(t, labels(p.Completions("set")), "setup")
}

func TestAssetCompletions(t *testing.T) {
	p := NewProvider()
	p.SetAssets([]string{"ok_button", "cancel_button", "logo"})

	got := labels(p.AssetCompletions(""))
	assert.Equal(t, []string{"cancel_button", "logo", "ok_button"}, got)

	got = labels(p.AssetCompletions("ok"))
	assert.Equal(t, []string{"ok_button"}, got)
}

func TestPrefixCaseInsensitive(t *testing.T) {
	p := NewProvider()
	got := labels(p.Completions("FL"))

	assert.Contains(t, got, "flow")
}
