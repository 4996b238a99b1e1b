package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retroauto/go-retroscript/diag"
	"github.com/retroauto/go-retroscript/parser"
)

func analyzeSource(t *testing.T, src string, assets []string) []diag.Diagnostic {
	t.Helper()
	program, diags := parser.Parse(src)
	require.False(t, diag.HasErrors(diags), "parse errors: %v", diags)
	return Analyze(program, assets)
}

func codes(diags []diag.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestUnknownAssetWithQuickFix(t *testing.T) {
	diags := analyzeSource(t, `flow main { wait_image("missing_btn"); }`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeUnknownAsset, diags[0].Code)
	require.Len(t, diags[0].QuickFixes, 1)
	assert.Equal(t, diag.FixCaptureAsset, diags[0].QuickFixes[0].Kind)
	assert.Equal(t, "missing_btn", diags[0].QuickFixes[0].Target)
}

func TestKnownAssetClean(t *testing.T) {
	diags := analyzeSource(t, `flow main { wait_image("ok_btn"); }`, []string{"ok_btn"})
	assert.Empty(t, diags)
}

func TestWaitAnyAssetList(t *testing.T) {
	src := `flow main { wait_any(["a", "b", "c"]); }`
	diags := analyzeSource(t, src, []string{"b"})
	assert.Equal(t, []string{diag.CodeUnknownAsset, diag.CodeUnknownAsset}, codes(diags))
}

func TestInterruptAsset(t *testing.T) {
	src := `interrupt { priority 1 when image "popup" { click(1, 2); } }`
	diags := analyzeSource(t, src, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeUnknownAsset, diags[0].Code)

	diags = analyzeSource(t, src, []string{"popup"})
	assert.Empty(t, diags)
}

func TestUnknownFlow(t *testing.T) {
	diags := analyzeSource(t, `flow main { run_flow("helper"); }`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeUnknownFlow, diags[0].Code)
}

func TestKnownFlow(t *testing.T) {
	src := `flow main { run_flow("helper"); } flow helper { sleep(1s); }`
	assert.Empty(t, analyzeSource(t, src, nil))
}

func TestLabelsAreFlowScoped(t *testing.T) {
	src := `flow a { goto x; } flow b { label x: }`
	diags := analyzeSource(t, src, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeUnknownLabel, diags[0].Code)

	assert.Empty(t, analyzeSource(t, `flow a { label x: goto x; }`, nil))
}

func TestGotoLabelInNestedBlock(t *testing.T) {
	src := `flow main {
  goto inner;
  if x { label inner: click(1, 2); }
}`
	assert.Empty(t, analyzeSource(t, src, nil))
}

func TestDuplicateLabel(t *testing.T) {
	src := `flow main { label x: label x: }`
	diags := analyzeSource(t, src, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeDuplicateLabel, diags[0].Code)
	assert.Contains(t, diags[0].Hint, "line 1")
}

func TestDuplicateFlow(t *testing.T) {
	src := `flow main { sleep(1s); }
flow main { sleep(2s); }`
	diags := analyzeSource(t, src, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeDuplicateFlow, diags[0].Code)
	assert.Equal(t, 2, diags[0].Span.StartLine)
}

func TestMissingArgument(t *testing.T) {
	diags := analyzeSource(t, `flow main { click(100); }`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeMissingArgument, diags[0].Code)
	assert.Contains(t, diags[0].Message, `"y"`)
}

func TestKwargSatisfiesRequiredArg(t *testing.T) {
	assert.Empty(t, analyzeSource(t, `flow main { click(100, y=200); }`, nil))
}

func TestHotkeyIsVariadic(t *testing.T) {
	assert.Empty(t, analyzeSource(t, `flow main { hotkey("ctrl", "shift", "p"); }`, nil))
}

func TestUnknownIdentifierTolerated(t *testing.T) {
	assert.Empty(t, analyzeSource(t, `flow main { let x = never_declared + 1; }`, nil))
}

func TestUnknownFunctionTolerated(t *testing.T) {
	// Non-builtin calls have no signature to check against.
	assert.Empty(t, analyzeSource(t, `flow main { custom_helper(1, 2, 3); }`, nil))
}

func TestScopedVariables(t *testing.T) {
	src := `flow main {
  for i in range(10) { let x = i; }
  try { click(1, 2); } catch err { log(err); }
}`
	assert.Empty(t, analyzeSource(t, src, nil))
}

func TestSymbolTableExposed(t *testing.T) {
	program, _ := parser.Parse(`const T = 5s; flow main { label x: } flow helper { }`)
	a := NewAnalyzer(nil)
	a.Analyze(program)

	symbols := a.Symbols()
	assert.Contains(t, symbols.Flows, "main")
	assert.Contains(t, symbols.Flows, "helper")
	assert.Contains(t, symbols.Constants, "T")
	assert.Contains(t, symbols.Labels["main"], "x")
	assert.NotContains(t, symbols.Labels["helper"], "x")
}

func TestAnalysisContinuesPastErrors(t *testing.T) {
	src := `flow main {
  wait_image("ghost");
  goto nowhere;
  click(1);
}`
	diags := analyzeSource(t, src, nil)
	assert.Equal(t, []string{
		diag.CodeUnknownAsset,
		diag.CodeUnknownLabel,
		diag.CodeMissingArgument,
	}, codes(diags))
}
