package diag

import (
	"testing"

	"github.com/retroauto/go-retroscript/ast"
)

func at(line, col int) ast.Span {
	return ast.Span{StartLine: line, StartCol: col, EndLine: line, EndCol: col + 1}
}

func TestSortByPositionThenSeverity(t *testing.T) {
	diags := []Diagnostic{
		Warning(CodeUnknownAsset, "w2", at(3, 0)),
		Error(CodeUnexpectedToken, "e2", at(3, 0)),
		Error(CodeExpectedToken, "e1", at(1, 4)),
		Warning(CodeUnknownFlow, "w1", at(1, 2)),
	}
	Sort(diags)

	var messages []string
	for _, d := range diags {
		messages = append(messages, d.Message)
	}
	want := []string{"w1", "e1", "e2", "w2"}
	for i := range want {
		if messages[i] != want[i] {
			t.Fatalf("order = %v, want %v", messages, want)
		}
	}
}

func TestHasErrors(t *testing.T) {
	if HasErrors([]Diagnostic{Warning(CodeUnknownAsset, "w", at(1, 0))}) {
		t.Error("warnings alone reported as errors")
	}
	if !HasErrors([]Diagnostic{
		Warning(CodeUnknownAsset, "w", at(1, 0)),
		Error(CodeUnexpectedToken, "e", at(2, 0)),
	}) {
		t.Error("error not detected")
	}
	if HasErrors(nil) {
		t.Error("empty slice reported as having errors")
	}
}

func TestWithFixDoesNotShareBacking(t *testing.T) {
	base := Error(CodeUnknownAsset, "unknown asset", at(1, 0))
	a := base.WithFix(QuickFix{Kind: FixCaptureAsset, Title: "Capture asset", Target: "btn"})
	b := base.WithFix(QuickFix{Kind: FixRenameToMatch, Title: "Rename", Target: "btn2"})

	if len(base.QuickFixes) != 0 {
		t.Errorf("base mutated: %v", base.QuickFixes)
	}
	if len(a.QuickFixes) != 1 || a.QuickFixes[0].Kind != FixCaptureAsset {
		t.Errorf("a fixes = %v", a.QuickFixes)
	}
	if len(b.QuickFixes) != 1 || b.QuickFixes[0].Kind != FixRenameToMatch {
		t.Errorf("b fixes = %v", b.QuickFixes)
	}
}

func TestUnknownAssetBuilderCarriesCaptureFix(t *testing.T) {
	d := UnknownAsset("ok_button", at(2, 8))

	if d.Code != CodeUnknownAsset {
		t.Errorf("code = %s", d.Code)
	}
	if d.Severity != SeverityError {
		t.Errorf("severity = %s", d.Severity)
	}
	found := false
	for _, f := range d.QuickFixes {
		if f.Kind == FixCaptureAsset && f.Target == "ok_button" {
			found = true
		}
	}
	if !found {
		t.Errorf("no capture fix on %+v", d.QuickFixes)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Error(CodeUnexpectedToken, "Unexpected token \"x\"", at(4, 2))
	got := d.String()
	want := `error E1001: Unexpected token "x" (4:2-3)`
	if got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
