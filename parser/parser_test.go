package parser

import (
	"testing"

	"github.com/retroauto/go-retroscript/ast"
	"github.com/retroauto/go-retroscript/diag"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, diags := Parse(src)
	if diag.HasErrors(diags) {
		t.Fatalf("unexpected parse errors for %q: %v", src, diags)
	}
	return program
}

func TestParseFlow(t *testing.T) {
	program := parseOK(t, `flow main { click(100, 200); }`)
	if len(program.Flows) != 1 {
		t.Fatalf("got %d flows, want 1", len(program.Flows))
	}
	flow := program.Flows[0]
	if flow.Name != "main" {
		t.Errorf("flow name = %q, want main", flow.Name)
	}
	if len(flow.Body.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(flow.Body.Statements))
	}
	stmt, ok := flow.Body.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExprStmt", flow.Body.Statements[0])
	}
	call, ok := stmt.Expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expression is %T, want *ast.CallExpr", stmt.Expr)
	}
	if call.Callee != "click" || len(call.Args) != 2 {
		t.Errorf("call = %s/%d args, want click/2", call.Callee, len(call.Args))
	}
}

func TestParseMixedCaseKeywords(t *testing.T) {
	program := parseOK(t, `FLOW main { CLICK(1, 2); Click(3, 4) }`)
	if len(program.Flows) != 1 || len(program.Flows[0].Body.Statements) != 2 {
		t.Fatalf("mixed-case parse failed: %+v", program)
	}
}

func TestParseKwargs(t *testing.T) {
	program := parseOK(t, `flow main { wait_image("btn", timeout=5s); }`)
	call := program.Flows[0].Body.Statements[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	if len(call.Args) != 1 {
		t.Fatalf("got %d positional args, want 1", len(call.Args))
	}
	arg, ok := call.Kwargs["timeout"]
	if !ok {
		t.Fatal("missing timeout kwarg")
	}
	lit, ok := arg.(*ast.Literal)
	if !ok || lit.LiteralType != ast.LitDuration || lit.Value != "5s" {
		t.Errorf("timeout kwarg = %+v, want duration 5s", arg)
	}
}

func TestParseInterrupt(t *testing.T) {
	src := `
interrupt {
  priority 5
  when image "error_dialog"
  {
    click("dismiss");
  }
}
`
	program := parseOK(t, src)
	if len(program.Interrupts) != 1 {
		t.Fatalf("got %d interrupts, want 1", len(program.Interrupts))
	}
	intr := program.Interrupts[0]
	if intr.Priority != 5 {
		t.Errorf("priority = %d, want 5", intr.Priority)
	}
	if intr.WhenAsset != "error_dialog" {
		t.Errorf("when asset = %q, want error_dialog", intr.WhenAsset)
	}
	if len(intr.Body.Statements) != 1 {
		t.Errorf("got %d body statements, want 1", len(intr.Body.Statements))
	}
}

func TestParseHotkeys(t *testing.T) {
	program := parseOK(t, `hotkeys { stop = "esc"; pause = "f9" }`)
	if program.Hotkeys == nil {
		t.Fatal("missing hotkeys declaration")
	}
	if got := program.Hotkeys.Bindings["stop"]; got != "esc" {
		t.Errorf("stop binding = %q, want esc", got)
	}
	if got := program.Hotkeys.Bindings["pause"]; got != "f9" {
		t.Errorf("pause binding = %q, want f9", got)
	}
}

func TestParsePrecedence(t *testing.T) {
	program := parseOK(t, `flow main { let x = 1 + 2 * 3; }`)
	let := program.Flows[0].Body.Statements[0].(*ast.LetStmt)
	add, ok := let.Initializer.(*ast.BinaryExpr)
	if !ok || add.Operator != "+" {
		t.Fatalf("top operator = %+v, want +", let.Initializer)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Operator != "*" {
		t.Fatalf("right operand = %+v, want * expression", add.Right)
	}
}

func TestParseKeywordLogicalOperators(t *testing.T) {
	program := parseOK(t, `flow main { if a and b or !c { click(1, 2); } }`)
	ifStmt := program.Flows[0].Body.Statements[0].(*ast.IfStmt)
	or, ok := ifStmt.Condition.(*ast.BinaryExpr)
	if !ok || or.Operator != "or" {
		t.Fatalf("condition = %+v, want or expression", ifStmt.Condition)
	}
	and, ok := or.Left.(*ast.BinaryExpr)
	if !ok || and.Operator != "and" {
		t.Fatalf("left = %+v, want and expression", or.Left)
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := `flow main {
  if x > 1 { click(1, 1); }
  elif x > 0 { click(2, 2); }
  elif x > -1 { click(3, 3); }
  else { click(4, 4); }
}`
	program := parseOK(t, src)
	ifStmt := program.Flows[0].Body.Statements[0].(*ast.IfStmt)
	if len(ifStmt.ElifBranches) != 2 {
		t.Errorf("got %d elif branches, want 2", len(ifStmt.ElifBranches))
	}
	if ifStmt.ElseBranch == nil {
		t.Error("missing else branch")
	}
}

func TestRepeatLowering(t *testing.T) {
	program := parseOK(t, `flow main { repeat 5 times { click(1, 2); } }`)
	forStmt, ok := program.Flows[0].Body.Statements[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ForStmt", program.Flows[0].Body.Statements[0])
	}
	if forStmt.Variable != "_i" {
		t.Errorf("loop variable = %q, want _i", forStmt.Variable)
	}
	rng, ok := forStmt.Iterable.(*ast.CallExpr)
	if !ok || rng.Callee != "range" {
		t.Fatalf("iterable = %+v, want range call", forStmt.Iterable)
	}
	count := rng.Args[0].(*ast.Literal)
	if count.Value != 5 {
		t.Errorf("range count = %v, want 5", count.Value)
	}
}

func TestRepeatWithoutCount(t *testing.T) {
	program := parseOK(t, `flow main { repeat { click(1, 2); } }`)
	forStmt := program.Flows[0].Body.Statements[0].(*ast.ForStmt)
	count := forStmt.Iterable.(*ast.CallExpr).Args[0].(*ast.Literal)
	if count.Value != 1000 {
		t.Errorf("range count = %v, want 1000 safety bound", count.Value)
	}
}

func TestRetryLowering(t *testing.T) {
	program := parseOK(t, `flow main { retry 3 times { click(1, 2); } else { log("gave up"); } }`)
	try, ok := program.Flows[0].Body.Statements[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.TryStmt", program.Flows[0].Body.Statements[0])
	}
	if try.RetryCount != 3 {
		t.Errorf("retry count = %d, want 3", try.RetryCount)
	}
	if try.CatchVar != "_retry_err" {
		t.Errorf("catch var = %q, want _retry_err", try.CatchVar)
	}
	if try.CatchBlock == nil || len(try.CatchBlock.Statements) != 1 {
		t.Errorf("fallback block missing or wrong size: %+v", try.CatchBlock)
	}
}

func TestMatchLowering(t *testing.T) {
	program := parseOK(t, `flow main { match $result: { click(1, 2); } }`)
	ifStmt, ok := program.Flows[0].Body.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.IfStmt", program.Flows[0].Body.Statements[0])
	}
	cond, ok := ifStmt.Condition.(*ast.Identifier)
	if !ok || cond.Name != "$result" {
		t.Errorf("condition = %+v, want $result identifier", ifStmt.Condition)
	}
}

func TestVariableAssignment(t *testing.T) {
	program := parseOK(t, `flow main { $pos = find_image("btn") }`)
	assign, ok := program.Flows[0].Body.Statements[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.AssignStmt", program.Flows[0].Body.Statements[0])
	}
	target := assign.Target.(*ast.Identifier)
	if target.Name != "$pos" {
		t.Errorf("target = %q, want $pos", target.Name)
	}
}

func TestMissingSemicolonWarning(t *testing.T) {
	program, diags := Parse(`FLOW main{click(100,200) click(1,2);}`)
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic for the missing statement separator")
	}
	if diag.HasErrors(diags) {
		t.Fatalf("separator diagnostics must stay non-fatal: %v", diags)
	}
	if diags[0].Severity != diag.SeverityWarning || diags[0].Message != "Missing ';' after statement" {
		t.Errorf("diagnostic = %v", diags[0])
	}
	if len(program.Flows) != 1 || len(program.Flows[0].Body.Statements) != 2 {
		t.Fatalf("both calls must survive: %+v", program.Flows)
	}
}

func TestTrailingSemicolonOptional(t *testing.T) {
	_, diags := Parse(`flow main { click(1, 2) }`)
	if len(diags) != 0 {
		t.Errorf("last statement before '}' needs no semicolon, got %v", diags)
	}
}

func TestErrorRecoveryBounded(t *testing.T) {
	// The malformed second statement must not take down the third.
	src := `flow main {
  click(1, 2);
  click(;
  move(3, 4);
}`
	program, diags := Parse(src)
	if !diag.HasErrors(diags) {
		t.Fatal("expected parse errors")
	}
	if len(program.Flows) != 1 {
		t.Fatalf("flow lost during recovery: %d flows", len(program.Flows))
	}
	var calls []string
	ast.Inspect(program, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpr); ok {
			calls = append(calls, call.Callee)
		}
		return true
	})
	found := map[string]bool{}
	for _, c := range calls {
		found[c] = true
	}
	if !found["click"] || !found["move"] {
		t.Errorf("recovery lost statements, calls = %v", calls)
	}
}

func TestUnterminatedStringDiagnostic(t *testing.T) {
	_, diags := Parse("flow main { log(\"oops\n); }")
	var hasCode bool
	for _, d := range diags {
		if d.Code == diag.CodeUnterminatedString {
			hasCode = true
		}
	}
	if !hasCode {
		t.Errorf("missing %s diagnostic: %v", diag.CodeUnterminatedString, diags)
	}
}

func TestSpanContainsChildren(t *testing.T) {
	program := parseOK(t, `flow main {
  let x = 1 + 2;
  while x < 10 { x = x + 1; }
}`)
	var bad int
	ast.Inspect(program, func(n ast.Node) bool {
		span := n.Meta().Span
		for _, child := range ast.Children(n) {
			if !span.Contains(child.Meta().Span) {
				bad++
				t.Errorf("%T span %s does not contain child %T span %s",
					n, span, child, child.Meta().Span)
			}
		}
		return true
	})
	if bad > 0 {
		t.Fatalf("%d span containment violations", bad)
	}
}

func TestLabelAndGoto(t *testing.T) {
	program := parseOK(t, `flow main { label start: click(1, 2); goto start; }`)
	stmts := program.Flows[0].Body.Statements
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(stmts))
	}
	label := stmts[0].(*ast.LabelStmt)
	if label.Name != "start" {
		t.Errorf("label = %q, want start", label.Name)
	}
	gotoStmt := stmts[2].(*ast.GotoStmt)
	if gotoStmt.Target != "start" {
		t.Errorf("goto target = %q, want start", gotoStmt.Target)
	}
}

func TestTopLevelGarbage(t *testing.T) {
	program, diags := Parse(`banana flow main { click(1, 2); }`)
	if !diag.HasErrors(diags) {
		t.Fatal("expected a diagnostic for stray top-level token")
	}
	if len(program.Flows) != 1 {
		t.Errorf("flow after garbage lost: %d flows", len(program.Flows))
	}
}

func TestConstDeclaration(t *testing.T) {
	program := parseOK(t, `const TIMEOUT = 5s; flow main { sleep(TIMEOUT); }`)
	if len(program.Constants) != 1 {
		t.Fatalf("got %d constants, want 1", len(program.Constants))
	}
	c := program.Constants[0]
	if c.Name != "TIMEOUT" {
		t.Errorf("const name = %q, want TIMEOUT", c.Name)
	}
	lit := c.Initializer.(*ast.Literal)
	if lit.LiteralType != ast.LitDuration {
		t.Errorf("const literal type = %s, want duration", lit.LiteralType)
	}
}
