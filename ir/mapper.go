package ir

import (
	"fmt"
	"sort"
	"strings"

	"github.com/retroauto/go-retroscript/ast"
	"github.com/retroauto/go-retroscript/diag"
	"github.com/retroauto/go-retroscript/format"
	"github.com/retroauto/go-retroscript/parser"
)

// ASTToIR projects a parsed program into the flattened IR. Each top
// level statement of a flow or interrupt becomes one action; bodies of
// nested control flow are not inlined, the construct is represented by
// a single marker action.
func ASTToIR(program *ast.Program) *ScriptIR {
	script := NewScript()

	if program.Hotkeys != nil {
		if v, ok := program.Hotkeys.Bindings["start"]; ok {
			script.Hotkeys.Start = v
		}
		if v, ok := program.Hotkeys.Bindings["stop"]; ok {
			script.Hotkeys.Stop = v
		}
		if v, ok := program.Hotkeys.Bindings["pause"]; ok {
			script.Hotkeys.Pause = v
		}
	}

	for _, flow := range program.Flows {
		script.Flows = append(script.Flows, FlowIR{
			Name:    flow.Name,
			Actions: blockToActions(flow.Body),
		})
	}

	for _, intr := range program.Interrupts {
		script.Interrupts = append(script.Interrupts, InterruptIR{
			Priority:  intr.Priority,
			WhenAsset: intr.WhenAsset,
			Actions:   blockToActions(intr.Body),
		})
	}

	return script
}

func blockToActions(block *ast.BlockStmt) []ActionIR {
	var actions []ActionIR
	for _, stmt := range block.Statements {
		if action, ok := statementToAction(stmt); ok {
			actions = append(actions, action)
		}
	}
	return actions
}

func statementToAction(stmt ast.Node) (ActionIR, bool) {
	line := stmt.Meta().Span.StartLine

	switch s := stmt.(type) {
	case *ast.ExprStmt:
		if call, ok := s.Expr.(*ast.CallExpr); ok {
			return ActionIR{
				ActionType: call.Callee,
				Params:     extractCallParams(call),
				SpanLine:   line,
			}, true
		}
	case *ast.LabelStmt:
		return ActionIR{ActionType: "label", Params: Params{{Key: "name", Value: s.Name}}, SpanLine: line}, true
	case *ast.GotoStmt:
		return ActionIR{ActionType: "goto", Params: Params{{Key: "target", Value: s.Target}}, SpanLine: line}, true
	case *ast.IfStmt:
		return ActionIR{
			ActionType: "if",
			Params:     Params{{Key: "has_else", Value: s.ElseBranch != nil}},
			SpanLine:   line,
		}, true
	case *ast.WhileStmt:
		return ActionIR{ActionType: "while", SpanLine: line}, true
	case *ast.ForStmt:
		return ActionIR{ActionType: "for", Params: Params{{Key: "variable", Value: s.Variable}}, SpanLine: line}, true
	case *ast.BreakStmt:
		return ActionIR{ActionType: "break", SpanLine: line}, true
	case *ast.ContinueStmt:
		return ActionIR{ActionType: "continue", SpanLine: line}, true
	case *ast.ReturnStmt:
		return ActionIR{ActionType: "return", SpanLine: line}, true
	}

	return ActionIR{}, false
}

// extractCallParams keeps positional argument order and sorts keyword
// arguments by name so the projection is deterministic.
func extractCallParams(call *ast.CallExpr) Params {
	var params Params

	for i, arg := range call.Args {
		if value, ok := exprValue(arg); ok {
			params = append(params, Param{Key: fmt.Sprintf("arg%d", i), Value: value})
		}
	}

	names := make([]string, 0, len(call.Kwargs))
	for name := range call.Kwargs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if value, ok := exprValue(call.Kwargs[name]); ok {
			params = append(params, Param{Key: name, Value: value})
		}
	}

	return params
}

// exprValue flattens literal and identifier arguments. Compound
// expressions have no IR projection and are dropped.
func exprValue(expr ast.Node) (any, bool) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, true
	case *ast.Identifier:
		return e.Name, true
	}
	return nil, false
}

// ParseToIR parses source and projects it into IR. On parse errors the
// returned script is empty and marked invalid, with the error messages
// carried on it.
func ParseToIR(source string) (*ScriptIR, []diag.Diagnostic) {
	program, diags := parser.Parse(source)

	if diag.HasErrors(diags) {
		script := NewScript()
		script.IsValid = false
		for _, d := range diags {
			script.ParseErrors = append(script.ParseErrors, d.String())
		}
		return script, diags
	}

	return ASTToIR(program), diags
}

// IRToCode regenerates formatted source text from the IR. Hotkeys are
// always emitted so the three control bindings survive a round trip.
func IRToCode(script *ScriptIR) string {
	var b strings.Builder

	b.WriteString("hotkeys {\n")
	fmt.Fprintf(&b, "  start = %q\n", script.Hotkeys.Start)
	fmt.Fprintf(&b, "  stop = %q\n", script.Hotkeys.Stop)
	fmt.Fprintf(&b, "  pause = %q\n", script.Hotkeys.Pause)
	b.WriteString("}\n\n")

	for _, flow := range script.Flows {
		fmt.Fprintf(&b, "flow %s {\n", flow.Name)
		for _, action := range flow.Actions {
			b.WriteString("  " + actionToCode(action) + "\n")
		}
		b.WriteString("}\n\n")
	}

	for _, intr := range script.Interrupts {
		b.WriteString("interrupt {\n")
		fmt.Fprintf(&b, "  priority %d\n", intr.Priority)
		fmt.Fprintf(&b, "  when image %q\n", intr.WhenAsset)
		b.WriteString("  {\n")
		for _, action := range intr.Actions {
			b.WriteString("    " + actionToCode(action) + "\n")
		}
		b.WriteString("  }\n}\n")
	}

	return format.FormatCode(b.String())
}

func actionToCode(action ActionIR) string {
	switch action.ActionType {
	case "label":
		name := "unnamed"
		if v, ok := action.Params.Get("name"); ok {
			name = fmt.Sprintf("%v", v)
		}
		return "label " + name + ":"
	case "goto":
		target := "unknown"
		if v, ok := action.Params.Get("target"); ok {
			target = fmt.Sprintf("%v", v)
		}
		return "goto " + target + ";"
	case "break", "continue", "return":
		return action.ActionType + ";"
	}

	var args, kwargs []string
	for _, param := range action.Params {
		if strings.HasPrefix(param.Key, "arg") {
			args = append(args, valueToCode(param.Value))
		} else {
			kwargs = append(kwargs, param.Key+"="+valueToCode(param.Value))
		}
	}

	return fmt.Sprintf("%s(%s);", action.ActionType, strings.Join(append(args, kwargs...), ", "))
}

func valueToCode(value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}
