// Package format pretty-prints RetroScript programs.
//
// Rules: 2-space indent, K&R braces, lowercase keywords, strings always
// double-quoted, keyword arguments sorted after positional ones. Output
// is deterministic and idempotent.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/retroauto/go-retroscript/ast"
	"github.com/retroauto/go-retroscript/diag"
	"github.com/retroauto/go-retroscript/parser"
)

const indentUnit = "  "

// Legacy block terminators are normalized to their keyword forms.
var endKeywords = map[string]string{
	"end_if":    "endif",
	"end_loop":  "endloop",
	"end_while": "endwhile",
}

// Formatter renders an AST back to canonical source text.
type Formatter struct {
	b      strings.Builder
	indent int
}

// New creates a Formatter.
func New() *Formatter {
	return &Formatter{}
}

// FormatCode formats RetroScript source text. If the source does not
// parse cleanly the input is returned unchanged, which keeps the
// operation idempotent even on broken code.
func FormatCode(source string) string {
	program, diags := parser.Parse(source)
	if diag.HasErrors(diags) {
		return source
	}
	return New().Format(program)
}

// Format renders program as canonical source text ending in a single
// newline.
func (f *Formatter) Format(program *ast.Program) string {
	f.b.Reset()
	f.indent = 0

	if program.Hotkeys != nil {
		f.formatHotkeys(program.Hotkeys)
		f.newline()
	}

	for _, c := range program.Constants {
		f.formatConst(c)
		f.newline()
	}
	if len(program.Constants) > 0 {
		f.newline()
	}

	for i, flow := range program.Flows {
		if i > 0 {
			f.newline()
		}
		f.formatFlow(flow)
	}

	for _, intr := range program.Interrupts {
		if f.b.Len() > 0 {
			f.newline()
		}
		f.formatInterrupt(intr)
	}

	return strings.TrimRight(f.b.String(), "\n ") + "\n"
}

// Output helpers

func (f *Formatter) write(text string) {
	f.b.WriteString(text)
}

func (f *Formatter) writeIndent() {
	for i := 0; i < f.indent; i++ {
		f.b.WriteString(indentUnit)
	}
}

func (f *Formatter) newline() {
	f.b.WriteByte('\n')
}

func (f *Formatter) writeLine(text string) {
	f.writeIndent()
	f.write(text)
	f.newline()
}

func (f *Formatter) writeComments(meta *ast.NodeMeta) {
	for _, comment := range meta.LeadingComments {
		f.writeLine(comment)
	}
}

func (f *Formatter) writeTrailing(meta *ast.NodeMeta) {
	if meta.TrailingComment != "" {
		f.write("  " + meta.TrailingComment)
	}
}

// Declarations

func (f *Formatter) formatHotkeys(hotkeys *ast.HotkeysDecl) {
	f.writeComments(hotkeys.Meta())
	f.writeLine("hotkeys {")
	f.indent++

	names := make([]string, 0, len(hotkeys.Bindings))
	for name := range hotkeys.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.writeIndent()
		f.write(fmt.Sprintf("%s = %s", name, quote(hotkeys.Bindings[name])))
		f.newline()
	}

	f.indent--
	f.writeLine("}")
}

func (f *Formatter) formatFlow(flow *ast.FlowDecl) {
	f.writeComments(flow.Meta())
	f.writeIndent()
	f.write("flow " + flow.Name + " ")
	f.formatBlock(flow.Body)
	f.newline()
}

func (f *Formatter) formatInterrupt(intr *ast.InterruptDecl) {
	f.writeComments(intr.Meta())
	f.writeLine("interrupt {")
	f.indent++

	f.writeLine(fmt.Sprintf("priority %d", intr.Priority))
	f.writeLine("when image " + quote(intr.WhenAsset))
	f.writeIndent()
	f.formatBlock(intr.Body)
	f.newline()

	f.indent--
	f.writeLine("}")
}

func (f *Formatter) formatConst(c *ast.ConstStmt) {
	f.writeComments(c.Meta())
	f.writeIndent()
	f.write("const " + c.Name + " = ")
	f.formatExpr(c.Initializer)
	f.write(";")
	f.writeTrailing(c.Meta())
	f.newline()
}

// Statements

func (f *Formatter) formatBlock(block *ast.BlockStmt) {
	f.write("{")
	f.newline()
	f.indent++

	for _, stmt := range block.Statements {
		f.formatStatement(stmt)
	}

	f.indent--
	f.writeIndent()
	f.write("}")
}

func (f *Formatter) formatStatement(stmt ast.Node) {
	f.writeComments(stmt.Meta())

	switch s := stmt.(type) {
	case *ast.LabelStmt:
		f.writeLine("label " + s.Name + ":")
	case *ast.GotoStmt:
		f.writeIndent()
		f.write("goto " + s.Target + ";")
		f.writeTrailing(s.Meta())
		f.newline()
	case *ast.IfStmt:
		f.formatIf(s)
	case *ast.WhileStmt:
		f.writeIndent()
		f.write("while ")
		f.formatExpr(s.Condition)
		f.write(" ")
		f.formatBlock(s.Body)
		f.newline()
	case *ast.ForStmt:
		f.writeIndent()
		f.write("for " + s.Variable + " in ")
		f.formatExpr(s.Iterable)
		f.write(" ")
		f.formatBlock(s.Body)
		f.newline()
	case *ast.LetStmt:
		f.writeIndent()
		f.write("let " + s.Name)
		if s.Initializer != nil {
			f.write(" = ")
			f.formatExpr(s.Initializer)
		}
		f.write(";")
		f.writeTrailing(s.Meta())
		f.newline()
	case *ast.AssignStmt:
		f.writeIndent()
		f.formatExpr(s.Target)
		f.write(" = ")
		f.formatExpr(s.Value)
		f.write(";")
		f.writeTrailing(s.Meta())
		f.newline()
	case *ast.BreakStmt:
		f.writeLine("break;")
	case *ast.ContinueStmt:
		f.writeLine("continue;")
	case *ast.ReturnStmt:
		f.writeIndent()
		if s.Value != nil {
			f.write("return ")
			f.formatExpr(s.Value)
			f.write(";")
		} else {
			f.write("return;")
		}
		f.writeTrailing(s.Meta())
		f.newline()
	case *ast.TryStmt:
		f.formatTry(s)
	case *ast.ExprStmt:
		f.writeIndent()
		f.formatExpr(s.Expr)
		f.write(";")
		f.writeTrailing(s.Meta())
		f.newline()
	case *ast.BlockStmt:
		f.writeIndent()
		f.formatBlock(s)
		f.newline()
	}
}

func (f *Formatter) formatIf(s *ast.IfStmt) {
	f.writeIndent()
	f.write("if ")
	f.formatExpr(s.Condition)
	f.write(" ")
	f.formatBlock(s.ThenBranch)

	for _, b := range s.ElifBranches {
		f.write(" elif ")
		f.formatExpr(b.Condition)
		f.write(" ")
		f.formatBlock(b.Body)
	}

	if s.ElseBranch != nil {
		f.write(" else ")
		f.formatBlock(s.ElseBranch)
	}
	f.newline()
}

func (f *Formatter) formatTry(s *ast.TryStmt) {
	f.writeIndent()
	f.write("try ")
	f.formatBlock(s.TryBlock)

	if s.CatchBlock != nil {
		f.write(" catch")
		if s.CatchVar != "" {
			f.write(" " + s.CatchVar)
		}
		f.write(" ")
		f.formatBlock(s.CatchBlock)
	}
	f.newline()
}

// Expressions

func (f *Formatter) formatExpr(expr ast.Node) {
	switch e := expr.(type) {
	case *ast.Literal:
		f.formatLiteral(e)
	case *ast.Identifier:
		f.write(e.Name)
	case *ast.BinaryExpr:
		f.formatBinary(e)
	case *ast.UnaryExpr:
		f.write(e.Operator)
		f.formatExpr(e.Operand)
	case *ast.CallExpr:
		f.formatCall(e)
	case *ast.ArrayExpr:
		f.write("[")
		for i, elem := range e.Elements {
			if i > 0 {
				f.write(", ")
			}
			f.formatExpr(elem)
		}
		f.write("]")
	}
}

func (f *Formatter) formatLiteral(lit *ast.Literal) {
	switch lit.LiteralType {
	case ast.LitString:
		f.write(quote(fmt.Sprintf("%v", lit.Value)))
	case ast.LitBool:
		if lit.Value == true {
			f.write("true")
		} else {
			f.write("false")
		}
	case ast.LitNull:
		f.write("null")
	default:
		f.write(fmt.Sprintf("%v", lit.Value))
	}
}

// formatBinary parenthesizes nested binary operands so operator
// grouping survives reparsing regardless of precedence.
func (f *Formatter) formatBinary(expr *ast.BinaryExpr) {
	f.formatOperand(expr.Left)
	f.write(" " + expr.Operator + " ")
	f.formatOperand(expr.Right)
}

func (f *Formatter) formatOperand(operand ast.Node) {
	if _, nested := operand.(*ast.BinaryExpr); nested {
		f.write("(")
		f.formatExpr(operand)
		f.write(")")
		return
	}
	f.formatExpr(operand)
}

func (f *Formatter) formatCall(call *ast.CallExpr) {
	if keyword, ok := endKeywords[call.Callee]; ok {
		f.write(keyword)
		return
	}

	parts := make([]string, 0, len(call.Args)+len(call.Kwargs))
	for _, arg := range call.Args {
		parts = append(parts, exprString(arg))
	}

	kwargNames := make([]string, 0, len(call.Kwargs))
	for name := range call.Kwargs {
		kwargNames = append(kwargNames, name)
	}
	sort.Strings(kwargNames)
	for _, name := range kwargNames {
		parts = append(parts, name+"="+exprString(call.Kwargs[name]))
	}

	f.write(call.Callee + "(" + strings.Join(parts, ", ") + ")")
}

func exprString(expr ast.Node) string {
	sub := New()
	sub.formatExpr(expr)
	return sub.b.String()
}

// quote renders s as a double-quoted string literal, re-escaping the
// characters the lexer unescaped.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}
