// Package ast defines the RetroScript syntax tree. Every node embeds a
// NodeMeta carrying its source span, a synthetic id, and any comments
// attached to it. The node set is closed: consumers (formatter, analyzer,
// IR mapper) switch exhaustively over the concrete types.
package ast

import (
	"fmt"

	"github.com/google/uuid"
)

// Span is a source range. Lines and columns are 1-based.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

func (s Span) String() string {
	if s.StartLine == s.EndLine {
		return fmt.Sprintf("%d:%d-%d", s.StartLine, s.StartCol, s.EndCol)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// Merge returns the smallest span covering both s and other. Parent spans
// are built from child spans with Merge, bottom-up, which maintains the
// invariant that a node's span contains the spans of all its children.
func (s Span) Merge(other Span) Span {
	out := Span{}

	switch {
	case s.StartLine < other.StartLine:
		out.StartLine, out.StartCol = s.StartLine, s.StartCol
	case other.StartLine < s.StartLine:
		out.StartLine, out.StartCol = other.StartLine, other.StartCol
	default:
		out.StartLine = s.StartLine
		out.StartCol = min(s.StartCol, other.StartCol)
	}

	switch {
	case s.EndLine > other.EndLine:
		out.EndLine, out.EndCol = s.EndLine, s.EndCol
	case other.EndLine > s.EndLine:
		out.EndLine, out.EndCol = other.EndLine, other.EndCol
	default:
		out.EndLine = s.EndLine
		out.EndCol = max(s.EndCol, other.EndCol)
	}

	return out
}

// Contains reports whether s fully contains other.
func (s Span) Contains(other Span) bool {
	if other.StartLine < s.StartLine ||
		(other.StartLine == s.StartLine && other.StartCol < s.StartCol) {
		return false
	}
	if other.EndLine > s.EndLine ||
		(other.EndLine == s.EndLine && other.EndCol > s.EndCol) {
		return false
	}
	return true
}

// NewID generates a short unique node id.
func NewID() string {
	return uuid.New().String()[:8]
}

// NodeMeta is the data common to every AST node.
type NodeMeta struct {
	Span            Span
	ID              string
	LeadingComments []string
	TrailingComment string
}

// NewMeta creates node metadata with a fresh id.
func NewMeta(span Span) NodeMeta {
	return NodeMeta{Span: span, ID: NewID()}
}

// Node is implemented by every AST node.
type Node interface {
	Meta() *NodeMeta
	node()
}

func (m *NodeMeta) Meta() *NodeMeta { return m }
func (m *NodeMeta) node()           {}

// LiteralType tags the value kind of a Literal.
type LiteralType string

const (
	LitString   LiteralType = "string"
	LitInt      LiteralType = "int"
	LitFloat    LiteralType = "float"
	LitDuration LiteralType = "duration"
	LitBool     LiteralType = "bool"
	LitNull     LiteralType = "null"
)

// Expressions

// Literal is a literal value: string, number, duration, bool, null.
type Literal struct {
	NodeMeta
	Value       any
	LiteralType LiteralType
}

// Identifier is a variable or function name.
type Identifier struct {
	NodeMeta
	Name string
}

// BinaryExpr is a binary operation: a + b, a == b, etc.
type BinaryExpr struct {
	NodeMeta
	Left     Node
	Operator string
	Right    Node
}

// UnaryExpr is a unary operation: !a, -b.
type UnaryExpr struct {
	NodeMeta
	Operator string
	Operand  Node
}

// CallExpr is a function call: wait_image("btn", timeout=5s).
type CallExpr struct {
	NodeMeta
	Callee string
	Args   []Node
	Kwargs map[string]Node
}

// ArrayExpr is an array literal: [a, b, c].
type ArrayExpr struct {
	NodeMeta
	Elements []Node
}

// Statements

// ExprStmt is an expression used as a statement: func();.
type ExprStmt struct {
	NodeMeta
	Expr Node
}

// BlockStmt is a braced sequence of statements.
type BlockStmt struct {
	NodeMeta
	Statements []Node
}

// LetStmt is a variable declaration: let x = 5;.
type LetStmt struct {
	NodeMeta
	Name        string
	Initializer Node // nil when declared without a value
}

// ConstStmt is a constant declaration: const X = 5;.
type ConstStmt struct {
	NodeMeta
	Name        string
	Initializer Node
}

// AssignStmt is an assignment: x = 5;.
type AssignStmt struct {
	NodeMeta
	Target Node
	Value  Node
}

// ElifBranch is one elif arm of an IfStmt.
type ElifBranch struct {
	Condition Node
	Body      *BlockStmt
}

// IfStmt is an if statement with optional elif/else branches.
type IfStmt struct {
	NodeMeta
	Condition    Node
	ThenBranch   *BlockStmt
	ElifBranches []ElifBranch
	ElseBranch   *BlockStmt // nil when absent
}

// WhileStmt is a while loop.
type WhileStmt struct {
	NodeMeta
	Condition Node
	Body      *BlockStmt
}

// ForStmt is a for loop: for i in range(10) { }.
type ForStmt struct {
	NodeMeta
	Variable string
	Iterable Node
	Body     *BlockStmt
}

// LabelStmt declares a goto target: label start:.
type LabelStmt struct {
	NodeMeta
	Name string
}

// GotoStmt jumps to a label in the same flow: goto start;.
type GotoStmt struct {
	NodeMeta
	Target string
}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	NodeMeta
}

// ContinueStmt restarts the innermost loop.
type ContinueStmt struct {
	NodeMeta
}

// ReturnStmt returns from a flow: return value;.
type ReturnStmt struct {
	NodeMeta
	Value Node // nil for bare return
}

// TryStmt is a try-catch statement. RetryCount is non-zero when the
// statement was lowered from retry sugar; the execution runtime reads it.
type TryStmt struct {
	NodeMeta
	TryBlock   *BlockStmt
	CatchVar   string
	CatchBlock *BlockStmt // nil when absent
	RetryCount int
}

// Declarations

// FlowDecl is a flow declaration: flow main { ... }.
type FlowDecl struct {
	NodeMeta
	Name string
	Body *BlockStmt
}

// InterruptDecl is a priority-ordered, asset-triggered handler block.
type InterruptDecl struct {
	NodeMeta
	Priority  int
	WhenAsset string
	Body      *BlockStmt
}

// HotkeysDecl holds the hotkey binding block.
type HotkeysDecl struct {
	NodeMeta
	Bindings map[string]string
}

// Program is the root node containing all declarations.
type Program struct {
	NodeMeta
	Hotkeys    *HotkeysDecl // nil when absent
	Flows      []*FlowDecl
	Interrupts []*InterruptDecl
	Constants  []*ConstStmt
}

// MainFlow returns the flow named "main", or the first flow, or nil.
func (p *Program) MainFlow() *FlowDecl {
	for _, flow := range p.Flows {
		if flow.Name == "main" {
			return flow
		}
	}
	if len(p.Flows) > 0 {
		return p.Flows[0]
	}
	return nil
}
