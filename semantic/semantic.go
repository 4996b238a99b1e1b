// Package semantic validates a parsed RetroScript program: asset and
// flow references, flow-scoped label/goto pairing, and builtin call
// arity against a fixed signature table. Analysis never aborts; every
// violation becomes a diagnostic and the walk continues.
package semantic

import (
	"github.com/retroauto/go-retroscript/ast"
	"github.com/retroauto/go-retroscript/diag"
)

// Signature describes a builtin function: required positional argument
// names and optional keyword arguments with their expected types.
type Signature struct {
	Name         string
	RequiredArgs []string
	OptionalArgs map[string]string
	ReturnType   string
}

// Builtins is the signature table for the RetroScript standard
// functions. A kwarg satisfies a required argument by name.
var Builtins = map[string]Signature{
	// Vision
	"wait_image": {
		Name:         "wait_image",
		RequiredArgs: []string{"asset"},
		OptionalArgs: map[string]string{
			"appear":    "bool",
			"timeout":   "duration",
			"poll":      "duration",
			"roi":       "roi",
			"threshold": "float",
		},
		ReturnType: "match",
	},
	"find_image": {
		Name:         "find_image",
		RequiredArgs: []string{"asset"},
		OptionalArgs: map[string]string{"roi": "roi", "threshold": "float"},
		ReturnType:   "match",
	},
	"image_exists": {
		Name:         "image_exists",
		RequiredArgs: []string{"asset"},
		OptionalArgs: map[string]string{"roi": "roi", "threshold": "float"},
		ReturnType:   "bool",
	},
	"wait_any": {
		Name:         "wait_any",
		RequiredArgs: []string{"assets"},
		OptionalArgs: map[string]string{"timeout": "duration", "poll": "duration"},
		ReturnType:   "tuple",
	},
	// Input
	"click": {
		Name:         "click",
		RequiredArgs: []string{"x", "y"},
		OptionalArgs: map[string]string{
			"button":   "string",
			"clicks":   "int",
			"interval": "duration",
		},
		ReturnType: "void",
	},
	"move": {
		Name:         "move",
		RequiredArgs: []string{"x", "y"},
		ReturnType:   "void",
	},
	"hotkey": {
		Name:       "hotkey", // variadic
		ReturnType: "void",
	},
	"type_text": {
		Name:         "type_text",
		RequiredArgs: []string{"text"},
		OptionalArgs: map[string]string{"paste": "bool", "enter": "bool"},
		ReturnType:   "void",
	},
	"sleep": {
		Name:         "sleep",
		RequiredArgs: []string{"duration"},
		ReturnType:   "void",
	},
	// Control
	"run_flow": {
		Name:         "run_flow",
		RequiredArgs: []string{"flow_name"},
		ReturnType:   "void",
	},
	"log": {
		Name:         "log",
		RequiredArgs: []string{"message"},
		OptionalArgs: map[string]string{"level": "string"},
		ReturnType:   "void",
	},
	"assert": {
		Name:         "assert",
		RequiredArgs: []string{"condition"},
		OptionalArgs: map[string]string{"message": "string"},
		ReturnType:   "void",
	},
	// Utility
	"range": {
		Name:         "range",
		RequiredArgs: []string{"end"},
		OptionalArgs: map[string]string{"start": "int", "step": "int"},
		ReturnType:   "iterable",
	},
}

// Scope is a chained lexical scope for let-bindings, loop variables and
// catch variables.
type Scope struct {
	variables map[string]ast.Node
	parent    *Scope
}

// NewScope creates a scope chained to parent. Parent may be nil.
func NewScope(parent *Scope) *Scope {
	return &Scope{variables: map[string]ast.Node{}, parent: parent}
}

// Lookup resolves name through the scope chain.
func (s *Scope) Lookup(name string) ast.Node {
	if node, ok := s.variables[name]; ok {
		return node
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	return nil
}

// Define binds name in the current scope.
func (s *Scope) Define(name string, node ast.Node) {
	s.variables[name] = node
}

// SymbolTable holds program-wide declarations, rebuilt per analysis run.
// Labels are keyed per flow: they do not leak across flows.
type SymbolTable struct {
	Assets    map[string]ast.Span
	Flows     map[string]*ast.FlowDecl
	Labels    map[string]map[string]*ast.LabelStmt
	Constants map[string]*ast.ConstStmt
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{
		Assets:    map[string]ast.Span{},
		Flows:     map[string]*ast.FlowDecl{},
		Labels:    map[string]map[string]*ast.LabelStmt{},
		Constants: map[string]*ast.ConstStmt{},
	}
}

// Analyzer validates a RetroScript program against an externally
// supplied set of known assets.
type Analyzer struct {
	knownAssets map[string]bool
	symbols     *SymbolTable
	diags       []diag.Diagnostic
	currentFlow string
	scope       *Scope
}

// NewAnalyzer creates an analyzer. knownAssets are the asset ids the
// surrounding application has captured.
func NewAnalyzer(knownAssets []string) *Analyzer {
	known := make(map[string]bool, len(knownAssets))
	for _, a := range knownAssets {
		known[a] = true
	}
	return &Analyzer{knownAssets: known}
}

// Analyze is a convenience wrapper around NewAnalyzer and
// Analyzer.Analyze.
func Analyze(program *ast.Program, knownAssets []string) []diag.Diagnostic {
	return NewAnalyzer(knownAssets).Analyze(program)
}

// Analyze runs both passes over program and returns the diagnostics.
func (a *Analyzer) Analyze(program *ast.Program) []diag.Diagnostic {
	a.diags = nil
	a.symbols = newSymbolTable()

	a.collectDeclarations(program)
	a.validateProgram(program)

	diag.Sort(a.diags)
	return a.diags
}

// Symbols returns the table built by the last Analyze call. Used by
// completion and quick-fix providers.
func (a *Analyzer) Symbols() *SymbolTable {
	return a.symbols
}

// First pass: declaration collection.

func (a *Analyzer) collectDeclarations(program *ast.Program) {
	for _, c := range program.Constants {
		a.symbols.Constants[c.Name] = c
	}

	for _, flow := range program.Flows {
		if original, ok := a.symbols.Flows[flow.Name]; ok {
			a.diags = append(a.diags, diag.DuplicateFlow(flow.Name, flow.Span, original.Span))
		} else {
			a.symbols.Flows[flow.Name] = flow
		}

		a.symbols.Labels[flow.Name] = map[string]*ast.LabelStmt{}
		a.collectLabels(flow.Name, flow.Body)
	}

	for _, intr := range program.Interrupts {
		if intr.WhenAsset != "" && !a.knownAssets[intr.WhenAsset] {
			a.diags = append(a.diags, diag.UnknownAsset(intr.WhenAsset, intr.Span))
		}
	}
}

func (a *Analyzer) collectLabels(flowName string, block *ast.BlockStmt) {
	for _, stmt := range block.Statements {
		switch s := stmt.(type) {
		case *ast.LabelStmt:
			labels := a.symbols.Labels[flowName]
			if original, ok := labels[s.Name]; ok {
				a.diags = append(a.diags, diag.DuplicateLabel(s.Name, s.Span, original.Span))
			} else {
				labels[s.Name] = s
			}
		case *ast.IfStmt:
			a.collectLabels(flowName, s.ThenBranch)
			for _, b := range s.ElifBranches {
				a.collectLabels(flowName, b.Body)
			}
			if s.ElseBranch != nil {
				a.collectLabels(flowName, s.ElseBranch)
			}
		case *ast.WhileStmt:
			a.collectLabels(flowName, s.Body)
		case *ast.ForStmt:
			a.collectLabels(flowName, s.Body)
		case *ast.TryStmt:
			a.collectLabels(flowName, s.TryBlock)
			if s.CatchBlock != nil {
				a.collectLabels(flowName, s.CatchBlock)
			}
		}
	}
}

// Second pass: reference validation.

func (a *Analyzer) validateProgram(program *ast.Program) {
	for _, flow := range program.Flows {
		a.currentFlow = flow.Name
		a.scope = NewScope(nil)
		a.validateBlock(flow.Body)
	}
	for _, intr := range program.Interrupts {
		a.currentFlow = "__interrupt__"
		a.scope = NewScope(nil)
		a.validateBlock(intr.Body)
	}
}

func (a *Analyzer) validateBlock(block *ast.BlockStmt) {
	for _, stmt := range block.Statements {
		a.validateStatement(stmt)
	}
}

func (a *Analyzer) validateStatement(stmt ast.Node) {
	switch s := stmt.(type) {
	case *ast.GotoStmt:
		a.validateGoto(s)
	case *ast.IfStmt:
		a.validateExpression(s.Condition)
		a.validateBlock(s.ThenBranch)
		for _, b := range s.ElifBranches {
			a.validateExpression(b.Condition)
			a.validateBlock(b.Body)
		}
		if s.ElseBranch != nil {
			a.validateBlock(s.ElseBranch)
		}
	case *ast.WhileStmt:
		a.validateExpression(s.Condition)
		a.validateBlock(s.Body)
	case *ast.ForStmt:
		a.validateExpression(s.Iterable)
		outer := a.scope
		a.scope = NewScope(outer)
		a.scope.Define(s.Variable, s)
		a.validateBlock(s.Body)
		a.scope = outer
	case *ast.LetStmt:
		if s.Initializer != nil {
			a.validateExpression(s.Initializer)
		}
		a.scope.Define(s.Name, s)
	case *ast.AssignStmt:
		a.validateExpression(s.Target)
		a.validateExpression(s.Value)
	case *ast.ReturnStmt:
		if s.Value != nil {
			a.validateExpression(s.Value)
		}
	case *ast.TryStmt:
		a.validateBlock(s.TryBlock)
		if s.CatchBlock != nil {
			outer := a.scope
			a.scope = NewScope(outer)
			if s.CatchVar != "" {
				a.scope.Define(s.CatchVar, s)
			}
			a.validateBlock(s.CatchBlock)
			a.scope = outer
		}
	case *ast.ExprStmt:
		a.validateExpression(s.Expr)
	}
}

func (a *Analyzer) validateGoto(stmt *ast.GotoStmt) {
	labels, ok := a.symbols.Labels[a.currentFlow]
	if !ok {
		return
	}
	if _, ok := labels[stmt.Target]; !ok {
		a.diags = append(a.diags, diag.UnknownLabel(stmt.Target, stmt.Span))
	}
}

func (a *Analyzer) validateExpression(expr ast.Node) {
	switch e := expr.(type) {
	case *ast.CallExpr:
		a.validateCall(e)
	case *ast.BinaryExpr:
		a.validateExpression(e.Left)
		a.validateExpression(e.Right)
	case *ast.UnaryExpr:
		a.validateExpression(e.Operand)
	case *ast.ArrayExpr:
		for _, elem := range e.Elements {
			a.validateExpression(elem)
		}
	case *ast.Identifier:
		// Unknown identifiers are tolerated: the language has no
		// static type system, so undeclared use is not a defect.
	}
}

func (a *Analyzer) validateCall(call *ast.CallExpr) {
	switch call.Callee {
	case "run_flow":
		if name, ok := firstStringArg(call); ok {
			if _, declared := a.symbols.Flows[name]; !declared {
				a.diags = append(a.diags, diag.UnknownFlow(name, call.Span))
			}
		}
	case "wait_image", "find_image", "image_exists":
		if name, ok := firstStringArg(call); ok && !a.knownAssets[name] {
			a.diags = append(a.diags, diag.UnknownAsset(name, call.Span))
		}
	case "wait_any":
		if len(call.Args) > 0 {
			if arr, ok := call.Args[0].(*ast.ArrayExpr); ok {
				for _, elem := range arr.Elements {
					lit, ok := elem.(*ast.Literal)
					if !ok || lit.LiteralType != ast.LitString {
						continue
					}
					name, _ := lit.Value.(string)
					if !a.knownAssets[name] {
						a.diags = append(a.diags, diag.UnknownAsset(name, lit.Span))
					}
				}
			}
		}
	}

	if sig, ok := Builtins[call.Callee]; ok {
		for i, argName := range sig.RequiredArgs {
			if i >= len(call.Args) {
				if _, byKwarg := call.Kwargs[argName]; !byKwarg {
					a.diags = append(a.diags, diag.MissingArgument(call.Callee, argName, call.Span))
				}
			}
		}
	}

	for _, arg := range call.Args {
		a.validateExpression(arg)
	}
	for _, arg := range call.Kwargs {
		a.validateExpression(arg)
	}
}

func firstStringArg(call *ast.CallExpr) (string, bool) {
	if len(call.Args) == 0 {
		return "", false
	}
	lit, ok := call.Args[0].(*ast.Literal)
	if !ok || lit.LiteralType != ast.LitString {
		return "", false
	}
	s, ok := lit.Value.(string)
	return s, ok
}
