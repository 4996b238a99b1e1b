// Package parser implements the RetroScript recursive descent parser.
// It consumes the lexer's token stream and produces an ast.Program plus
// a list of diagnostics. Parse failures never abort the whole parse: the
// parser records a diagnostic and synchronizes to the next statement
// boundary, so one malformed statement cannot poison the rest of the
// file.
package parser

import (
	"fmt"
	"strconv"

	"github.com/retroauto/go-retroscript/ast"
	"github.com/retroauto/go-retroscript/diag"
	"github.com/retroauto/go-retroscript/lexer"
)

// parseError carries a diagnostic up to the nearest recovery point.
type parseError struct {
	d diag.Diagnostic
}

func (e *parseError) Error() string { return e.d.Message }

// Parser converts RetroScript source into an AST.
type Parser struct {
	source   string
	tokens   []lexer.Token
	pos      int
	diags    []diag.Diagnostic
	comments []lexer.Token
}

// New creates a parser for the given source text.
func New(source string) *Parser {
	return &Parser{source: source}
}

// Parse is a convenience wrapper: parse source and return the program
// with all diagnostics.
func Parse(source string) (*ast.Program, []diag.Diagnostic) {
	p := New(source)
	program := p.Parse()
	return program, p.Diagnostics()
}

// Parse tokenizes the source and parses it into a Program. The returned
// program is never nil; check Diagnostics for errors.
func (p *Parser) Parse() *ast.Program {
	tokens, comments, lexErrs := lexer.Tokenize(p.source)
	p.comments = comments

	p.tokens = make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type != lexer.TokenError {
			p.tokens = append(p.tokens, tok)
		}
	}

	for _, err := range lexErrs {
		span := ast.Span{StartLine: err.Line, StartCol: err.Column, EndLine: err.Line, EndCol: err.Column + 1}
		code := diag.CodeUnexpectedToken
		switch err.Kind {
		case lexer.ErrUnterminatedString:
			code = diag.CodeUnterminatedString
		case lexer.ErrUnterminatedComment:
			code = diag.CodeUnterminatedBlock
		}
		p.diags = append(p.diags, diag.Error(code, err.Message, span))
	}

	p.pos = 0
	return p.parseProgram()
}

// Diagnostics returns all diagnostics recorded so far, sorted by
// source position.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	diag.Sort(p.diags)
	return p.diags
}

// Comments returns the comment tokens collected during lexing.
func (p *Parser) Comments() []lexer.Token {
	return p.comments
}

// Token handling

func (p *Parser) atEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}

func (p *Parser) peek() lexer.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(types ...lexer.TokenType) bool {
	cur := p.peek().Type
	for _, t := range types {
		if cur == t {
			return true
		}
	}
	return false
}

// match consumes the current token if it is one of types.
func (p *Parser) match(types ...lexer.TokenType) (lexer.Token, bool) {
	if p.check(types...) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

// expect consumes a token of the given type or returns a parse error.
func (p *Parser) expect(t lexer.TokenType, message string) (lexer.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	cur := p.peek()
	if message == "" {
		message = fmt.Sprintf("Expected %s, found %q", t, cur.Value)
	}
	return lexer.Token{}, &parseError{d: diag.Error(diag.CodeExpectedToken, message, tokenSpan(cur))}
}

func tokenSpan(t lexer.Token) ast.Span {
	return ast.Span{StartLine: t.Line, StartCol: t.Column, EndLine: t.EndLine, EndCol: t.EndColumn}
}

// spanFrom builds a span from start to the last consumed token.
func (p *Parser) spanFrom(start lexer.Token) ast.Span {
	idx := p.pos - 1
	if idx < 0 {
		idx = 0
	}
	end := p.tokens[idx]
	return ast.Span{
		StartLine: start.Line,
		StartCol:  start.Column,
		EndLine:   end.EndLine,
		EndCol:    end.EndColumn,
	}
}

func unexpectedToken(value string, span ast.Span) diag.Diagnostic {
	return diag.Error(diag.CodeUnexpectedToken, fmt.Sprintf("Unexpected token %q", value), span)
}

// record adds a diagnostic, unwrapping parse errors.
func (p *Parser) record(err error) {
	if pe, ok := err.(*parseError); ok {
		p.diags = append(p.diags, pe.d)
		return
	}
	p.diags = append(p.diags, diag.Error(diag.CodeUnexpectedToken, err.Error(), tokenSpan(p.peek())))
}

// synchronize skips tokens until a statement boundary: just past a
// semicolon, or at a token that starts a new statement or closes a
// block.
func (p *Parser) synchronize() {
	p.advance()

	for !p.atEnd() {
		if p.peekAt(-1).Type == lexer.TokenSemicolon {
			return
		}
		if p.check(
			lexer.TokenFlow,
			lexer.TokenInterrupt,
			lexer.TokenHotkeys,
			lexer.TokenIf,
			lexer.TokenWhile,
			lexer.TokenFor,
			lexer.TokenLabel,
			lexer.TokenReturn,
			lexer.TokenBreak,
			lexer.TokenContinue,
			lexer.TokenRBrace,
		) {
			return
		}
		p.advance()
	}
}

// Top-level parsing

func (p *Parser) parseProgram() *ast.Program {
	start := p.peek()
	program := &ast.Program{}

	for !p.atEnd() {
		var err error
		switch {
		case p.check(lexer.TokenHotkeys):
			var hk *ast.HotkeysDecl
			hk, err = p.parseHotkeys()
			if err == nil {
				program.Hotkeys = hk
			}
		case p.check(lexer.TokenFlow):
			var flow *ast.FlowDecl
			flow, err = p.parseFlow()
			if err == nil {
				program.Flows = append(program.Flows, flow)
			}
		case p.check(lexer.TokenInterrupt):
			var intr *ast.InterruptDecl
			intr, err = p.parseInterrupt()
			if err == nil {
				program.Interrupts = append(program.Interrupts, intr)
			}
		case p.check(lexer.TokenConst):
			var c *ast.ConstStmt
			c, err = p.parseConst()
			if err == nil {
				program.Constants = append(program.Constants, c)
			}
		default:
			tok := p.peek()
			p.diags = append(p.diags, unexpectedToken(tok.Value, tokenSpan(tok)))
			p.synchronize()
		}
		if err != nil {
			p.record(err)
			p.synchronize()
		}
	}

	program.NodeMeta = ast.NewMeta(p.spanFrom(start))
	return program
}

func (p *Parser) parseHotkeys() (*ast.HotkeysDecl, error) {
	start, err := p.expect(lexer.TokenHotkeys, "")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, ""); err != nil {
		return nil, err
	}

	bindings := map[string]string{}
	for !p.check(lexer.TokenRBrace) && !p.atEnd() {
		name, err := p.expect(lexer.TokenIdent, "Expected hotkey name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenAssign, "Expected '=' in hotkey binding"); err != nil {
			return nil, err
		}
		value, err := p.expect(lexer.TokenString, "Expected key string in hotkey binding")
		if err != nil {
			return nil, err
		}
		bindings[name.Value] = value.Value
		p.match(lexer.TokenSemicolon)
	}

	if _, err := p.expect(lexer.TokenRBrace, ""); err != nil {
		return nil, err
	}

	return &ast.HotkeysDecl{NodeMeta: ast.NewMeta(p.spanFrom(start)), Bindings: bindings}, nil
}

func (p *Parser) parseFlow() (*ast.FlowDecl, error) {
	start, err := p.expect(lexer.TokenFlow, "")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.TokenIdent, "Expected flow name")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FlowDecl{NodeMeta: ast.NewMeta(p.spanFrom(start)), Name: name.Value, Body: body}, nil
}

func (p *Parser) parseInterrupt() (*ast.InterruptDecl, error) {
	start, err := p.expect(lexer.TokenInterrupt, "")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, ""); err != nil {
		return nil, err
	}

	priority := 0
	whenAsset := ""

	for !p.check(lexer.TokenLBrace, lexer.TokenRBrace) && !p.atEnd() {
		if _, ok := p.match(lexer.TokenPriority); ok {
			tok, err := p.expect(lexer.TokenInteger, "Expected integer priority")
			if err != nil {
				return nil, err
			}
			priority, _ = strconv.Atoi(tok.Value)
			continue
		}
		if _, ok := p.match(lexer.TokenWhen); ok {
			if _, err := p.expect(lexer.TokenImage, "Expected 'image' after 'when'"); err != nil {
				return nil, err
			}
			tok, err := p.expect(lexer.TokenString, "Expected asset name string")
			if err != nil {
				return nil, err
			}
			whenAsset = tok.Value
			continue
		}
		break
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRBrace, ""); err != nil {
		return nil, err
	}

	return &ast.InterruptDecl{
		NodeMeta:  ast.NewMeta(p.spanFrom(start)),
		Priority:  priority,
		WhenAsset: whenAsset,
		Body:      body,
	}, nil
}

func (p *Parser) parseConst() (*ast.ConstStmt, error) {
	start, err := p.expect(lexer.TokenConst, "")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.TokenIdent, "Expected constant name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenAssign, "Expected '=' in const declaration"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenSemicolon)

	return &ast.ConstStmt{NodeMeta: ast.NewMeta(p.spanFrom(start)), Name: name.Value, Initializer: value}, nil
}

// Statement parsing

func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	start, err := p.expect(lexer.TokenLBrace, "")
	if err != nil {
		return nil, err
	}

	var statements []ast.Node
	for !p.check(lexer.TokenRBrace) && !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			p.record(err)
			p.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}

	if _, err := p.expect(lexer.TokenRBrace, ""); err != nil {
		return nil, err
	}

	return &ast.BlockStmt{NodeMeta: ast.NewMeta(p.spanFrom(start)), Statements: statements}, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch {
	case p.check(lexer.TokenLabel):
		return p.parseLabel()
	case p.check(lexer.TokenGoto):
		return p.parseGoto()
	case p.check(lexer.TokenIf):
		return p.parseIf()
	case p.check(lexer.TokenWhile):
		return p.parseWhile()
	case p.check(lexer.TokenFor):
		return p.parseFor()
	case p.check(lexer.TokenLet):
		return p.parseLet()
	case p.check(lexer.TokenTry):
		return p.parseTry()
	case p.check(lexer.TokenBreak):
		start := p.advance()
		p.match(lexer.TokenSemicolon)
		return &ast.BreakStmt{NodeMeta: ast.NewMeta(p.spanFrom(start))}, nil
	case p.check(lexer.TokenContinue):
		start := p.advance()
		p.match(lexer.TokenSemicolon)
		return &ast.ContinueStmt{NodeMeta: ast.NewMeta(p.spanFrom(start))}, nil
	case p.check(lexer.TokenReturn):
		return p.parseReturn()
	case p.check(lexer.TokenVariable):
		return p.parseVariableAssignment()
	case p.check(lexer.TokenRepeat):
		return p.parseRepeat()
	case p.check(lexer.TokenRetry):
		return p.parseRetry()
	case p.check(lexer.TokenMatch):
		return p.parseMatch()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseLabel() (*ast.LabelStmt, error) {
	start, err := p.expect(lexer.TokenLabel, "")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.TokenIdent, "Expected label name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon, "Expected ':' after label name"); err != nil {
		return nil, err
	}

	return &ast.LabelStmt{NodeMeta: ast.NewMeta(p.spanFrom(start)), Name: name.Value}, nil
}

func (p *Parser) parseGoto() (*ast.GotoStmt, error) {
	start, err := p.expect(lexer.TokenGoto, "")
	if err != nil {
		return nil, err
	}
	target, err := p.expect(lexer.TokenIdent, "Expected label name after 'goto'")
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenSemicolon)

	return &ast.GotoStmt{NodeMeta: ast.NewMeta(p.spanFrom(start)), Target: target.Value}, nil
}

func (p *Parser) parseIf() (*ast.IfStmt, error) {
	start, err := p.expect(lexer.TokenIf, "")
	if err != nil {
		return nil, err
	}
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	thenBranch, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elifBranches []ast.ElifBranch
	for {
		if _, ok := p.match(lexer.TokenElif); !ok {
			break
		}
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		elifBranches = append(elifBranches, ast.ElifBranch{Condition: cond, Body: body})
	}

	var elseBranch *ast.BlockStmt
	if _, ok := p.match(lexer.TokenElse); ok {
		elseBranch, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &ast.IfStmt{
		NodeMeta:     ast.NewMeta(p.spanFrom(start)),
		Condition:    condition,
		ThenBranch:   thenBranch,
		ElifBranches: elifBranches,
		ElseBranch:   elseBranch,
	}, nil
}

func (p *Parser) parseWhile() (*ast.WhileStmt, error) {
	start, err := p.expect(lexer.TokenWhile, "")
	if err != nil {
		return nil, err
	}
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.WhileStmt{NodeMeta: ast.NewMeta(p.spanFrom(start)), Condition: condition, Body: body}, nil
}

func (p *Parser) parseFor() (*ast.ForStmt, error) {
	start, err := p.expect(lexer.TokenFor, "")
	if err != nil {
		return nil, err
	}
	variable, err := p.expect(lexer.TokenIdent, "Expected loop variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenIn, "Expected 'in' in for loop"); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.ForStmt{
		NodeMeta: ast.NewMeta(p.spanFrom(start)),
		Variable: variable.Value,
		Iterable: iterable,
		Body:     body,
	}, nil
}

func (p *Parser) parseLet() (*ast.LetStmt, error) {
	start, err := p.expect(lexer.TokenLet, "")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.TokenIdent, "Expected variable name")
	if err != nil {
		return nil, err
	}

	var initializer ast.Node
	if _, ok := p.match(lexer.TokenAssign); ok {
		initializer, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	p.match(lexer.TokenSemicolon)

	return &ast.LetStmt{NodeMeta: ast.NewMeta(p.spanFrom(start)), Name: name.Value, Initializer: initializer}, nil
}

func (p *Parser) parseTry() (*ast.TryStmt, error) {
	start, err := p.expect(lexer.TokenTry, "")
	if err != nil {
		return nil, err
	}
	tryBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	catchVar := ""
	var catchBlock *ast.BlockStmt
	if _, ok := p.match(lexer.TokenCatch); ok {
		if p.check(lexer.TokenIdent) {
			catchVar = p.advance().Value
		}
		catchBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &ast.TryStmt{
		NodeMeta:   ast.NewMeta(p.spanFrom(start)),
		TryBlock:   tryBlock,
		CatchVar:   catchVar,
		CatchBlock: catchBlock,
	}, nil
}

func (p *Parser) parseReturn() (*ast.ReturnStmt, error) {
	start, err := p.expect(lexer.TokenReturn, "")
	if err != nil {
		return nil, err
	}

	var value ast.Node
	if !p.check(lexer.TokenSemicolon, lexer.TokenRBrace) {
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	p.match(lexer.TokenSemicolon)

	return &ast.ReturnStmt{NodeMeta: ast.NewMeta(p.spanFrom(start)), Value: value}, nil
}

// Sugar statements

// parseVariableAssignment parses "$name = expr". The $ prefix stays part
// of the identifier name.
func (p *Parser) parseVariableAssignment() (*ast.AssignStmt, error) {
	start := p.advance()

	if _, err := p.expect(lexer.TokenAssign, "Expected '=' after variable name"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenSemicolon)

	target := &ast.Identifier{NodeMeta: ast.NewMeta(tokenSpan(start)), Name: start.Value}

	return &ast.AssignStmt{NodeMeta: ast.NewMeta(p.spanFrom(start)), Target: target, Value: value}, nil
}

// parseRepeat lowers "repeat N times { body }" to a for loop over a
// synthetic range(N) call. Without a count the loop gets a 1000-iteration
// safety bound.
func (p *Parser) parseRepeat() (*ast.ForStmt, error) {
	start, err := p.expect(lexer.TokenRepeat, "")
	if err != nil {
		return nil, err
	}

	var count ast.Node
	if tok, ok := p.match(lexer.TokenInteger); ok {
		n, _ := strconv.Atoi(tok.Value)
		count = &ast.Literal{NodeMeta: ast.NewMeta(tokenSpan(tok)), Value: n, LiteralType: ast.LitInt}
	}
	p.match(lexer.TokenTimes)

	if err := p.expectBlockStart(); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenEnd)

	span := p.spanFrom(start)
	if count == nil {
		count = &ast.Literal{NodeMeta: ast.NewMeta(span), Value: 1000, LiteralType: ast.LitInt}
	}
	rangeCall := &ast.CallExpr{NodeMeta: ast.NewMeta(span), Callee: "range", Args: []ast.Node{count}}

	return &ast.ForStmt{
		NodeMeta: ast.NewMeta(span),
		Variable: "_i",
		Iterable: rangeCall,
		Body:     body,
	}, nil
}

// parseRetry lowers "retry N times { body } [else { fallback }]" to a
// try/catch carrying the retry count. The execution runtime re-runs the
// try block up to RetryCount times before entering the catch block.
func (p *Parser) parseRetry() (*ast.TryStmt, error) {
	start, err := p.expect(lexer.TokenRetry, "")
	if err != nil {
		return nil, err
	}

	count := 3
	if tok, ok := p.match(lexer.TokenInteger); ok {
		count, _ = strconv.Atoi(tok.Value)
	}
	p.match(lexer.TokenTimes)

	if err := p.expectBlockStart(); err != nil {
		return nil, err
	}
	tryBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenEnd)

	var elseBlock *ast.BlockStmt
	if _, ok := p.match(lexer.TokenElse); ok {
		if err := p.expectBlockStart(); err != nil {
			return nil, err
		}
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		p.match(lexer.TokenEnd)
	}

	span := p.spanFrom(start)
	if elseBlock == nil {
		elseBlock = &ast.BlockStmt{NodeMeta: ast.NewMeta(span)}
	}

	return &ast.TryStmt{
		NodeMeta:   ast.NewMeta(span),
		TryBlock:   tryBlock,
		CatchVar:   "_retry_err",
		CatchBlock: elseBlock,
		RetryCount: count,
	}, nil
}

// parseMatch parses "match expr: { body }". Match is not full pattern
// matching: the whole construct lowers to a single if on the match
// expression with the body as the then branch.
func (p *Parser) parseMatch() (*ast.IfStmt, error) {
	start, err := p.expect(lexer.TokenMatch, "")
	if err != nil {
		return nil, err
	}
	matchExpr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon, "Expected ':' after match expression"); err != nil {
		return nil, err
	}

	if err := p.expectBlockStart(); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenEnd)

	return &ast.IfStmt{
		NodeMeta:   ast.NewMeta(p.spanFrom(start)),
		Condition:  matchExpr,
		ThenBranch: body,
	}, nil
}

// expectBlockStart accepts either a ':' (consumed) or a '{' (left in
// place for parseBlock).
func (p *Parser) expectBlockStart() error {
	if _, ok := p.match(lexer.TokenColon); ok {
		if !p.check(lexer.TokenLBrace) {
			cur := p.peek()
			return &parseError{d: diag.Error(diag.CodeExpectedToken,
				fmt.Sprintf("Expected '{' to open block, found %q", cur.Value), tokenSpan(cur))}
		}
		return nil
	}
	if !p.check(lexer.TokenLBrace) {
		cur := p.peek()
		return &parseError{d: diag.Error(diag.CodeExpectedToken,
			fmt.Sprintf("Expected '{' to open block, found %q", cur.Value), tokenSpan(cur))}
	}
	return nil
}

func (p *Parser) parseExpressionStatement() (ast.Node, error) {
	start := p.peek()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, ok := p.match(lexer.TokenAssign); ok {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.terminator()
		return &ast.AssignStmt{NodeMeta: ast.NewMeta(p.spanFrom(start)), Target: expr, Value: value}, nil
	}

	p.terminator()
	return &ast.ExprStmt{NodeMeta: ast.NewMeta(p.spanFrom(start)), Expr: expr}, nil
}

// terminator consumes an optional ';'. When the statement runs straight
// into a following one without any separator it records a warning; the
// last statement before a closing brace may omit the semicolon silently.
func (p *Parser) terminator() {
	if _, ok := p.match(lexer.TokenSemicolon); ok {
		return
	}
	if p.check(lexer.TokenRBrace, lexer.TokenEnd) || p.atEnd() {
		return
	}
	prev := p.peekAt(-1)
	p.diags = append(p.diags, diag.Warning(diag.CodeExpectedToken,
		"Missing ';' after statement", tokenSpan(prev)))
}

// Expression parsing

func (p *Parser) parseExpression() (ast.Node, error) {
	return p.parseOr()
}

// binary folds a left-associative run of operator tokens, normalizing
// each matched token through op.
func (p *Parser) binary(next func() (ast.Node, error), ops map[lexer.TokenType]string) (ast.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := ops[p.peek().Type]
		if !ok {
			break
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{
			NodeMeta: ast.NewMeta(left.Meta().Span.Merge(right.Meta().Span)),
			Left:     left,
			Operator: op,
			Right:    right,
		}
	}
	return left, nil
}

func (p *Parser) parseOr() (ast.Node, error) {
	return p.binary(p.parseAnd, map[lexer.TokenType]string{
		lexer.TokenOr:   "or",
		lexer.TokenOrKw: "or",
	})
}

func (p *Parser) parseAnd() (ast.Node, error) {
	return p.binary(p.parseEquality, map[lexer.TokenType]string{
		lexer.TokenAnd:   "and",
		lexer.TokenAndKw: "and",
	})
}

func (p *Parser) parseEquality() (ast.Node, error) {
	return p.binary(p.parseComparison, map[lexer.TokenType]string{
		lexer.TokenEq:  "==",
		lexer.TokenNeq: "!=",
	})
}

func (p *Parser) parseComparison() (ast.Node, error) {
	return p.binary(p.parseAdditive, map[lexer.TokenType]string{
		lexer.TokenLt:  "<",
		lexer.TokenGt:  ">",
		lexer.TokenLte: "<=",
		lexer.TokenGte: ">=",
	})
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	return p.binary(p.parseMultiplicative, map[lexer.TokenType]string{
		lexer.TokenPlus:  "+",
		lexer.TokenMinus: "-",
	})
}

func (p *Parser) parseMultiplicative() (ast.Node, error) {
	return p.binary(p.parseUnary, map[lexer.TokenType]string{
		lexer.TokenStar:    "*",
		lexer.TokenSlash:   "/",
		lexer.TokenPercent: "%",
	})
}

func (p *Parser) parseUnary() (ast.Node, error) {
	if tok, ok := p.match(lexer.TokenNot, lexer.TokenMinus); ok {
		op := "!"
		if tok.Type == lexer.TokenMinus {
			op = "-"
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{NodeMeta: ast.NewMeta(p.spanFrom(tok)), Operator: op, Operand: operand}, nil
	}
	return p.parseCall()
}

func (p *Parser) parseCall() (ast.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		if _, ok := p.match(lexer.TokenLParen); !ok {
			break
		}
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Node) (*ast.CallExpr, error) {
	var args []ast.Node
	kwargs := map[string]ast.Node{}

	if !p.check(lexer.TokenRParen) {
		for {
			if p.check(lexer.TokenIdent) && p.peekAt(1).Type == lexer.TokenAssign {
				name := p.advance().Value
				p.advance() // =
				value, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				kwargs[name] = value
			} else {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
			if _, ok := p.match(lexer.TokenComma); !ok {
				break
			}
		}
	}

	if _, err := p.expect(lexer.TokenRParen, "Expected ')' after arguments"); err != nil {
		return nil, err
	}

	calleeName := "unknown"
	if ident, ok := callee.(*ast.Identifier); ok {
		calleeName = ident.Name
	}

	span := callee.Meta().Span.Merge(tokenSpan(p.peekAt(-1)))
	return &ast.CallExpr{NodeMeta: ast.NewMeta(span), Callee: calleeName, Args: args, Kwargs: kwargs}, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	token := p.peek()

	switch token.Type {
	case lexer.TokenNull:
		p.advance()
		return &ast.Literal{NodeMeta: ast.NewMeta(tokenSpan(token)), Value: nil, LiteralType: ast.LitNull}, nil

	case lexer.TokenTrue:
		p.advance()
		return &ast.Literal{NodeMeta: ast.NewMeta(tokenSpan(token)), Value: true, LiteralType: ast.LitBool}, nil

	case lexer.TokenFalse:
		p.advance()
		return &ast.Literal{NodeMeta: ast.NewMeta(tokenSpan(token)), Value: false, LiteralType: ast.LitBool}, nil

	case lexer.TokenInteger:
		p.advance()
		n, err := strconv.Atoi(token.Value)
		if err != nil {
			return nil, &parseError{d: diag.Error(diag.CodeInvalidNumber,
				fmt.Sprintf("Invalid number %q", token.Value), tokenSpan(token))}
		}
		return &ast.Literal{NodeMeta: ast.NewMeta(tokenSpan(token)), Value: n, LiteralType: ast.LitInt}, nil

	case lexer.TokenFloat:
		p.advance()
		f, err := strconv.ParseFloat(token.Value, 64)
		if err != nil {
			return nil, &parseError{d: diag.Error(diag.CodeInvalidNumber,
				fmt.Sprintf("Invalid number %q", token.Value), tokenSpan(token))}
		}
		return &ast.Literal{NodeMeta: ast.NewMeta(tokenSpan(token)), Value: f, LiteralType: ast.LitFloat}, nil

	case lexer.TokenDuration:
		p.advance()
		return &ast.Literal{NodeMeta: ast.NewMeta(tokenSpan(token)), Value: token.Value, LiteralType: ast.LitDuration}, nil

	case lexer.TokenString:
		p.advance()
		return &ast.Literal{NodeMeta: ast.NewMeta(tokenSpan(token)), Value: token.Value, LiteralType: ast.LitString}, nil

	case lexer.TokenIdent, lexer.TokenVariable:
		p.advance()
		return &ast.Identifier{NodeMeta: ast.NewMeta(tokenSpan(token)), Name: token.Value}, nil

	case lexer.TokenLBracket:
		p.advance()
		var elements []ast.Node
		if !p.check(lexer.TokenRBracket) {
			for {
				elem, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				elements = append(elements, elem)
				if _, ok := p.match(lexer.TokenComma); !ok {
					break
				}
			}
		}
		if _, err := p.expect(lexer.TokenRBracket, "Expected ']' after array elements"); err != nil {
			return nil, err
		}
		return &ast.ArrayExpr{NodeMeta: ast.NewMeta(p.spanFrom(token)), Elements: elements}, nil

	case lexer.TokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen, "Expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, &parseError{d: unexpectedToken(token.Value, tokenSpan(token))}
}
