// Package lexer tokenizes RetroScript source into a token stream plus a
// sidecar comment stream. Lexing never halts on a bad input: unterminated
// strings, unterminated block comments and unknown characters become error
// tokens with a recorded LexError, and scanning resumes at the next
// character so the parser sees as many usable tokens as possible.
package lexer

import (
	"fmt"
	"strings"
)

// LexErrorKind classifies a lexical error.
type LexErrorKind int

const (
	ErrUnterminatedString LexErrorKind = iota
	ErrUnterminatedComment
	ErrUnexpectedChar
)

// LexError is a lexical error with source position.
type LexError struct {
	Kind    LexErrorKind
	Message string
	Line    int
	Column  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

// Lexer scans RetroScript source into tokens.
type Lexer struct {
	src      string
	pos      int
	line     int
	column   int
	tokens   []Token
	comments []Token
	errors   []*LexError
}

// New creates a new lexer for the given source.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, column: 1}
}

// Tokenize scans the whole source and returns the non-comment token stream
// (EOF included). Comments and errors are available via Comments and Errors.
func (l *Lexer) Tokenize() []Token {
	l.pos = 0
	l.line = 1
	l.column = 1
	l.tokens = nil
	l.comments = nil
	l.errors = nil

	for !l.atEnd() {
		l.scanToken()
	}
	l.tokens = append(l.tokens, Token{
		Type: TokenEOF, Line: l.line, Column: l.column,
		EndLine: l.line, EndColumn: l.column,
	})
	return l.tokens
}

// Comments returns the comment tokens collected during Tokenize.
func (l *Lexer) Comments() []Token { return l.comments }

// Errors returns the lexical errors collected during Tokenize.
func (l *Lexer) Errors() []*LexError { return l.errors }

// Tokenize is the package-level convenience entry point. It returns the
// token stream, the comment side channel, and any lexical errors.
func Tokenize(src string) ([]Token, []Token, []*LexError) {
	l := New(src)
	tokens := l.Tokenize()
	return tokens, l.comments, l.errors
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte { return l.peekAt(0) }

func (l *Lexer) peekAt(offset int) byte {
	idx := l.pos + offset
	if idx >= len(l.src) {
		return 0
	}
	return l.src[idx]
}

func (l *Lexer) advance() byte {
	ch := l.peek()
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) addToken(t TokenType, value string, startLine, startCol int) {
	tok := Token{
		Type: t, Value: value,
		Line: startLine, Column: startCol,
		EndLine: l.line, EndColumn: l.column,
	}
	if tok.IsComment() {
		l.comments = append(l.comments, tok)
	} else {
		l.tokens = append(l.tokens, tok)
	}
}

func (l *Lexer) addError(kind LexErrorKind, msg string, line, col int) {
	l.errors = append(l.errors, &LexError{Kind: kind, Message: msg, Line: line, Column: col})
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentStart(ch byte) bool { return isAlpha(ch) || ch == '_' }

func isIdentChar(ch byte) bool { return isAlpha(ch) || isDigit(ch) || ch == '_' }

func (l *Lexer) scanToken() {
	l.skipWhitespace()
	if l.atEnd() {
		return
	}

	startLine := l.line
	startCol := l.column
	ch := l.peek()

	// Newlines are insignificant whitespace.
	if ch == '\n' {
		l.advance()
		return
	}

	if ch == '/' {
		if l.peekAt(1) == '/' {
			l.scanLineComment(startLine, startCol)
			return
		}
		if l.peekAt(1) == '*' {
			l.scanBlockComment(startLine, startCol)
			return
		}
	}

	if ch == '"' || ch == '\'' {
		l.scanString(startLine, startCol)
		return
	}

	if isDigit(ch) {
		l.scanNumber(startLine, startCol)
		return
	}

	if isIdentStart(ch) {
		l.scanIdentifier(startLine, startCol)
		return
	}

	if ch == '$' {
		l.scanVariable(startLine, startCol)
		return
	}

	l.scanOperator(startLine, startCol)
}

func (l *Lexer) scanLineComment(startLine, startCol int) {
	l.advance() // /
	l.advance() // /
	start := l.pos
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
	l.addToken(TokenLineComment, "//"+l.src[start:l.pos], startLine, startCol)
}

func (l *Lexer) scanBlockComment(startLine, startCol int) {
	l.advance() // /
	l.advance() // *
	start := l.pos
	for !l.atEnd() {
		if l.peek() == '*' && l.peekAt(1) == '/' {
			value := "/*" + l.src[start:l.pos] + "*/"
			l.advance()
			l.advance()
			l.addToken(TokenBlockComment, value, startLine, startCol)
			return
		}
		l.advance()
	}
	l.addError(ErrUnterminatedComment, "Unterminated block comment", startLine, startCol)
	l.addToken(TokenError, "/*"+l.src[start:l.pos], startLine, startCol)
}

var stringEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', '\\': '\\', '"': '"', '\'': '\'',
}

func (l *Lexer) scanString(startLine, startCol int) {
	quote := l.advance()
	var b strings.Builder

	for !l.atEnd() && l.peek() != quote {
		if l.peek() == '\n' {
			l.addError(ErrUnterminatedString, "Unterminated string", startLine, startCol)
			l.addToken(TokenError, string(quote)+b.String(), startLine, startCol)
			return
		}
		if l.peek() == '\\' {
			l.advance()
			esc := l.advance()
			if mapped, ok := stringEscapes[esc]; ok {
				b.WriteByte(mapped)
			} else {
				b.WriteByte(esc)
			}
			continue
		}
		b.WriteByte(l.advance())
	}

	if l.atEnd() {
		l.addError(ErrUnterminatedString, "Unterminated string", startLine, startCol)
		l.addToken(TokenError, string(quote)+b.String(), startLine, startCol)
		return
	}

	l.advance() // closing quote
	l.addToken(TokenString, b.String(), startLine, startCol)
}

// durationUnits are the suffixes that turn a number into a duration literal.
var durationUnits = map[string]bool{"ms": true, "s": true, "m": true, "h": true}

func (l *Lexer) scanNumber(startLine, startCol int) {
	start := l.pos

	for isDigit(l.peek()) {
		l.advance()
	}

	// Fractional part: no duration suffix check on floats.
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
		l.addToken(TokenFloat, l.src[start:l.pos], startLine, startCol)
		return
	}

	// Trailing alphabetic run: duration suffix or the start of the next token.
	suffixStart := l.pos
	for isAlpha(l.peek()) {
		l.advance()
	}
	suffix := strings.ToLower(l.src[suffixStart:l.pos])
	if durationUnits[suffix] {
		l.addToken(TokenDuration, l.src[start:l.pos], startLine, startCol)
		return
	}

	// Not a duration unit: backtrack so the run is re-lexed as an identifier.
	l.column -= l.pos - suffixStart
	l.pos = suffixStart
	l.addToken(TokenInteger, l.src[start:l.pos], startLine, startCol)
}

func (l *Lexer) scanIdentifier(startLine, startCol int) {
	start := l.pos
	for isIdentChar(l.peek()) {
		l.advance()
	}
	value := l.src[start:l.pos]

	if t, ok := Keywords[strings.ToLower(value)]; ok {
		// Keywords are canonicalized to lowercase.
		l.addToken(t, strings.ToLower(value), startLine, startCol)
		return
	}
	l.addToken(TokenIdent, value, startLine, startCol)
}

// scanVariable scans a $name token. A bare '$' is an unexpected character.
func (l *Lexer) scanVariable(startLine, startCol int) {
	start := l.pos
	l.advance() // $
	if !isIdentStart(l.peek()) {
		l.addError(ErrUnexpectedChar, "Unexpected character '$'", startLine, startCol)
		l.addToken(TokenError, "$", startLine, startCol)
		return
	}
	for isIdentChar(l.peek()) {
		l.advance()
	}
	l.addToken(TokenVariable, l.src[start:l.pos], startLine, startCol)
}

var twoCharOps = []struct {
	text string
	typ  TokenType
}{
	{"==", TokenEq},
	{"!=", TokenNeq},
	{"<=", TokenLte},
	{">=", TokenGte},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"->", TokenArrow},
}

var oneCharOps = map[byte]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'%': TokenPercent,
	'<': TokenLt,
	'>': TokenGt,
	'!': TokenNot,
	'=': TokenAssign,
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	';': TokenSemicolon,
	':': TokenColon,
	',': TokenComma,
	'.': TokenDot,
}

func (l *Lexer) scanOperator(startLine, startCol int) {
	ch := l.advance()

	for _, op := range twoCharOps {
		if ch == op.text[0] && l.peek() == op.text[1] {
			l.advance()
			l.addToken(op.typ, op.text, startLine, startCol)
			return
		}
	}

	if t, ok := oneCharOps[ch]; ok {
		l.addToken(t, string(ch), startLine, startCol)
		return
	}

	l.addError(ErrUnexpectedChar, fmt.Sprintf("Unexpected character %q", string(ch)), startLine, startCol)
	l.addToken(TokenError, string(ch), startLine, startCol)
}
