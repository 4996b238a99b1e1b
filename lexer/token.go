package lexer

import "fmt"

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenInteger  // 123
	TokenFloat    // 1.5
	TokenString   // "hello" or 'hello'
	TokenDuration // 250ms, 2s, 1m
	TokenTrue     // true
	TokenFalse    // false
	TokenNull     // null

	// Identifiers
	TokenIdent    // variable and function names
	TokenVariable // $name

	// Keywords
	TokenFlow
	TokenInterrupt
	TokenPriority
	TokenWhen
	TokenImage
	TokenConst
	TokenLet
	TokenIf
	TokenElif
	TokenElse
	TokenWhile
	TokenFor
	TokenIn
	TokenLabel
	TokenGoto
	TokenTry
	TokenCatch
	TokenBreak
	TokenContinue
	TokenReturn
	TokenHotkeys
	TokenRepeat
	TokenRetry
	TokenMatch
	TokenTimes
	TokenEnd
	TokenAndKw // 'and' keyword form of &&
	TokenOrKw  // 'or' keyword form of ||

	// Operators
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %
	TokenEq      // ==
	TokenNeq     // !=
	TokenLt      // <
	TokenGt      // >
	TokenLte     // <=
	TokenGte     // >=
	TokenAnd     // &&
	TokenOr      // ||
	TokenNot     // !
	TokenAssign  // =

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenSemicolon // ;
	TokenColon     // :
	TokenComma     // ,
	TokenDot       // .
	TokenArrow     // ->

	// Comments are collected on a side channel for the formatter.
	TokenLineComment  // // ...
	TokenBlockComment // /* ... */
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "eof",
	TokenError:        "error",
	TokenInteger:      "integer",
	TokenFloat:        "float",
	TokenString:       "string",
	TokenDuration:     "duration",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenNull:         "null",
	TokenIdent:        "identifier",
	TokenVariable:     "variable",
	TokenFlow:         "flow",
	TokenInterrupt:    "interrupt",
	TokenPriority:     "priority",
	TokenWhen:         "when",
	TokenImage:        "image",
	TokenConst:        "const",
	TokenLet:          "let",
	TokenIf:           "if",
	TokenElif:         "elif",
	TokenElse:         "else",
	TokenWhile:        "while",
	TokenFor:          "for",
	TokenIn:           "in",
	TokenLabel:        "label",
	TokenGoto:         "goto",
	TokenTry:          "try",
	TokenCatch:        "catch",
	TokenBreak:        "break",
	TokenContinue:     "continue",
	TokenReturn:       "return",
	TokenHotkeys:      "hotkeys",
	TokenRepeat:       "repeat",
	TokenRetry:        "retry",
	TokenMatch:        "match",
	TokenTimes:        "times",
	TokenEnd:          "end",
	TokenAndKw:        "and",
	TokenOrKw:         "or",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenPercent:      "%",
	TokenEq:           "==",
	TokenNeq:          "!=",
	TokenLt:           "<",
	TokenGt:           ">",
	TokenLte:          "<=",
	TokenGte:          ">=",
	TokenAnd:          "&&",
	TokenOr:           "||",
	TokenNot:          "!",
	TokenAssign:       "=",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenLBrace:       "{",
	TokenRBrace:       "}",
	TokenLBracket:     "[",
	TokenRBracket:     "]",
	TokenSemicolon:    ";",
	TokenColon:        ":",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenArrow:        "->",
	TokenLineComment:  "line comment",
	TokenBlockComment: "block comment",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Keywords maps lowercase keyword text to its token type.
// Lookup is case-insensitive; matched keywords are canonicalized to lowercase.
var Keywords = map[string]TokenType{
	"flow":      TokenFlow,
	"interrupt": TokenInterrupt,
	"priority":  TokenPriority,
	"when":      TokenWhen,
	"image":     TokenImage,
	"const":     TokenConst,
	"let":       TokenLet,
	"if":        TokenIf,
	"elif":      TokenElif,
	"else":      TokenElse,
	"while":     TokenWhile,
	"for":       TokenFor,
	"in":        TokenIn,
	"label":     TokenLabel,
	"goto":      TokenGoto,
	"try":       TokenTry,
	"catch":     TokenCatch,
	"break":     TokenBreak,
	"continue":  TokenContinue,
	"return":    TokenReturn,
	"hotkeys":   TokenHotkeys,
	"repeat":    TokenRepeat,
	"retry":     TokenRetry,
	"match":     TokenMatch,
	"times":     TokenTimes,
	"end":       TokenEnd,
	"and":       TokenAndKw,
	"or":        TokenOrKw,
	"true":      TokenTrue,
	"false":     TokenFalse,
	"null":      TokenNull,
}

// Token represents a single token from the lexer. Tokens are immutable:
// produced once by the lexer and never mutated afterwards.
type Token struct {
	Type      TokenType
	Value     string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d:%d}", t.Type, t.Value, t.Line, t.Column)
}

// IsComment reports whether the token belongs on the comment side channel.
func (t Token) IsComment() bool {
	return t.Type == TokenLineComment || t.Type == TokenBlockComment
}
