package lexer

import "testing"

type tok struct {
	typ   TokenType
	value string
}

func lexTokens(t *testing.T, src string) []Token {
	t.Helper()
	tokens, _, _ := Tokenize(src)
	return tokens
}

func checkTokens(t *testing.T, src string, want []tok) {
	t.Helper()
	got := lexTokens(t, src)
	if len(got) != len(want) {
		t.Fatalf("token count for %q: got %d, want %d (%v)", src, len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Type != w.typ {
			t.Errorf("token %d of %q: got type %s, want %s", i, src, got[i].Type, w.typ)
		}
		if got[i].Value != w.value {
			t.Errorf("token %d of %q: got value %q, want %q", i, src, got[i].Value, w.value)
		}
	}
}

func TestDurationLiterals(t *testing.T) {
	checkTokens(t, "100ms 5s 42 3.14", []tok{
		{TokenDuration, "100ms"},
		{TokenDuration, "5s"},
		{TokenInteger, "42"},
		{TokenFloat, "3.14"},
		{TokenEOF, ""},
	})
}

func TestDurationBacktrack(t *testing.T) {
	// "10x" is not a duration: the suffix is re-lexed as an identifier.
	checkTokens(t, "10x", []tok{
		{TokenInteger, "10"},
		{TokenIdent, "x"},
		{TokenEOF, ""},
	})
	checkTokens(t, "2m 90h 7d", []tok{
		{TokenDuration, "2m"},
		{TokenDuration, "90h"},
		{TokenInteger, "7"},
		{TokenIdent, "d"},
		{TokenEOF, ""},
	})
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	checkTokens(t, "FLOW main { IF x { } }", []tok{
		{TokenFlow, "flow"},
		{TokenIdent, "main"},
		{TokenLBrace, "{"},
		{TokenIf, "if"},
		{TokenIdent, "x"},
		{TokenLBrace, "{"},
		{TokenRBrace, "}"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	})
}

func TestIdentifierCasePreserved(t *testing.T) {
	checkTokens(t, "MyVar", []tok{
		{TokenIdent, "MyVar"},
		{TokenEOF, ""},
	})
}

func TestStringEscapes(t *testing.T) {
	checkTokens(t, `"a\nb" 'c\td'`, []tok{
		{TokenString, "a\nb"},
		{TokenString, "c\td"},
		{TokenEOF, ""},
	})
}

func TestUnterminatedString(t *testing.T) {
	tokens, _, errs := Tokenize("\"abc\nx")
	if len(errs) != 1 {
		t.Fatalf("got %d lexer errors, want 1", len(errs))
	}
	if errs[0].Kind != ErrUnterminatedString {
		t.Errorf("got error kind %v, want ErrUnterminatedString", errs[0].Kind)
	}
	// Lexing continues after the error.
	var idents int
	for _, tok := range tokens {
		if tok.Type == TokenIdent {
			idents++
		}
	}
	if idents != 1 {
		t.Errorf("got %d identifiers after error, want 1", idents)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, _, errs := Tokenize("/* never closed")
	if len(errs) != 1 {
		t.Fatalf("got %d lexer errors, want 1", len(errs))
	}
	if errs[0].Kind != ErrUnterminatedComment {
		t.Errorf("got error kind %v, want ErrUnterminatedComment", errs[0].Kind)
	}
}

func TestCommentSideChannel(t *testing.T) {
	src := "// leading\nclick(1); /* inline */"
	tokens, comments, errs := Tokenize(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if comments[0].Type != TokenLineComment || comments[0].Value != "// leading" {
		t.Errorf("comment 0: got %s %q", comments[0].Type, comments[0].Value)
	}
	if comments[1].Type != TokenBlockComment || comments[1].Value != "/* inline */" {
		t.Errorf("comment 1: got %s %q", comments[1].Type, comments[1].Value)
	}
	for _, tok := range tokens {
		if tok.IsComment() {
			t.Errorf("comment token leaked into main stream: %v", tok)
		}
	}
}

func TestVariables(t *testing.T) {
	checkTokens(t, "$count = 5", []tok{
		{TokenVariable, "$count"},
		{TokenAssign, "="},
		{TokenInteger, "5"},
		{TokenEOF, ""},
	})
}

func TestOperators(t *testing.T) {
	checkTokens(t, "a == b != c <= d >= e && f || !g -> h", []tok{
		{TokenIdent, "a"},
		{TokenEq, "=="},
		{TokenIdent, "b"},
		{TokenNeq, "!="},
		{TokenIdent, "c"},
		{TokenLte, "<="},
		{TokenIdent, "d"},
		{TokenGte, ">="},
		{TokenIdent, "e"},
		{TokenAnd, "&&"},
		{TokenIdent, "f"},
		{TokenOr, "||"},
		{TokenNot, "!"},
		{TokenIdent, "g"},
		{TokenArrow, "->"},
		{TokenIdent, "h"},
		{TokenEOF, ""},
	})
}

func TestUnrecognizedCharacter(t *testing.T) {
	tokens, _, errs := Tokenize("a @ b")
	if len(errs) != 1 {
		t.Fatalf("got %d lexer errors, want 1", len(errs))
	}
	if errs[0].Kind != ErrUnexpectedChar {
		t.Errorf("got error kind %v, want ErrUnexpectedChar", errs[0].Kind)
	}
	var idents []string
	for _, tok := range tokens {
		if tok.Type == TokenIdent {
			idents = append(idents, tok.Value)
		}
	}
	if len(idents) != 2 || idents[0] != "a" || idents[1] != "b" {
		t.Errorf("recovery failed, got identifiers %v", idents)
	}
}

func TestPositions(t *testing.T) {
	tokens := lexTokens(t, "flow main {\n  click(1);\n}")
	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Errorf("flow at %d:%d, want 1:1", tokens[0].Line, tokens[0].Column)
	}
	var click Token
	for _, tok := range tokens {
		if tok.Value == "click" {
			click = tok
		}
	}
	if click.Line != 2 || click.Column != 3 {
		t.Errorf("click at %d:%d, want 2:3", click.Line, click.Column)
	}
}
