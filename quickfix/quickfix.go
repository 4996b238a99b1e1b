// Package quickfix suggests source edits for parser diagnostics: typo
// corrections against the keyword and builtin vocabulary, and insertions
// for missing block punctuation.
package quickfix

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/retroauto/go-retroscript/diag"
)

// Fix is a suggested source edit. EndCol of -1 means end of line.
type Fix struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Replacement string `json:"replacement"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	StartCol    int    `json:"start_col"`
	EndCol      int    `json:"end_col"`
}

// Keywords is the language vocabulary used for typo detection.
var Keywords = []string{
	"flow", "interrupt", "hotkeys", "const", "let",
	"if", "elif", "else", "while", "for", "in",
	"try", "catch", "break", "continue", "return",
	"repeat", "retry", "match",
	"and", "or", "end", "times",
	"true", "false", "null",
}

// Builtins lists callable names recognized for typo detection.
var Builtins = []string{
	"wait_image", "find_image", "image_exists", "wait_any",
	"click", "move", "hotkey", "type_text",
	"sleep", "run_flow", "log", "assert", "range",
}

type fixer func(line string, lineNum, col int) []Fix

// errorPattern routes a diagnostic to a fixer when the code matches and
// the message matches the pattern (nil pattern matches any message).
type errorPattern struct {
	code    string
	pattern *regexp.Regexp
	fix     fixer
}

// Provider generates quick fixes for diagnostics.
type Provider struct {
	patterns []errorPattern
}

func NewProvider() *Provider {
	p := &Provider{}
	p.patterns = []errorPattern{
		{
			code:    diag.CodeUnexpectedToken,
			pattern: regexp.MustCompile(`Unexpected token "(\w+)"`),
			fix:     fixTypo,
		},
		{
			code:    diag.CodeExpectedToken,
			pattern: regexp.MustCompile(`Missing ';'`),
			fix:     fixMissingSemicolon,
		},
		{
			code:    diag.CodeExpectedToken,
			pattern: regexp.MustCompile(`Expected \}`),
			fix:     fixMissingBrace,
		},
		{
			code:    diag.CodeExpectedToken,
			pattern: regexp.MustCompile(`Expected ':'`),
			fix:     fixMissingColon,
		},
		{
			code:    diag.CodeExpectedToken,
			pattern: regexp.MustCompile(`Expected '\{' to open block`),
			fix:     fixMissingBlockOpen,
		},
	}
	return p
}

// Fixes returns the fixes applicable to a diagnostic. sourceLine is the
// text of the line the diagnostic starts on.
func (p *Provider) Fixes(d diag.Diagnostic, sourceLine string) []Fix {
	var fixes []Fix
	for _, ep := range p.patterns {
		if ep.code != "" && d.Code != ep.code {
			continue
		}
		if ep.pattern != nil && !ep.pattern.MatchString(d.Message) {
			continue
		}
		fixes = append(fixes, ep.fix(sourceLine, d.Span.StartLine, d.Span.StartCol)...)
	}
	return fixes
}

// FixesForSource resolves the diagnostic's line from full source text.
func (p *Provider) FixesForSource(d diag.Diagnostic, source string) []Fix {
	lines := strings.Split(source, "\n")
	idx := d.Span.StartLine - 1
	if idx < 0 || idx >= len(lines) {
		return nil
	}
	return p.Fixes(d, lines[idx])
}

var wordRe = regexp.MustCompile(`\b\w+\b`)

func fixTypo(line string, lineNum, col int) []Fix {
	word, start := wordAt(line, col)
	if word == "" {
		return nil
	}

	vocab := append(append([]string{}, Keywords...), Builtins...)
	var fixes []Fix
	for _, match := range closeMatches(strings.ToLower(word), vocab, 3, 0.6) {
		fixes = append(fixes, Fix{
			Title:       fmt.Sprintf("Change to '%s'", match),
			Description: fmt.Sprintf("Did you mean '%s'?", match),
			Replacement: match,
			StartLine:   lineNum,
			EndLine:     lineNum,
			StartCol:    start,
			EndCol:      start + len(word),
		})
	}
	return fixes
}

// wordAt finds the word covering the column, or the word starting there.
func wordAt(line string, col int) (string, int) {
	for _, loc := range wordRe.FindAllStringIndex(line, -1) {
		if loc[0] <= col && col < loc[1] {
			return line[loc[0]:loc[1]], loc[0]
		}
	}
	return "", 0
}

func fixMissingSemicolon(line string, lineNum, col int) []Fix {
	stripped := strings.TrimRight(line, " \t")
	if strings.HasSuffix(stripped, ";") || strings.HasSuffix(stripped, "{") {
		return nil
	}
	return []Fix{{
		Title:       "Add semicolon",
		Description: "Add ';' at end of statement",
		Replacement: stripped + ";",
		StartLine:   lineNum,
		EndLine:     lineNum,
		EndCol:      -1,
	}}
}

func fixMissingBrace(line string, lineNum, col int) []Fix {
	if strings.Count(line, "{") <= strings.Count(line, "}") {
		return nil
	}
	return []Fix{{
		Title:       "Add closing brace",
		Description: "Add '}' to close block",
		Replacement: strings.TrimRight(line, " \t") + "\n}",
		StartLine:   lineNum,
		EndLine:     lineNum,
		EndCol:      -1,
	}}
}

var blockKeywords = []string{"repeat", "retry", "match", "if", "elif", "else", "while", "for"}

func fixMissingColon(line string, lineNum, col int) []Fix {
	stripped := strings.TrimRight(line, " \t")
	if strings.HasSuffix(stripped, ":") || strings.HasSuffix(stripped, "{") {
		return nil
	}
	trimmed := strings.TrimLeft(stripped, " \t")
	for _, kw := range blockKeywords {
		if trimmed == kw || strings.HasPrefix(trimmed, kw+" ") || strings.HasPrefix(trimmed, kw+"(") {
			return []Fix{{
				Title:       "Add colon",
				Description: "Add ':' after block keyword",
				Replacement: stripped + ":",
				StartLine:   lineNum,
				EndLine:     lineNum,
				EndCol:      -1,
			}}
		}
	}
	return nil
}

func fixMissingBlockOpen(line string, lineNum, col int) []Fix {
	stripped := strings.TrimRight(line, " \t")
	if strings.HasSuffix(stripped, "{") || strings.HasSuffix(stripped, ":") {
		return nil
	}
	return []Fix{{
		Title:       "Add opening brace",
		Description: "Add '{' to open block",
		Replacement: stripped + " {",
		StartLine:   lineNum,
		EndLine:     lineNum,
		EndCol:      -1,
	}}
}

// closeMatches returns up to n candidates whose similarity to word meets
// the cutoff, best first. Similarity is normalized edit distance.
func closeMatches(word string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		word  string
		score float64
	}
	var ranked []scored
	for _, c := range candidates {
		if s := similarity(word, c); s >= cutoff {
			ranked = append(ranked, scored{c, s})
		}
	}
	// Stable sort keeps vocabulary order among equal scores.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].score > ranked[j-1].score; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.word
	}
	return out
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(a, b))/float64(longest)
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
