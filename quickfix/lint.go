package quickfix

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/retroauto/go-retroscript/diag"
)

// Finding is a lightweight per-line lint result. Unlike a parser
// diagnostic it carries no span, only a line number, and may include a
// remediation suggestion.
type Finding struct {
	Message    string        `json:"message"`
	Line       int           `json:"line"`
	Severity   diag.Severity `json:"severity"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// Linter runs fast line-based checks that do not require a successful
// parse, so an editor can surface hints while the buffer is broken.
type Linter struct {
	variables map[string]bool
	flows     map[string]bool
}

func NewLinter() *Linter {
	return &Linter{
		variables: map[string]bool{},
		flows:     map[string]bool{},
	}
}

var (
	flowDefRe = regexp.MustCompile(`^flow\s+(\w+)`)
	varDefRe  = regexp.MustCompile(`^\$(\w+)\s*=`)
	letDefRe  = regexp.MustCompile(`^(?:let|const)\s+(\w+)`)
	varUseRe  = regexp.MustCompile(`\$(\w+)`)
	lowerRe   = regexp.MustCompile(`\b([a-z_]+)\b`)
)

// Lint scans the source and returns findings in line order.
func (l *Linter) Lint(source string) []Finding {
	lines := strings.Split(source, "\n")

	l.variables = map[string]bool{}
	l.flows = map[string]bool{}
	for _, line := range lines {
		l.collectDefinitions(strings.TrimSpace(line))
	}

	var findings []Finding
	for i, line := range lines {
		findings = append(findings, l.lintLine(strings.TrimSpace(line), i+1)...)
	}
	return findings
}

func (l *Linter) collectDefinitions(line string) {
	if m := flowDefRe.FindStringSubmatch(line); m != nil {
		l.flows[m[1]] = true
	}
	if m := varDefRe.FindStringSubmatch(line); m != nil {
		l.variables[m[1]] = true
	}
	if m := letDefRe.FindStringSubmatch(line); m != nil {
		l.variables[m[1]] = true
	}
}

func (l *Linter) lintLine(line string, lineNum int) []Finding {
	var findings []Finding
	if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
		return nil
	}

	for _, m := range varUseRe.FindAllStringSubmatch(line, -1) {
		name := m[1]
		rest := strings.TrimSpace(strings.TrimPrefix(line, "$"+name))
		if strings.HasPrefix(line, "$"+name) && strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "==") {
			continue
		}
		if !l.variables[name] {
			findings = append(findings, Finding{
				Message:    fmt.Sprintf("Undefined variable: $%s", name),
				Line:       lineNum,
				Severity:   diag.SeverityWarning,
				Suggestion: fmt.Sprintf("Did you mean to define it? Use: $%s = value", name),
			})
		}
	}

	if strings.Count(line, "{") > strings.Count(line, "}") && !strings.HasSuffix(line, "{") {
		findings = append(findings, Finding{
			Message:  "Possible unclosed brace",
			Line:     lineNum,
			Severity: diag.SeverityWarning,
		})
	}

	vocab := append(append([]string{}, Keywords...), Builtins...)
	known := map[string]bool{}
	for _, w := range vocab {
		known[w] = true
	}
	for _, m := range lowerRe.FindAllStringSubmatch(strings.ToLower(line), -1) {
		word := m[1]
		if len(word) <= 3 || known[word] {
			continue
		}
		matches := closeMatches(word, vocab, 1, 0.85)
		if len(matches) > 0 && matches[0] != word {
			findings = append(findings, Finding{
				Message:  fmt.Sprintf("Possible typo: '%s'. Did you mean '%s'?", word, matches[0]),
				Line:     lineNum,
				Severity: diag.SeverityHint,
			})
		}
	}

	return findings
}

// Flows reports the flow names seen by the last Lint call.
func (l *Linter) Flows() []string {
	var names []string
	for name := range l.flows {
		names = append(names, name)
	}
	return names
}
