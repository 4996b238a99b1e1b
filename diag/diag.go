// Package diag defines the diagnostic model shared by the lexer, parser
// and semantic analyzer: severities, stable error codes, source-anchored
// diagnostics and machine-applicable quick fixes.
package diag

import (
	"fmt"
	"sort"

	"github.com/retroauto/go-retroscript/ast"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Syntax error codes. Stable: tooling keys off these values.
const (
	CodeUnexpectedToken    = "E1001"
	CodeExpectedToken      = "E1002"
	CodeUnterminatedString = "E1003"
	CodeUnterminatedBlock  = "E1004"
	CodeInvalidNumber      = "E1005"
	CodeInvalidEscape      = "E1006"
	CodeUnexpectedEOF      = "E1007"
	CodeInvalidStatement   = "E1008"
	CodeInvalidExpression  = "E1009"
)

// Semantic error codes.
const (
	CodeUnknownAsset    = "E1101"
	CodeUnknownFlow     = "E1102"
	CodeUnknownLabel    = "E1103"
	CodeDuplicateLabel  = "E1104"
	CodeDuplicateFlow   = "E1105"
	CodeUnknownFunction = "E1106"
	CodeTypeMismatch    = "E1107"
	CodeConstReassign   = "E1108"
	CodeMissingArgument = "E1109"
)

// QuickFixKind identifies the remediation a QuickFix carries.
type QuickFixKind string

const (
	FixCaptureAsset  QuickFixKind = "capture_asset"
	FixCreateFlow    QuickFixKind = "create_flow"
	FixCreateLabel   QuickFixKind = "create_label"
	FixRenameToMatch QuickFixKind = "rename_to_match"
	FixInsertToken   QuickFixKind = "insert_token"
)

// QuickFix is a machine-applicable remediation attached to a diagnostic.
// Target is the name the fix operates on (asset, flow or label name);
// Replacement is the suggested text for rename and insert fixes.
type QuickFix struct {
	Kind        QuickFixKind `json:"kind"`
	Title       string       `json:"title"`
	Target      string       `json:"target,omitempty"`
	Replacement string       `json:"replacement,omitempty"`
}

// Diagnostic is a single finding anchored to a source span. Hint is
// optional human guidance shown alongside the message.
type Diagnostic struct {
	Severity   Severity   `json:"severity"`
	Code       string     `json:"code"`
	Message    string     `json:"message"`
	Hint       string     `json:"hint,omitempty"`
	Span       ast.Span   `json:"span"`
	QuickFixes []QuickFix `json:"quick_fixes,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s (%s)", d.Severity, d.Code, d.Message, d.Span)
}

// Error creates an error diagnostic.
func Error(code, message string, span ast.Span) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Message: message, Span: span}
}

// Warning creates a warning diagnostic.
func Warning(code, message string, span ast.Span) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Span: span}
}

// WithFix returns a copy of d with fix appended.
func (d Diagnostic) WithFix(fix QuickFix) Diagnostic {
	fixes := make([]QuickFix, len(d.QuickFixes), len(d.QuickFixes)+1)
	copy(fixes, d.QuickFixes)
	d.QuickFixes = append(fixes, fix)
	return d
}

// Sort orders diagnostics by source position, errors before warnings at
// the same position.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Span.StartLine != b.Span.StartLine {
			return a.Span.StartLine < b.Span.StartLine
		}
		if a.Span.StartCol != b.Span.StartCol {
			return a.Span.StartCol < b.Span.StartCol
		}
		return severityRank(a.Severity) < severityRank(b.Severity)
	})
}

func severityRank(s Severity) int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
