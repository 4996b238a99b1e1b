package diag

import (
	"fmt"

	"github.com/retroauto/go-retroscript/ast"
)

// UnknownAsset reports a reference to an asset that has not been
// captured, with a capture quick fix attached.
func UnknownAsset(assetID string, span ast.Span) Diagnostic {
	d := Error(CodeUnknownAsset, fmt.Sprintf("Unknown asset %q", assetID), span)
	d.Hint = fmt.Sprintf("Asset %q is not defined. Capture it first.", assetID)
	d.QuickFixes = []QuickFix{{
		Kind:   FixCaptureAsset,
		Title:  fmt.Sprintf("Capture new asset %q", assetID),
		Target: assetID,
	}}
	return d
}

// UnknownFlow reports a run_flow reference to an undeclared flow.
func UnknownFlow(flowName string, span ast.Span) Diagnostic {
	d := Error(CodeUnknownFlow, fmt.Sprintf("Unknown flow %q", flowName), span)
	d.Hint = "Define the flow or check the name spelling"
	d.QuickFixes = []QuickFix{{
		Kind:   FixCreateFlow,
		Title:  fmt.Sprintf("Create flow %q", flowName),
		Target: flowName,
	}}
	return d
}

// UnknownLabel reports a goto whose target label does not exist in the
// current flow.
func UnknownLabel(labelName string, span ast.Span) Diagnostic {
	d := Error(CodeUnknownLabel, fmt.Sprintf("Unknown label %q", labelName), span)
	d.Hint = "Define the label before using goto"
	return d
}

// DuplicateLabel reports a label declared twice in one flow.
func DuplicateLabel(labelName string, span, originalSpan ast.Span) Diagnostic {
	d := Error(CodeDuplicateLabel, fmt.Sprintf("Duplicate label %q", labelName), span)
	d.Hint = fmt.Sprintf("Label was first defined at line %d", originalSpan.StartLine)
	return d
}

// DuplicateFlow reports a flow declared twice.
func DuplicateFlow(flowName string, span, originalSpan ast.Span) Diagnostic {
	d := Error(CodeDuplicateFlow, fmt.Sprintf("Duplicate flow %q", flowName), span)
	d.Hint = fmt.Sprintf("Flow was first defined at line %d", originalSpan.StartLine)
	return d
}

// MissingArgument reports a builtin call missing a required argument.
func MissingArgument(funcName, argName string, span ast.Span) Diagnostic {
	return Error(CodeMissingArgument,
		fmt.Sprintf("Missing required argument %q for %s", argName, funcName), span)
}

// TypeMismatch reports an argument of the wrong type.
func TypeMismatch(expected, got string, span ast.Span) Diagnostic {
	return Error(CodeTypeMismatch,
		fmt.Sprintf("Type mismatch: expected %s, got %s", expected, got), span)
}
