package eventlog

import (
	"fmt"

	"github.com/retroauto/go-retroscript/diag"
	"github.com/retroauto/go-retroscript/document"
)

// Attach subscribes the journal to a document's change notifications.
// Recording is best effort; a full disk never blocks editing.
func Attach(j *Journal, doc *document.Document) {
	doc.OnIRChanged(func(change string) {
		_ = j.GUIEdit(change)
	})
	doc.OnCodeChanged(func(source string) {
		_ = j.CodeEdit(source, doc.Code())
	})
	doc.OnError(func(diags []diag.Diagnostic) {
		_ = j.Error(fmt.Sprintf("%d parse error(s)", len(diags)))
	})
}
