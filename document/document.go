// Package document implements the script document coordinator: the
// single owner of one text buffer and one ScriptIR, keeping both in
// sync as edits arrive from the code editor or from GUI panels.
//
// The coordinator has no internal concurrency and is not thread-safe.
// Callers route all edits through it sequentially, typically from a UI
// event loop with a debounce timer in front.
package document

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/retroauto/go-retroscript/cache"
	"github.com/retroauto/go-retroscript/diag"
	"github.com/retroauto/go-retroscript/ir"
	"github.com/retroauto/go-retroscript/parser"
	"github.com/retroauto/go-retroscript/semantic"
)

// State is the document sync state.
type State string

const (
	// StateValid: the buffer parses and the IR mirrors it.
	StateValid State = "valid"
	// StateError: the buffer does not parse; the IR is the last good one.
	StateError State = "error"
	// StatePartial: the buffer looks mid-keystroke and was not parsed.
	StatePartial State = "partial"
)

// recoveryHints maps common parse error messages to suggestions shown
// next to the diagnostics.
var recoveryHints = []struct {
	pattern *regexp.Regexp
	hint    string
}{
	{regexp.MustCompile(`Expected ';'|Expected semicolon`), "Insert ';' at the end of the statement"},
	{regexp.MustCompile(`Expected \)`), "Check for a missing closing parenthesis"},
	{regexp.MustCompile(`Expected \}`), "Check for a missing closing brace"},
	{regexp.MustCompile(`Expected '\{' to open block`), "Open the block with '{'"},
	{regexp.MustCompile(`Unterminated string`), "Close the string with a matching quote"},
	{regexp.MustCompile(`Unterminated block comment`), "Close the comment with '*/'"},
	{regexp.MustCompile(`Unexpected token`), "Remove or complete the highlighted token"},
	{regexp.MustCompile(`Unexpected character`), "Remove the highlighted character"},
}

// Document coordinates the text buffer, the IR and their listeners.
type Document struct {
	script *ir.ScriptIR
	code   string
	state  State
	dirty  bool

	diags []diag.Diagnostic
	hints []string

	onIRChanged   []func(change string)
	onCodeChanged []func(source string)
	onError       []func(diags []diag.Diagnostic)

	// Suppresses re-entrant sync while code is being regenerated
	// from the IR.
	syncEnabled bool

	parses *cache.ParseCache

	log zerolog.Logger
}

// New creates an empty document.
func New(log zerolog.Logger) *Document {
	return &Document{
		script:      ir.NewScript(),
		state:       StateValid,
		syncEnabled: true,
		parses:      cache.New(64),
		log:         log.With().Str("component", "document").Logger(),
	}
}

// NewScript resets the document to a fresh script with an empty main
// flow.
func (d *Document) NewScript() {
	d.script = ir.NewScript()
	d.script.AddFlow(ir.FlowIR{Name: "main"})
	d.code = ir.IRToCode(d.script)
	d.state = StateValid
	d.dirty = false
	d.diags = nil
	d.hints = nil
	d.notifyIRChanged("new")
	d.notifyCodeChanged("new")
}

// IR returns the current script IR. In StateError this is the last
// successfully parsed IR, not a projection of the broken buffer.
func (d *Document) IR() *ir.ScriptIR { return d.script }

// Code returns the current text buffer.
func (d *Document) Code() string { return d.code }

// State returns the sync state.
func (d *Document) State() State { return d.state }

// IsDirty reports whether the document has unsaved changes.
func (d *Document) IsDirty() bool { return d.dirty }

// IsValid reports whether the buffer parsed successfully.
func (d *Document) IsValid() bool { return d.state == StateValid }

// Diagnostics returns the parse diagnostics of the last failed update.
func (d *Document) Diagnostics() []diag.Diagnostic { return d.diags }

// RecoveryHints returns suggestions derived from the last parse errors.
func (d *Document) RecoveryHints() []string { return d.hints }

// Listener registration.

func (d *Document) OnIRChanged(fn func(change string)) { d.onIRChanged = append(d.onIRChanged, fn) }

func (d *Document) OnCodeChanged(fn func(source string)) {
	d.onCodeChanged = append(d.onCodeChanged, fn)
}

func (d *Document) OnError(fn func(diags []diag.Diagnostic)) { d.onError = append(d.onError, fn) }

func (d *Document) notifyIRChanged(change string) {
	for _, fn := range d.onIRChanged {
		fn(change)
	}
}

func (d *Document) notifyCodeChanged(source string) {
	for _, fn := range d.onCodeChanged {
		fn(source)
	}
}

func (d *Document) notifyErrors(diags []diag.Diagnostic) {
	for _, fn := range d.onError {
		fn(diags)
	}
}

// UpdateFromCode applies an editor change. Buffers that look like they
// are mid-keystroke are parked in StatePartial without parsing, to
// avoid diagnostic spam while the user is still typing. Otherwise the
// buffer is parsed: on success the IR is replaced, on failure the
// previous IR is kept and recovery hints are attached.
func (d *Document) UpdateFromCode(newCode, source string) {
	if !d.syncEnabled {
		return
	}

	previous := d.code
	d.code = newCode
	d.dirty = true

	if looksMidEdit(previous, newCode) {
		d.state = StatePartial
		d.log.Debug().Str("source", source).Msg("buffer looks mid-edit, parse deferred")
		return
	}

	script, diags := d.parses.Parse(newCode)

	if diag.HasErrors(diags) {
		// Keep the previous IR for graceful degradation.
		d.script.IsValid = false
		d.script.ParseErrors = script.ParseErrors
		d.state = StateError
		d.diags = diags
		d.hints = hintsFor(diags)
		d.log.Debug().Str("source", source).Int("errors", len(diags)).Msg("parse failed, keeping last good IR")
		d.notifyErrors(diags)
		return
	}

	d.script = script
	d.state = StateValid
	d.diags = nil
	d.hints = nil
	d.log.Debug().Str("source", source).Int("flows", len(script.Flows)).Msg("parsed")
	d.notifyIRChanged("code_" + source)
}

// looksMidEdit is the still-typing heuristic: trailing open paren,
// brace or comma, an unterminated string on the final line, or a
// trailing alphanumeric character while the buffer is growing.
func looksMidEdit(previous, code string) bool {
	trimmed := strings.TrimRight(code, " \t\n\r")
	if trimmed == "" {
		return false
	}

	switch trimmed[len(trimmed)-1] {
	case '(', '{', ',':
		return true
	}

	// Strings cannot span lines, so an odd quote count matters only on
	// the line the cursor is on. Earlier broken strings should parse
	// and surface their diagnostics.
	lastLine := trimmed
	if i := strings.LastIndexByte(trimmed, '\n'); i >= 0 {
		lastLine = trimmed[i+1:]
	}
	if oddUnescapedQuotes(lastLine) {
		return true
	}

	last := trimmed[len(trimmed)-1]
	growing := len(code) > len(previous)
	if growing && (isAlnum(last) || last == '_' || last == '$') {
		return true
	}
	return false
}

func oddUnescapedQuotes(s string) bool {
	var doubles, singles int
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		switch s[i] {
		case '"':
			doubles++
		case '\'':
			singles++
		}
	}
	return doubles%2 == 1 || singles%2 == 1
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func hintsFor(diags []diag.Diagnostic) []string {
	var hints []string
	seen := map[string]bool{}
	for _, d := range diags {
		for _, h := range recoveryHints {
			if h.pattern.MatchString(d.Message) && !seen[h.hint] {
				hints = append(hints, h.hint)
				seen[h.hint] = true
				break
			}
		}
	}
	return hints
}

// regenerateCode rebuilds the buffer from the IR with re-entrant sync
// suppressed, so the resulting code-changed notification cannot loop
// back into UpdateFromCode.
func (d *Document) regenerateCode() {
	if !d.script.IsValid {
		return
	}

	d.syncEnabled = false
	defer func() { d.syncEnabled = true }()

	d.code = ir.IRToCode(d.script)
	d.state = StateValid
	d.notifyCodeChanged("gui")
}

// Structural IR operations, used by GUI panels.

// AddFlow appends an empty flow and regenerates the buffer.
func (d *Document) AddFlow(name string) *ir.FlowIR {
	d.script.Flows = append(d.script.Flows, ir.FlowIR{Name: name})
	d.dirty = true
	d.regenerateCode()
	d.notifyIRChanged("flow_added")
	return &d.script.Flows[len(d.script.Flows)-1]
}

// RemoveFlow deletes a flow by name and regenerates the buffer.
func (d *Document) RemoveFlow(name string) {
	d.script.RemoveFlow(name)
	d.dirty = true
	d.regenerateCode()
	d.notifyIRChanged("flow_removed")
}

// AddAction appends an action to the named flow.
func (d *Document) AddAction(flowName string, action ir.ActionIR) {
	flow := d.script.Flow(flowName)
	if flow == nil {
		return
	}
	flow.Actions = append(flow.Actions, action)
	d.dirty = true
	d.regenerateCode()
	d.notifyIRChanged("action_added")
}

// AddAsset registers a captured asset. Assets do not appear in code,
// so no regeneration happens.
func (d *Document) AddAsset(asset ir.AssetIR) {
	d.script.Assets = append(d.script.Assets, asset)
	d.dirty = true
	d.notifyIRChanged("asset_added")
}

// RemoveAsset deletes an asset by id.
func (d *Document) RemoveAsset(id string) {
	d.script.RemoveAsset(id)
	d.dirty = true
	d.notifyIRChanged("asset_removed")
}

// Validate parses the buffer and runs semantic analysis against the
// script's captured assets, returning all diagnostics.
func (d *Document) Validate() []diag.Diagnostic {
	if d.state == StateError {
		return d.diags
	}

	program, diags := parser.Parse(d.code)
	if diag.HasErrors(diags) {
		return diags
	}

	assetIDs := make([]string, 0, len(d.script.Assets))
	for _, a := range d.script.Assets {
		assetIDs = append(assetIDs, a.ID)
	}
	return append(diags, semantic.Analyze(program, assetIDs)...)
}
