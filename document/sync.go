package document

import (
	"github.com/rs/zerolog"

	"github.com/retroauto/go-retroscript/ir"
)

// SyncManager sits between an editor/GUI host and a Document. Editor
// keystrokes are buffered and applied when the host's debounce timer
// fires Flush; GUI action edits apply immediately. A sync lock prevents
// the resulting notifications from feeding back into another sync.
//
// The manager owns no timer: debouncing is the host's job, on its own
// event loop, matching the document's single-threaded-cooperative
// contract.
type SyncManager struct {
	doc        *Document
	lock       bool
	pending    string
	hasPending bool
	log        zerolog.Logger
}

// NewSyncManager wraps doc.
func NewSyncManager(doc *Document, log zerolog.Logger) *SyncManager {
	return &SyncManager{
		doc: doc,
		log: log.With().Str("component", "sync").Logger(),
	}
}

// Document returns the managed document.
func (m *SyncManager) Document() *Document { return m.doc }

// OnCodeChanged buffers an editor change. The host calls Flush when its
// debounce interval elapses.
func (m *SyncManager) OnCodeChanged(newCode string) {
	if m.lock {
		return
	}
	m.pending = newCode
	m.hasPending = true
}

// Flush applies the buffered editor change, if any.
func (m *SyncManager) Flush() {
	if m.lock || !m.hasPending {
		return
	}
	m.lock = true
	defer func() { m.lock = false }()

	m.doc.UpdateFromCode(m.pending, "editor")
	m.hasPending = false
}

// OnCodeSaved applies code immediately, discarding any pending
// debounced change.
func (m *SyncManager) OnCodeSaved(code string) {
	if m.lock {
		m.log.Warn().Msg("save ignored, sync in progress")
		return
	}
	m.pending = ""
	m.hasPending = false

	m.lock = true
	defer func() { m.lock = false }()

	m.doc.UpdateFromCode(code, "editor")
	m.log.Info().Bool("valid", m.doc.IsValid()).Int("flows", len(m.doc.IR().Flows)).Msg("saved")
}

// CancelPendingSync drops any buffered editor change.
func (m *SyncManager) CancelPendingSync() {
	m.pending = ""
	m.hasPending = false
}

// OnActionChanged replaces the action at index in the named flow and
// regenerates code immediately.
func (m *SyncManager) OnActionChanged(flowName string, index int, action ir.ActionIR) {
	m.guiEdit(flowName, func(flow *ir.FlowIR) bool {
		if index < 0 || index >= len(flow.Actions) {
			return false
		}
		flow.Actions[index] = action
		return true
	}, "gui_action_changed")
}

// OnActionAdded inserts an action at index, or appends when index is
// out of range.
func (m *SyncManager) OnActionAdded(flowName string, index int, action ir.ActionIR) {
	m.guiEdit(flowName, func(flow *ir.FlowIR) bool {
		if index < 0 || index >= len(flow.Actions) {
			flow.Actions = append(flow.Actions, action)
			return true
		}
		flow.Actions = append(flow.Actions[:index], append([]ir.ActionIR{action}, flow.Actions[index:]...)...)
		return true
	}, "gui_action_added")
}

// OnActionRemoved deletes the action at index.
func (m *SyncManager) OnActionRemoved(flowName string, index int) {
	m.guiEdit(flowName, func(flow *ir.FlowIR) bool {
		if index < 0 || index >= len(flow.Actions) {
			return false
		}
		flow.Actions = append(flow.Actions[:index], flow.Actions[index+1:]...)
		return true
	}, "gui_action_removed")
}

// OnActionsReordered moves an action from one index to another.
func (m *SyncManager) OnActionsReordered(flowName string, from, to int) {
	m.guiEdit(flowName, func(flow *ir.FlowIR) bool {
		if from < 0 || from >= len(flow.Actions) || to < 0 || to >= len(flow.Actions) {
			return false
		}
		action := flow.Actions[from]
		rest := append(flow.Actions[:from], flow.Actions[from+1:]...)
		flow.Actions = append(rest[:to], append([]ir.ActionIR{action}, rest[to:]...)...)
		return true
	}, "gui_action_reordered")
}

func (m *SyncManager) guiEdit(flowName string, mutate func(*ir.FlowIR) bool, change string) {
	if m.lock {
		return
	}
	m.lock = true
	defer func() { m.lock = false }()

	flow := m.doc.IR().Flow(flowName)
	if flow == nil {
		m.log.Warn().Str("flow", flowName).Msg("gui edit on unknown flow")
		return
	}
	if !mutate(flow) {
		return
	}
	m.doc.dirty = true
	m.doc.regenerateCode()
	m.doc.notifyIRChanged(change)
}

// FlowNames returns the names of all flows, in declaration order.
func (m *SyncManager) FlowNames() []string {
	names := make([]string, 0, len(m.doc.IR().Flows))
	for _, f := range m.doc.IR().Flows {
		names = append(names, f.Name)
	}
	return names
}
