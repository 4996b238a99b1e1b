// Package ir defines the flattened, GUI-oriented mirror of a RetroScript
// program. The IR is the hub for round-trip sync: code edits are parsed
// into it, GUI edits mutate it and regenerate code. IR values carry no
// back-pointers into the AST.
package ir

// Param is one key/value entry of an action's parameter list. Keys
// "arg0".."argN" are positional arguments, everything else is a keyword
// argument.
type Param struct {
	Key   string
	Value any
}

// Params is an insertion-ordered parameter list.
type Params []Param

// Get returns the value for key.
func (p Params) Get(key string) (any, bool) {
	for _, entry := range p {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for key, appending if absent.
func (p *Params) Set(key string, value any) {
	for i, entry := range *p {
		if entry.Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Param{Key: key, Value: value})
}

// ActionIR is one flattened statement: a callee or marker tag plus its
// parameters. SpanLine maps the action back to its source line, 0 when
// the action was created by the GUI and has no source yet.
type ActionIR struct {
	ActionType string `json:"action_type"`
	Params     Params `json:"params,omitempty"`
	SpanLine   int    `json:"span_line,omitempty"`
}

// FlowIR is a flow as a flat action list. Nested control-flow bodies
// are collapsed into single marker actions.
type FlowIR struct {
	Name    string     `json:"name"`
	Actions []ActionIR `json:"actions"`
}

// InterruptIR mirrors an interrupt declaration.
type InterruptIR struct {
	Priority  int        `json:"priority"`
	WhenAsset string     `json:"when_asset"`
	Actions   []ActionIR `json:"actions"`
}

// HotkeysIR holds the three well-known control bindings.
type HotkeysIR struct {
	Start string `json:"start"`
	Stop  string `json:"stop"`
	Pause string `json:"pause"`
}

// DefaultHotkeys returns the bindings used when a script declares none.
func DefaultHotkeys() HotkeysIR {
	return HotkeysIR{Start: "F5", Stop: "F6", Pause: "F7"}
}

// AssetIR describes a captured screen asset.
type AssetIR struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Threshold float64 `json:"threshold"`
	ROI       *ROI   `json:"roi,omitempty"`
}

// ROI is a rectangular region of interest in screen coordinates.
type ROI struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ScriptIR is the complete flattened script. The document coordinator
// owns exactly one at a time.
type ScriptIR struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Author  string `json:"author,omitempty"`

	Hotkeys    HotkeysIR     `json:"hotkeys"`
	Assets     []AssetIR     `json:"assets,omitempty"`
	Flows      []FlowIR      `json:"flows"`
	Interrupts []InterruptIR `json:"interrupts,omitempty"`

	IsValid     bool     `json:"is_valid"`
	ParseErrors []string `json:"parse_errors,omitempty"`

	listeners []func(change string)
}

// NewScript returns an empty, valid ScriptIR with default hotkeys.
func NewScript() *ScriptIR {
	return &ScriptIR{
		Name:    "Untitled",
		Version: "1.0",
		Hotkeys: DefaultHotkeys(),
		IsValid: true,
	}
}

// AddListener registers a callback invoked with a change tag on every
// structural mutation.
func (s *ScriptIR) AddListener(fn func(change string)) {
	s.listeners = append(s.listeners, fn)
}

// NotifyChange invokes all listeners.
func (s *ScriptIR) NotifyChange(change string) {
	for _, fn := range s.listeners {
		fn(change)
	}
}

// Asset returns the asset with the given id, or nil.
func (s *ScriptIR) Asset(id string) *AssetIR {
	for i := range s.Assets {
		if s.Assets[i].ID == id {
			return &s.Assets[i]
		}
	}
	return nil
}

// AddAsset appends an asset and notifies listeners.
func (s *ScriptIR) AddAsset(asset AssetIR) {
	s.Assets = append(s.Assets, asset)
	s.NotifyChange("asset_added")
}

// RemoveAsset deletes the asset with the given id.
func (s *ScriptIR) RemoveAsset(id string) {
	kept := s.Assets[:0]
	for _, a := range s.Assets {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.Assets = kept
	s.NotifyChange("asset_removed")
}

// Flow returns the flow with the given name, or nil.
func (s *ScriptIR) Flow(name string) *FlowIR {
	for i := range s.Flows {
		if s.Flows[i].Name == name {
			return &s.Flows[i]
		}
	}
	return nil
}

// AddFlow appends a flow and notifies listeners.
func (s *ScriptIR) AddFlow(flow FlowIR) {
	s.Flows = append(s.Flows, flow)
	s.NotifyChange("flow_added")
}

// RemoveFlow deletes the flow with the given name.
func (s *ScriptIR) RemoveFlow(name string) {
	kept := s.Flows[:0]
	for _, f := range s.Flows {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	s.Flows = kept
	s.NotifyChange("flow_removed")
}
