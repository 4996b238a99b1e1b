package document

import (
	"fmt"

	"github.com/retroauto/go-retroscript/ir"
)

// Field identifies an editable IR field. GUI panels build FieldEdit
// values instead of addressing fields by string path, so an edit that
// does not resolve is a compile error or a typed validation error, not
// a silent reflection failure.
type Field int

const (
	FieldScriptName Field = iota
	FieldScriptAuthor
	FieldFlowName
	FieldActionType
	FieldActionParam
	FieldAssetPath
	FieldAssetThreshold
	FieldHotkeyStart
	FieldHotkeyStop
	FieldHotkeyPause
	FieldInterruptPriority
	FieldInterruptAsset
)

// FieldEdit is one GUI-driven field mutation. Index fields select the
// containing flow/action/asset/interrupt where the target field needs
// one; Param names the parameter key for FieldActionParam.
type FieldEdit struct {
	Field     Field
	Flow      int
	Action    int
	Asset     int
	Interrupt int
	Param     string
	Value     any
}

// ApplyEdit mutates the IR according to edit, then regenerates the
// buffer with sync suppressed.
func (d *Document) ApplyEdit(edit FieldEdit) error {
	if err := d.applyToIR(edit); err != nil {
		return err
	}
	d.dirty = true
	d.regenerateCode()
	d.notifyIRChanged("gui_edit")
	return nil
}

func (d *Document) applyToIR(edit FieldEdit) error {
	s := d.script

	switch edit.Field {
	case FieldScriptName:
		name, err := asString(edit.Value)
		if err != nil {
			return err
		}
		s.Name = name

	case FieldScriptAuthor:
		author, err := asString(edit.Value)
		if err != nil {
			return err
		}
		s.Author = author

	case FieldFlowName:
		flow, err := flowAt(s, edit.Flow)
		if err != nil {
			return err
		}
		name, err := asString(edit.Value)
		if err != nil {
			return err
		}
		flow.Name = name

	case FieldActionType:
		action, err := actionAt(s, edit.Flow, edit.Action)
		if err != nil {
			return err
		}
		actionType, err := asString(edit.Value)
		if err != nil {
			return err
		}
		action.ActionType = actionType

	case FieldActionParam:
		action, err := actionAt(s, edit.Flow, edit.Action)
		if err != nil {
			return err
		}
		if edit.Param == "" {
			return fmt.Errorf("action param edit needs a param name")
		}
		action.Params.Set(edit.Param, edit.Value)

	case FieldAssetPath:
		asset, err := assetAt(s, edit.Asset)
		if err != nil {
			return err
		}
		path, err := asString(edit.Value)
		if err != nil {
			return err
		}
		asset.Path = path

	case FieldAssetThreshold:
		asset, err := assetAt(s, edit.Asset)
		if err != nil {
			return err
		}
		threshold, ok := asFloat(edit.Value)
		if !ok {
			return fmt.Errorf("threshold must be a number, got %T", edit.Value)
		}
		asset.Threshold = threshold

	case FieldHotkeyStart, FieldHotkeyStop, FieldHotkeyPause:
		key, err := asString(edit.Value)
		if err != nil {
			return err
		}
		switch edit.Field {
		case FieldHotkeyStart:
			s.Hotkeys.Start = key
		case FieldHotkeyStop:
			s.Hotkeys.Stop = key
		default:
			s.Hotkeys.Pause = key
		}

	case FieldInterruptPriority:
		intr, err := interruptAt(s, edit.Interrupt)
		if err != nil {
			return err
		}
		priority, ok := asInt(edit.Value)
		if !ok {
			return fmt.Errorf("priority must be an integer, got %T", edit.Value)
		}
		intr.Priority = priority

	case FieldInterruptAsset:
		intr, err := interruptAt(s, edit.Interrupt)
		if err != nil {
			return err
		}
		asset, err := asString(edit.Value)
		if err != nil {
			return err
		}
		intr.WhenAsset = asset

	default:
		return fmt.Errorf("unknown field %d", edit.Field)
	}

	return nil
}

func flowAt(s *ir.ScriptIR, i int) (*ir.FlowIR, error) {
	if i < 0 || i >= len(s.Flows) {
		return nil, fmt.Errorf("flow index %d out of range (%d flows)", i, len(s.Flows))
	}
	return &s.Flows[i], nil
}

func actionAt(s *ir.ScriptIR, flow, action int) (*ir.ActionIR, error) {
	f, err := flowAt(s, flow)
	if err != nil {
		return nil, err
	}
	if action < 0 || action >= len(f.Actions) {
		return nil, fmt.Errorf("action index %d out of range in flow %q (%d actions)",
			action, f.Name, len(f.Actions))
	}
	return &f.Actions[action], nil
}

func assetAt(s *ir.ScriptIR, i int) (*ir.AssetIR, error) {
	if i < 0 || i >= len(s.Assets) {
		return nil, fmt.Errorf("asset index %d out of range (%d assets)", i, len(s.Assets))
	}
	return &s.Assets[i], nil
}

func interruptAt(s *ir.ScriptIR, i int) (*ir.InterruptIR, error) {
	if i < 0 || i >= len(s.Interrupts) {
		return nil, fmt.Errorf("interrupt index %d out of range (%d interrupts)", i, len(s.Interrupts))
	}
	return &s.Interrupts[i], nil
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string value, got %T", v)
	}
	return s, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
