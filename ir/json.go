package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON renders the parameter list as a JSON object, preserving
// insertion order.
func (p Params) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, entry := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", entry.Key, err)
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON reads a JSON object into the parameter list, keeping
// the key order of the document. Numbers that are whole are decoded as
// int so round-tripped positional arguments keep their type.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("params must be a JSON object")
	}

	*p = (*p)[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("param key must be a string")
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("param %q: %w", key, err)
		}
		*p = append(*p, Param{Key: key, Value: normalizeValue(raw)})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i, elem := range t {
			t[i] = normalizeValue(elem)
		}
		return t
	case map[string]any:
		for k, elem := range t {
			t[k] = normalizeValue(elem)
		}
		return t
	default:
		return v
	}
}

// ToJSON serializes a script to indented JSON bytes for persistence by
// the surrounding application.
func ToJSON(script *ScriptIR) ([]byte, error) {
	return json.MarshalIndent(script, "", "  ")
}

// FromJSON parses a script from JSON bytes.
func FromJSON(data []byte) (*ScriptIR, error) {
	script := NewScript()
	if err := json.Unmarshal(data, script); err != nil {
		return nil, fmt.Errorf("invalid script JSON: %w", err)
	}
	return script, nil
}
