// Package eventlog records document edit history as JSONL, one event
// per line. The journal supports session replay and lets a crashed
// editor recover the buffer from its last recorded state.
package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Event kinds.
const (
	KindCodeEdit = "code_edit"
	KindGUIEdit  = "gui_edit"
	KindSave     = "save"
	KindError    = "error"
)

// Event is one recorded document change.
type Event struct {
	Time   time.Time `json:"time"`
	Kind   string    `json:"kind"`
	Source string    `json:"source,omitempty"`
	// Code is the full buffer after the event, for code edits and
	// saves. GUI edits carry a Detail instead.
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Journal appends events to a writer as JSONL.
type Journal struct {
	w   *bufio.Writer
	enc *json.Encoder
	now func() time.Time
}

// NewJournal wraps a writer. Call Flush before closing the underlying
// writer.
func NewJournal(w io.Writer) *Journal {
	bw := bufio.NewWriter(w)
	return &Journal{
		w:   bw,
		enc: json.NewEncoder(bw),
		now: time.Now,
	}
}

// Record appends an event, stamping it with the current time when the
// event's Time is zero.
func (j *Journal) Record(event Event) error {
	if event.Time.IsZero() {
		event.Time = j.now()
	}
	if err := j.enc.Encode(event); err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return nil
}

// CodeEdit records the buffer after an editor change.
func (j *Journal) CodeEdit(source, code string) error {
	return j.Record(Event{Kind: KindCodeEdit, Source: source, Code: code})
}

// GUIEdit records a structural change made through the visual editor.
func (j *Journal) GUIEdit(detail string) error {
	return j.Record(Event{Kind: KindGUIEdit, Detail: detail})
}

// Save records an explicit save with the saved buffer.
func (j *Journal) Save(code string) error {
	return j.Record(Event{Kind: KindSave, Code: code})
}

// Error records a failed parse.
func (j *Journal) Error(detail string) error {
	return j.Record(Event{Kind: KindError, Detail: detail})
}

// Flush writes buffered events through to the underlying writer.
func (j *Journal) Flush() error {
	return j.w.Flush()
}

// ReadJournal parses a JSONL journal. Blank lines are skipped;
// malformed lines fail with their line number.
func ReadJournal(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return events, nil
}

// ReadJournalFile parses a journal from disk.
func ReadJournalFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()
	return ReadJournal(f)
}

// LastCode returns the most recent buffer recorded in the events, or
// false when no event carries code.
func LastCode(events []Event) (string, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Kind == KindCodeEdit || events[i].Kind == KindSave {
			return events[i].Code, true
		}
	}
	return "", false
}
