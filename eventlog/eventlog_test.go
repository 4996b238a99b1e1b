package eventlog

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retroauto/go-retroscript/document"
)

func TestJournalRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)
	j.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, j.CodeEdit("editor", "flow main {\n}\n"))
	require.NoError(t, j.GUIEdit("add_action"))
	require.NoError(t, j.Save("flow main {\n}\n"))
	require.NoError(t, j.Flush())

	events, err := ReadJournal(&buf)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, KindCodeEdit, events[0].Kind)
	assert.Equal(t, "editor", events[0].Source)
	assert.Equal(t, KindGUIEdit, events[1].Kind)
	assert.Equal(t, "add_action", events[1].Detail)
	assert.Equal(t, KindSave, events[2].Kind)
	assert.False(t, events[0].Time.IsZero())
}

func TestReadJournalSkipsBlankLines(t *testing.T) {
	input := `{"time":"2026-03-01T12:00:00Z","kind":"save","code":"flow main {\n}\n"}

{"time":"2026-03-01T12:01:00Z","kind":"gui_edit","detail":"add_flow"}
`
	events, err := ReadJournal(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestReadJournalMalformedLine(t *testing.T) {
	_, err := ReadJournal(strings.NewReader("{\"kind\":\"save\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLastCode(t *testing.T) {
	events := []Event{
		{Kind: KindCodeEdit, Code: "flow a {\n}\n"},
		{Kind: KindGUIEdit, Detail: "add_action"},
		{Kind: KindSave, Code: "flow b {\n}\n"},
		{Kind: KindError, Detail: "1 parse error(s)"},
	}

	code, ok := LastCode(events)
	require.True(t, ok)
	assert.Equal(t, "flow b {\n}\n", code)

	_, ok = LastCode([]Event{{Kind: KindGUIEdit}})
	assert.False(t, ok)
}

func TestAttachRecordsDocumentChanges(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)

	doc := document.New(zerolog.Nop())
	Attach(j, doc)

	doc.UpdateFromCode("flow main {\n  click(1, 2);\n}\n", "editor")
	doc.UpdateFromCode("flow main {\n  click(1, 2;\n}\n", "editor")
	require.NoError(t, j.Flush())

	events, err := ReadJournal(&buf)
	require.NoError(t, err)

	var kinds []string
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	assert.Contains(t, kinds, KindGUIEdit)
	assert.Contains(t, kinds, KindError)
}
