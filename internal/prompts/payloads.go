// Package prompts renders the structured payloads and chat messages for the
// two protocol phases: the per-window scanner step and the final
// adjudicator step. All builders are pure functions over their inputs.
//
// Payloads are serialized with HTML escaping disabled: they are consumed by
// a model, not a strict wire protocol, so human-readable text beats
// aggressive encoding.
package prompts

import (
	"bytes"
	"encoding/json"

	"github.com/docscout/docscout/internal/document"
	"github.com/docscout/docscout/internal/evidence"
)

// DefaultSnapshotTail is how many recently-seen pointers the snapshot
// payload carries forward between windows.
const DefaultSnapshotTail = 5

// TaskPayload describes the scan task to the model.
type TaskPayload struct {
	Goal        string `json:"goal"`
	Context     string `json:"context,omitempty"`
	MaxEvidence int    `json:"maxEvidence,omitempty"`
}

// SnapshotPayload is the running evidence summary handed to the scanner
// step. It is the only cross-window memory the scanner gets: a count and a
// small tail of already-seen pointers, never earlier window contents.
type SnapshotPayload struct {
	EvidenceCount  int      `json:"evidenceCount"`
	RecentPointers []string `json:"recentPointers,omitempty"`
}

// NewSnapshot builds a snapshot of the store, keeping the last tail
// pointers. tail <= 0 uses DefaultSnapshotTail.
func NewSnapshot(store evidence.Store, tail int) SnapshotPayload {
	if tail <= 0 {
		tail = DefaultSnapshotTail
	}
	pointers := store.Pointers()
	if len(pointers) > tail {
		pointers = pointers[len(pointers)-tail:]
	}
	return SnapshotPayload{
		EvidenceCount:  store.Len(),
		RecentPointers: pointers,
	}
}

// WindowItem is one item of the current window as shown to the model.
type WindowItem struct {
	Pointer string        `json:"pointer"`
	Kind    document.Kind `json:"kind"`
	Text    string        `json:"text"`
}

// WindowPayload describes the current window to the scanner step.
type WindowPayload struct {
	First   bool         `json:"first"`
	HasMore bool         `json:"hasMore"`
	Items   []WindowItem `json:"items"`
}

// NewWindow converts a cursor window into its payload form.
func NewWindow(win document.Window, first bool) WindowPayload {
	items := make([]WindowItem, len(win.Items))
	for i, it := range win.Items {
		items[i] = WindowItem{
			Pointer: it.Ptr.String(),
			Kind:    it.Kind,
			Text:    it.Markdown,
		}
	}
	return WindowPayload{First: first, HasMore: win.HasMore, Items: items}
}

// AdjudicationPayload is the full scan record handed to the adjudicator.
type AdjudicationPayload struct {
	Goal           string          `json:"goal"`
	Evidence       []evidence.Item `json:"evidence"`
	CursorComplete bool            `json:"cursorComplete"`
	StepsUsed      int             `json:"stepsUsed"`
	LastPointer    string          `json:"lastPointer,omitempty"`
}

// marshalPayload serializes a payload without HTML escaping and without the
// encoder's trailing newline.
func marshalPayload(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
