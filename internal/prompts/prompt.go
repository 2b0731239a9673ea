package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/docscout/docscout/internal/providers"
)

//go:embed scanner_system.tmpl
var scannerSystemPrompt string

//go:embed scanner_user.tmpl
var scannerUserTmpl string

//go:embed adjudicator_system.tmpl
var adjudicatorSystemPrompt string

//go:embed adjudicator_user.tmpl
var adjudicatorUserTmpl string

var (
	scannerUserTemplate     = template.Must(template.New("scanner_user").Parse(scannerUserTmpl))
	adjudicatorUserTemplate = template.Must(template.New("adjudicator_user").Parse(adjudicatorUserTmpl))
)

// ScannerSystemPrompt returns the system prompt for the scanner step.
func ScannerSystemPrompt() string {
	return scannerSystemPrompt
}

// AdjudicatorSystemPrompt returns the system prompt for the adjudicator step.
func AdjudicatorSystemPrompt() string {
	return adjudicatorSystemPrompt
}

// scannerUserData feeds the scanner user template with pre-serialized
// payload blobs.
type scannerUserData struct {
	Task     string
	Snapshot string
	Window   string
}

// ScannerMessages builds the message sequence for one scanner call.
func ScannerMessages(task TaskPayload, snap SnapshotPayload, win WindowPayload) ([]providers.Message, error) {
	taskJSON, err := marshalPayload(task)
	if err != nil {
		return nil, fmt.Errorf("serialize task payload: %w", err)
	}
	snapJSON, err := marshalPayload(snap)
	if err != nil {
		return nil, fmt.Errorf("serialize snapshot payload: %w", err)
	}
	winJSON, err := marshalPayload(win)
	if err != nil {
		return nil, fmt.Errorf("serialize window payload: %w", err)
	}

	var buf bytes.Buffer
	if err := scannerUserTemplate.Execute(&buf, scannerUserData{
		Task:     taskJSON,
		Snapshot: snapJSON,
		Window:   winJSON,
	}); err != nil {
		return nil, fmt.Errorf("render scanner user prompt: %w", err)
	}

	return []providers.Message{
		{Role: "system", Content: scannerSystemPrompt},
		{Role: "user", Content: buf.String()},
	}, nil
}

// AdjudicatorMessages builds the message sequence for the final
// adjudication call.
func AdjudicatorMessages(record AdjudicationPayload) ([]providers.Message, error) {
	recordJSON, err := marshalPayload(record)
	if err != nil {
		return nil, fmt.Errorf("serialize adjudication payload: %w", err)
	}

	var buf bytes.Buffer
	if err := adjudicatorUserTemplate.Execute(&buf, struct{ Record string }{Record: recordJSON}); err != nil {
		return nil, fmt.Errorf("render adjudicator user prompt: %w", err)
	}

	return []providers.Message{
		{Role: "system", Content: adjudicatorSystemPrompt},
		{Role: "user", Content: buf.String()},
	}, nil
}
