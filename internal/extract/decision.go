package extract

import (
	_ "embed"
	"encoding/json"
	"errors"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Decision values produced by the two protocol phases. The scanner phase
// emits continue/done/not_found; the adjudicator emits success/not_found.
const (
	DecisionContinue = "continue"
	DecisionDone     = "done"
	DecisionNotFound = "not_found"
	DecisionSuccess  = "success"
)

// ErrNoDecision is returned when zero candidates in the generated text
// parse into a valid decision. Callers treat this as a failure of the
// current call, not of the whole scan.
var ErrNoDecision = errors.New("extract: no parseable decision found")

//go:embed scanner_decision.schema.json
var scannerSchemaJSON string

//go:embed final_decision.schema.json
var finalSchemaJSON string

var (
	scannerSchema = mustCompileSchema("scanner_decision.schema.json", scannerSchemaJSON)
	finalSchema   = mustCompileSchema("final_decision.schema.json", finalSchemaJSON)
)

func mustCompileSchema(name, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(name)
}

// EvidenceCandidate is one proposed finding as extracted from model output.
// Pointer is the raw label; validation against the current window happens
// in the orchestrator.
type EvidenceCandidate struct {
	Pointer string
	Excerpt string
	Reason  string
}

// ScanDecision is the structured outcome of one scanner step.
type ScanDecision struct {
	Decision string // continue, done, or not_found
	Summary  string
	Evidence []EvidenceCandidate

	// Ambiguous records that more than one candidate parsed. Useful for
	// observability; never used for control flow.
	Ambiguous bool
}

// FinalDecision is the structured outcome of the adjudication step.
type FinalDecision struct {
	Decision string // success or not_found
	Pointer  string
	Excerpt  string
	Reason   string
	Summary  string

	Ambiguous bool
}

// ScannerDecision recovers exactly one scanner decision from generated
// text. When multiple candidates parse, the first one carrying a terminal
// decision (done or not_found) wins; otherwise the first parseable
// candidate in document order. Returns ErrNoDecision when nothing parses.
func ScannerDecision(raw string) (*ScanDecision, error) {
	parsed := parseAll(raw, scannerSchema)
	if len(parsed) == 0 {
		return nil, ErrNoDecision
	}

	chosen := parsed[0]
	for _, c := range parsed {
		d := decisionField(c)
		if d == DecisionDone || d == DecisionNotFound {
			chosen = c
			break
		}
	}

	return &ScanDecision{
		Decision:  decisionField(chosen),
		Summary:   stringField(chosen, "summary"),
		Evidence:  evidenceField(chosen),
		Ambiguous: len(parsed) > 1,
	}, nil
}

// FinalVerdict recovers the adjudicator's decision from generated text,
// with the same candidate-selection rules as ScannerDecision.
func FinalVerdict(raw string) (*FinalDecision, error) {
	parsed := parseAll(raw, finalSchema)
	if len(parsed) == 0 {
		return nil, ErrNoDecision
	}

	chosen := parsed[0]
	for _, c := range parsed {
		d := decisionField(c)
		if d == DecisionSuccess || d == DecisionNotFound {
			chosen = c
			break
		}
	}

	return &FinalDecision{
		Decision:  decisionField(chosen),
		Pointer:   pointerField(chosen, "pointer"),
		Excerpt:   stringField(chosen, "excerpt"),
		Reason:    stringField(chosen, "reason"),
		Summary:   stringField(chosen, "summary"),
		Ambiguous: len(parsed) > 1,
	}, nil
}

// parseAll parses every candidate independently, applying the sanitization
// pass once per candidate on direct-parse failure, and keeps those that
// both parse and validate against the schema.
func parseAll(raw string, schema *jsonschema.Schema) []map[string]any {
	var parsed []map[string]any
	for _, candidate := range Candidates(raw) {
		var doc any
		if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
			if err := json.Unmarshal([]byte(sanitizeControlChars(candidate)), &doc); err != nil {
				continue
			}
		}
		if err := schema.Validate(doc); err != nil {
			continue
		}
		m, ok := doc.(map[string]any)
		if !ok {
			continue
		}
		parsed = append(parsed, m)
	}
	return parsed
}

// decisionField reads the decision, falling back to the legacy "action"
// field name, and normalizes the legacy "stop" vocabulary to "done".
func decisionField(m map[string]any) string {
	if s, ok := m["decision"].(string); ok && strings.TrimSpace(s) != "" {
		return normalizeDecision(s)
	}
	if s, ok := m["action"].(string); ok {
		return normalizeDecision(s)
	}
	return ""
}

func normalizeDecision(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "stop" {
		return DecisionDone
	}
	return s
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// pointerField accepts either a plain label or the object surface form
// with a "label" field.
func pointerField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case map[string]any:
		if label, ok := v["label"].(string); ok {
			return label
		}
	}
	return ""
}

// evidenceField maps the evidence array defensively: the array is read
// from "newEvidence" with "new_evidence" and "evidence" as fallbacks, and
// each item's excerpt falls back excerpt -> markdown -> text to tolerate
// model field-naming drift.
func evidenceField(m map[string]any) []EvidenceCandidate {
	var arr []any
	for _, key := range []string{"newEvidence", "new_evidence", "evidence"} {
		if v, ok := m[key].([]any); ok {
			arr = v
			break
		}
	}

	var out []EvidenceCandidate
	for _, entry := range arr {
		em, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		ptr := pointerField(em, "pointer")
		if ptr == "" {
			continue
		}
		excerpt := stringField(em, "excerpt")
		if excerpt == "" {
			excerpt = stringField(em, "markdown")
		}
		if excerpt == "" {
			excerpt = stringField(em, "text")
		}
		reason := stringField(em, "reason")
		if reason == "" {
			reason = stringField(em, "rationale")
		}
		out = append(out, EvidenceCandidate{Pointer: ptr, Excerpt: excerpt, Reason: reason})
	}
	return out
}
