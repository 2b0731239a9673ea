package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"bare object", `{"decision":"continue"}`, 1},
		{"prose wrapper", `Sure! Here is the result: {"decision":"done"} Hope that helps.`, 1},
		{"code fence", "```json\n{\"decision\":\"continue\"}\n```", 1},
		{"two objects", `{"a":1} and {"b":2}`, 2},
		{"nested braces in string", `{"summary":"uses {braces} inside"}`, 1},
		{"nested object", `{"outer":{"inner":1}}`, 1},
		{"no object", "just prose, no json here", 0},
		{"unbalanced", `{"decision":"continue"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Candidates(tt.in); len(got) != tt.want {
				t.Errorf("Candidates(%q) found %d, want %d: %v", tt.in, len(got), tt.want, got)
			}
		})
	}
}

func TestScannerDecisionTolerance(t *testing.T) {
	// Prose wrapper plus a raw newline inside the excerpt string.
	raw := "Note: {\"decision\":\"continue\",\"newEvidence\":[{\"pointer\":\"1.p1\",\"excerpt\":\"a\nb\",\"reason\":\"x\"}]} thanks"

	dec, err := ScannerDecision(raw)
	if err != nil {
		t.Fatalf("ScannerDecision error: %v", err)
	}
	if dec.Decision != DecisionContinue {
		t.Errorf("decision = %q, want continue", dec.Decision)
	}
	if len(dec.Evidence) != 1 {
		t.Fatalf("evidence count = %d, want 1", len(dec.Evidence))
	}
	ev := dec.Evidence[0]
	if ev.Pointer != "1.p1" {
		t.Errorf("pointer = %q, want 1.p1", ev.Pointer)
	}
	if ev.Excerpt != "a\nb" {
		t.Errorf("excerpt = %q, want the embedded newline preserved", ev.Excerpt)
	}
}

func TestScannerDecisionPrefersTerminal(t *testing.T) {
	raw := `{"decision":"continue"} some text {"decision":"done","summary":"found it"}`

	dec, err := ScannerDecision(raw)
	if err != nil {
		t.Fatalf("ScannerDecision error: %v", err)
	}
	if dec.Decision != DecisionDone {
		t.Errorf("decision = %q, want done (terminal candidate preferred)", dec.Decision)
	}
	if !dec.Ambiguous {
		t.Error("Ambiguous should be true with two parseable candidates")
	}
}

func TestScannerDecisionFirstParseableWhenNoTerminal(t *testing.T) {
	raw := `{"decision":"continue","summary":"first"} {"decision":"continue","summary":"second"}`

	dec, err := ScannerDecision(raw)
	if err != nil {
		t.Fatalf("ScannerDecision error: %v", err)
	}
	if dec.Summary != "first" {
		t.Errorf("summary = %q, want the first candidate in document order", dec.Summary)
	}
}

func TestScannerDecisionLegacyFields(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"action field", `{"action":"continue"}`, DecisionContinue},
		{"legacy stop vocabulary", `{"action":"stop"}`, DecisionDone},
		{"decision wins over action", `{"decision":"done","action":"continue"}`, DecisionDone},
		{"case insensitive", `{"decision":"DONE"}`, DecisionDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := ScannerDecision(tt.in)
			if err != nil {
				t.Fatalf("ScannerDecision error: %v", err)
			}
			if dec.Decision != tt.want {
				t.Errorf("decision = %q, want %q", dec.Decision, tt.want)
			}
		})
	}
}

func TestScannerDecisionEvidenceFallbacks(t *testing.T) {
	raw := `{"decision":"continue","newEvidence":[
		{"pointer":"1.p1","markdown":"from markdown","reason":"a"},
		{"pointer":"1.p2","text":"from text","rationale":"b"},
		{"pointer":{"label":"1.p3"},"excerpt":"from excerpt","reason":"c"},
		{"excerpt":"missing pointer is dropped"}
	]}`

	dec, err := ScannerDecision(raw)
	if err != nil {
		t.Fatalf("ScannerDecision error: %v", err)
	}
	if len(dec.Evidence) != 3 {
		t.Fatalf("evidence count = %d, want 3", len(dec.Evidence))
	}
	if dec.Evidence[0].Excerpt != "from markdown" {
		t.Errorf("excerpt[0] = %q, want markdown fallback", dec.Evidence[0].Excerpt)
	}
	if dec.Evidence[1].Excerpt != "from text" || dec.Evidence[1].Reason != "b" {
		t.Errorf("evidence[1] = %+v, want text and rationale fallbacks", dec.Evidence[1])
	}
	if dec.Evidence[2].Pointer != "1.p3" {
		t.Errorf("pointer[2] = %q, want object surface form unwrapped", dec.Evidence[2].Pointer)
	}
}

func TestScannerDecisionNoCandidates(t *testing.T) {
	for _, in := range []string{"", "plain prose", `{"no_decision_field":1}`} {
		if _, err := ScannerDecision(in); !errors.Is(err, ErrNoDecision) {
			t.Errorf("ScannerDecision(%q) error = %v, want ErrNoDecision", in, err)
		}
	}
}

func TestFinalVerdict(t *testing.T) {
	raw := `{"decision":"success","pointer":"1.2.p3","excerpt":"the answer","reason":"matches","summary":"done"}`

	v, err := FinalVerdict(raw)
	if err != nil {
		t.Fatalf("FinalVerdict error: %v", err)
	}
	if v.Decision != DecisionSuccess || v.Pointer != "1.2.p3" || v.Excerpt != "the answer" {
		t.Errorf("verdict = %+v", v)
	}
}

func TestFinalVerdictPointerObjectForm(t *testing.T) {
	raw := `{"decision":"success","pointer":{"label":"2.p0"},"excerpt":"e","reason":"r"}`

	v, err := FinalVerdict(raw)
	if err != nil {
		t.Fatalf("FinalVerdict error: %v", err)
	}
	if v.Pointer != "2.p0" {
		t.Errorf("pointer = %q, want 2.p0", v.Pointer)
	}
}

func TestSanitizeControlChars(t *testing.T) {
	in := "{\"a\":\"x\ny\tz\"}"
	want := `{"a":"x\ny\tz"}`
	if got := sanitizeControlChars(in); got != want {
		t.Errorf("sanitizeControlChars = %q, want %q", got, want)
	}

	// Control characters outside strings are left alone.
	in = "{\n\"a\": \"b\"\n}"
	if got := sanitizeControlChars(in); got != in {
		t.Errorf("sanitizeControlChars changed structural whitespace: %q", got)
	}

	// Already-escaped sequences are not double-escaped.
	in = `{"a":"x\ny"}`
	if got := sanitizeControlChars(in); got != in {
		t.Errorf("sanitizeControlChars double-escaped: %q", got)
	}
}

func TestScannerDecisionLargeProse(t *testing.T) {
	raw := strings.Repeat("filler ", 200) + `{"decision":"not_found","summary":"nothing"}` + strings.Repeat(" trailer", 50)

	dec, err := ScannerDecision(raw)
	if err != nil {
		t.Fatalf("ScannerDecision error: %v", err)
	}
	if dec.Decision != DecisionNotFound {
		t.Errorf("decision = %q, want not_found", dec.Decision)
	}
}
