package agent

import "github.com/docscout/docscout/internal/evidence"

// StopReason is the diagnostic tag explaining why the scan loop terminated.
type StopReason string

const (
	// StopDecisionDone: the scanner declared the task answered.
	StopDecisionDone StopReason = "decision_done"
	// StopDecisionNotFound: the scanner declared failure with no windows left.
	StopDecisionNotFound StopReason = "decision_not_found"
	// StopCursorComplete: the cursor ran out of windows.
	StopCursorComplete StopReason = "cursor_complete"
	// StopMaxSteps: the scanner-invocation budget was exhausted.
	StopMaxSteps StopReason = "max_steps"
	// StopCancelled: the caller's context was cancelled mid-scan.
	StopCancelled StopReason = "cancelled"
)

// Request is the core's primary entry point.
type Request struct {
	// Task describes what to find in the document.
	Task string

	// Context is optional free-text background for the task.
	Context string

	// StartAfter resumes scanning immediately after the item with this
	// canonical pointer label. Empty starts from the beginning.
	StartAfter string

	// MaxSteps overrides the configured scanner-invocation budget when
	// positive.
	MaxSteps int
}

// Result is the terminal output of a scan. Callers always receive a
// well-formed Result for normal termination paths; partial success
// (evidence collected, no confirmed answer) is distinguishable from total
// failure by a non-empty Evidence list, so callers can decide whether to
// resume from LastPointer.
type Result struct {
	// Success reports whether adjudication confirmed an answer.
	Success bool `json:"success"`

	// Summary is the running free-text progress note, replaced by the
	// adjudicator's conclusion when one is produced.
	Summary string `json:"summary,omitempty"`

	// ChosenPointer, Excerpt, and Rationale describe the confirmed
	// answer. Empty unless Success.
	ChosenPointer string `json:"chosenPointer,omitempty"`
	Excerpt       string `json:"excerpt,omitempty"`
	Rationale     string `json:"rationale,omitempty"`

	// Evidence is everything collected, kept even on failure for
	// diagnostics and resumption.
	Evidence []evidence.Item `json:"evidence,omitempty"`

	// LastPointer addresses the last item seen, for resumption.
	LastPointer string `json:"lastPointer,omitempty"`

	// CursorComplete reports whether the cursor was exhausted when the
	// loop stopped.
	CursorComplete bool `json:"cursorComplete"`

	// StopReason explains why the loop terminated.
	StopReason StopReason `json:"stopReason"`

	// Steps is the number of scanner invocations made.
	Steps int `json:"steps"`
}
