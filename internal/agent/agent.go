// Package agent drives the bounded document-scan loop: it pulls budgeted
// windows from a cursor, runs the per-window scanner protocol against a
// text-generation service, accumulates deduplicated evidence, and finishes
// with a single adjudication call that confirms or rejects an answer.
//
// The loop is strictly single-threaded and cooperative. Each step blocks on
// one outbound call; evidence and the cursor offset are owned by the one
// goroutine driving Run. Windows must be evaluated in document order for
// the pointer-adjacency and evidence-so-far semantics to hold.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/docscout/docscout/internal/document"
	"github.com/docscout/docscout/internal/evidence"
	"github.com/docscout/docscout/internal/extract"
	"github.com/docscout/docscout/internal/prompts"
	"github.com/docscout/docscout/internal/providers"
)

// Config configures a Scanner.
type Config struct {
	// Client is the text-generation service. Required.
	Client providers.LLMClient

	// Model selects the generation model (client default if empty).
	Model string

	// Temperature is the sampling randomness. The protocol is designed
	// for 0 (deterministic); leave unset unless you know better.
	Temperature float64

	// MaxOutputTokens caps response length per call.
	MaxOutputTokens int

	// ProviderOptions is passed through to the client untouched.
	ProviderOptions map[string]any

	// WindowItems and WindowBytes are the cursor's dual budgets.
	WindowItems int
	WindowBytes int

	// EvidenceCap bounds the evidence store (default 20). Also reported
	// to the scanner as the max-evidence hint.
	EvidenceCap int

	// MaxSteps is the scanner-invocation budget per run (default 12), a
	// hard ceiling independent of cursor exhaustion.
	MaxSteps int

	// SnapshotTail is how many recent pointers the scanner sees between
	// windows (default prompts.DefaultSnapshotTail).
	SnapshotTail int

	// IncludeHeadings makes heading items eligible for windows.
	IncludeHeadings bool

	// Filter restricts eligible items (keyword scan etc.); nil scans
	// everything.
	Filter document.Filter

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

const (
	defaultEvidenceCap = 20
	defaultMaxSteps    = 12
)

// Scanner runs scans over frozen item lists. One Scanner may be reused for
// multiple sequential runs; each Run owns its own cursor and state.
type Scanner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Scanner.
func New(cfg Config) (*Scanner, error) {
	if cfg.Client == nil {
		return nil, errors.New("agent: Config.Client is required")
	}
	if cfg.EvidenceCap <= 0 {
		cfg.EvidenceCap = defaultEvidenceCap
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = defaultMaxSteps
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{cfg: cfg, logger: logger}, nil
}

// scanState is the accumulated loop state, threaded by value: every step
// produces a fresh instance rather than mutating shared fields, keeping
// the state machine's transitions auditable.
type scanState struct {
	step    int
	store   evidence.Store
	summary string
	lastPtr string
}

// Run scans the item list for the requested task. The returned error is
// non-nil only for invalid input or a hard failure of an outbound call
// (including a malformed response with no recoverable decision); every
// normal termination path, cancellation included, yields a Result.
func (s *Scanner) Run(ctx context.Context, items []document.Item, req Request) (*Result, error) {
	if strings.TrimSpace(req.Task) == "" {
		return nil, errors.New("agent: empty task description")
	}

	runID := uuid.New().String()
	log := s.logger.With("run_id", runID)

	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
		maxSteps = s.cfg.MaxSteps
	}

	var startAfter *document.Pointer
	if strings.TrimSpace(req.StartAfter) != "" {
		ptr, err := document.ParsePointer(req.StartAfter)
		if err != nil {
			return nil, fmt.Errorf("agent: invalid resume pointer: %w", err)
		}
		startAfter = &ptr
	}

	cur := document.NewCursor(document.CursorConfig{
		Items:           items,
		MaxItems:        s.cfg.WindowItems,
		MaxBytes:        s.cfg.WindowBytes,
		StartAfter:      startAfter,
		IncludeHeadings: s.cfg.IncludeHeadings,
		Filter:          s.cfg.Filter,
	})

	task := prompts.TaskPayload{
		Goal:        req.Task,
		Context:     req.Context,
		MaxEvidence: s.cfg.EvidenceCap,
	}

	state := scanState{}
	var stop StopReason

loop:
	for {
		if ctx.Err() != nil {
			return s.partialResult(state, cur, StopCancelled), nil
		}
		if state.step >= maxSteps {
			stop = StopMaxSteps
			break
		}

		win := cur.Next()
		if win.Empty() {
			stop = StopCursorComplete
			break
		}

		msgs, err := prompts.ScannerMessages(task,
			prompts.NewSnapshot(state.store, s.cfg.SnapshotTail),
			prompts.NewWindow(win, state.step == 0))
		if err != nil {
			return nil, fmt.Errorf("agent: build scanner prompt: %w", err)
		}

		if ctx.Err() != nil {
			return s.partialResult(state, cur, StopCancelled), nil
		}
		resp, err := s.cfg.Client.Chat(ctx, &providers.ChatRequest{
			Messages:        msgs,
			Model:           s.cfg.Model,
			Temperature:     s.cfg.Temperature,
			MaxTokens:       s.cfg.MaxOutputTokens,
			ProviderOptions: s.cfg.ProviderOptions,
			RequestID:       fmt.Sprintf("%s-scan-%d", runID, state.step+1),
		})
		if err != nil {
			return nil, fmt.Errorf("agent: scanner call failed at step %d: %w", state.step+1, err)
		}

		dec, err := extract.ScannerDecision(resp.Content)
		if err != nil {
			return nil, fmt.Errorf("agent: scanner step %d: %w", state.step+1, err)
		}

		decision := dec.Decision
		switch decision {
		case extract.DecisionContinue, extract.DecisionDone, extract.DecisionNotFound:
		default:
			// Tolerant-by-default: unrecognized decisions keep scanning.
			log.Debug("unrecognized scanner decision, treating as continue",
				"decision", decision, "step", state.step+1)
			decision = extract.DecisionContinue
		}

		accepted := s.filterEvidence(win, dec.Evidence, log)
		next := scanState{
			step:    state.step + 1,
			store:   evidence.Merge(state.store, accepted, s.cfg.EvidenceCap),
			summary: state.summary,
			lastPtr: state.lastPtr,
		}
		if dec.Summary != "" {
			next.summary = dec.Summary
		}
		if n := len(win.Items); n > 0 {
			next.lastPtr = win.Items[n-1].Ptr.String()
		}
		state = next

		log.Debug("scanner step complete",
			"step", state.step,
			"decision", decision,
			"evidence_total", state.store.Len(),
			"ambiguous", dec.Ambiguous,
			"has_more", win.HasMore)

		switch decision {
		case extract.DecisionDone:
			stop = StopDecisionDone
			break loop
		case extract.DecisionNotFound:
			// The scanner must not claim failure while text remains.
			if !win.HasMore {
				stop = StopDecisionNotFound
				break loop
			}
		}
	}

	return s.adjudicate(ctx, runID, req, state, cur, stop, log)
}

// filterEvidence rejects candidates whose pointer does not address an item
// in the current window. Hallucinated pointers are expected model noise:
// logged and dropped, never raised.
func (s *Scanner) filterEvidence(win document.Window, candidates []extract.EvidenceCandidate, log *slog.Logger) []evidence.Item {
	var out []evidence.Item
	for _, cand := range candidates {
		ptr, err := document.ParsePointer(cand.Pointer)
		if err != nil {
			log.Warn("dropping evidence with unparseable pointer", "pointer", cand.Pointer)
			continue
		}
		inWindow := false
		for _, it := range win.Items {
			if it.Ptr.Equal(ptr) {
				inWindow = true
				break
			}
		}
		if !inWindow {
			log.Warn("dropping evidence with pointer outside current window", "pointer", ptr.String())
			continue
		}
		out = append(out, evidence.Item{Pointer: ptr, Excerpt: cand.Excerpt, Reason: cand.Reason})
	}
	return out
}

// partialResult tags whatever was collected so far as incomplete, without
// attempting adjudication.
func (s *Scanner) partialResult(state scanState, cur *document.Cursor, stop StopReason) *Result {
	return &Result{
		Success:        false,
		Summary:        state.summary,
		Evidence:       state.store.Items(),
		LastPointer:    state.lastPtr,
		CursorComplete: cur.Exhausted(),
		StopReason:     stop,
		Steps:          state.step,
	}
}

// adjudicate issues the final call over the accumulated evidence. With no
// evidence there is nothing to adjudicate and the extra call is skipped. A
// success verdict is accepted only when its chosen pointer matches one of
// the evidence pointers; any mismatch, or a not_found verdict, downgrades
// the result to failure without discarding the evidence list.
func (s *Scanner) adjudicate(ctx context.Context, runID string, req Request, state scanState, cur *document.Cursor, stop StopReason, log *slog.Logger) (*Result, error) {
	result := s.partialResult(state, cur, stop)

	if state.store.Len() == 0 {
		log.Info("scan finished with no evidence, skipping adjudication", "stop_reason", stop)
		return result, nil
	}

	msgs, err := prompts.AdjudicatorMessages(prompts.AdjudicationPayload{
		Goal:           req.Task,
		Evidence:       state.store.Items(),
		CursorComplete: cur.Exhausted(),
		StepsUsed:      state.step,
		LastPointer:    state.lastPtr,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: build adjudicator prompt: %w", err)
	}

	if ctx.Err() != nil {
		result.StopReason = StopCancelled
		return result, nil
	}
	resp, err := s.cfg.Client.Chat(ctx, &providers.ChatRequest{
		Messages:        msgs,
		Model:           s.cfg.Model,
		Temperature:     s.cfg.Temperature,
		MaxTokens:       s.cfg.MaxOutputTokens,
		ProviderOptions: s.cfg.ProviderOptions,
		RequestID:       fmt.Sprintf("%s-adjudicate", runID),
	})
	if err != nil {
		return nil, fmt.Errorf("agent: adjudicator call failed: %w", err)
	}

	verdict, err := extract.FinalVerdict(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("agent: adjudicator response: %w", err)
	}
	if verdict.Summary != "" {
		result.Summary = verdict.Summary
	}

	if verdict.Decision == extract.DecisionSuccess && verdict.Pointer != "" {
		ptr, perr := document.ParsePointer(verdict.Pointer)
		if perr == nil && state.store.Contains(ptr) {
			result.Success = true
			result.ChosenPointer = ptr.String()
			result.Excerpt = verdict.Excerpt
			result.Rationale = verdict.Reason
			log.Info("scan confirmed an answer",
				"pointer", result.ChosenPointer, "steps", state.step, "stop_reason", stop)
			return result, nil
		}
		log.Warn("adjudicator chose a pointer outside the evidence set, downgrading to failure",
			"pointer", verdict.Pointer)
	}

	log.Info("scan finished without a confirmed answer",
		"evidence", state.store.Len(), "steps", state.step, "stop_reason", stop)
	return result, nil
}
