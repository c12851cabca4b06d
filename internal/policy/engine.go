// Package policy turns a learner's interaction history for one problem
// into a guidance decision: show a hint, escalate to an explanation, or
// save the struggle as a note. Decisions are pure functions of the
// ordered event slice and the strategy thresholds, so any historical
// decision can be re-derived exactly (see internal/replay).
package policy

import (
	"fmt"
	"time"

	"github.com/abhisek/sqlcoach/internal/event"
)

// Version tags the rule set and content-selection semantics in force.
// Recorded on every proposed event and replay point for audit.
const Version = "v1.0.0"

// Decision is what the caller should present next.
type Decision string

const (
	PresentHint        Decision = "present-hint"
	PresentExplanation Decision = "present-explanation"
	AddToNotes         Decision = "add-to-notes"
)

// Rule tags which cascade rule produced a decision.
type Rule string

const (
	RuleNoErrors             Rule = "no-errors"
	RuleAutoEscalation       Rule = "auto-escalation"
	RuleEscalationThreshold  Rule = "escalation-threshold"
	RuleAggregationThreshold Rule = "aggregation-threshold"
	RuleProgressiveHint      Rule = "progressive-hint"
)

// aggregationElapsed is the time-on-problem trigger for rule 4.
const aggregationElapsed = 10 * time.Minute

// retryFloor is the minimum retry count for threshold escalation.
const retryFloor = 2

// autoEscalationHints is how many hints a learner must have seen before
// the auto-escalation signal can fire.
const autoEscalationHints = 3

// AdaptiveDecision is the outcome of one rule-cascade evaluation.
type AdaptiveDecision struct {
	Decision      Decision
	RuleFired     Rule
	Reasoning     string
	NextHintLevel int // suggested ladder level, set only for present-hint
}

// Engine evaluates the rule cascade against a threshold table. The zero
// value is not usable; construct with NewEngine.
type Engine struct {
	thresholds map[Strategy]Thresholds
}

// NewEngine returns an engine using the built-in strategy table.
func NewEngine() *Engine {
	return NewEngineWithThresholds(nil)
}

// NewEngineWithThresholds returns an engine using the given per-strategy
// table, e.g. one produced by LoadThresholdOverrides. Strategies missing
// from the table fall back to the built-in values.
func NewEngineWithThresholds(table map[Strategy]Thresholds) *Engine {
	return &Engine{thresholds: table}
}

// ThresholdsFor resolves the effective thresholds for a strategy under
// this engine's table.
func (e *Engine) ThresholdsFor(s Strategy) Thresholds {
	if t, ok := e.thresholds[s]; ok {
		return t
	}
	return ThresholdsFor(s)
}

// Decide runs the rule cascade over the learner's ordered event slice
// for one problem. First match wins:
//
//  1. no error events            → present-hint
//  2. hint-saturated, no follow-up explanation (finite escalate only)
//     → present-explanation
//  3. errors ≥ escalate and ≥ 2 retries → present-explanation
//  4. errors ≥ aggregate or > 10 min on problem → add-to-notes
//  5. otherwise                  → present-hint at the next ladder level
//
// The slice must already be time-ordered; Decide does not sort. An empty
// slice is valid and falls through to rule 1.
func (e *Engine) Decide(profile Profile, events []event.Event, problemID string) AdaptiveDecision {
	t := e.ThresholdsFor(profile.Strategy)
	ctx := DeriveContext(events)

	if ctx.ErrorCount == 0 {
		return AdaptiveDecision{
			Decision:      PresentHint,
			RuleFired:     RuleNoErrors,
			Reasoning:     fmt.Sprintf("no errors recorded for problem %s; offering a first hint", problemID),
			NextHintLevel: nextLevel(ctx),
		}
	}

	if t.Finite() && autoEscalationSignal(events) {
		return AdaptiveDecision{
			Decision:  PresentExplanation,
			RuleFired: RuleAutoEscalation,
			Reasoning: fmt.Sprintf("learner saw %d hints without a follow-up explanation; escalating", autoEscalationHints),
		}
	}

	if ctx.ErrorCount >= t.Escalate && ctx.RetryCount >= retryFloor {
		return AdaptiveDecision{
			Decision:  PresentExplanation,
			RuleFired: RuleEscalationThreshold,
			Reasoning: fmt.Sprintf("%d errors with %d retries met the escalate threshold %d", ctx.ErrorCount, ctx.RetryCount, t.Escalate),
		}
	}

	if ctx.ErrorCount >= t.Aggregate || ctx.Elapsed > aggregationElapsed {
		return AdaptiveDecision{
			Decision:  AddToNotes,
			RuleFired: RuleAggregationThreshold,
			Reasoning: fmt.Sprintf("%d errors over %s crossed the aggregation threshold; saving to notes", ctx.ErrorCount, ctx.Elapsed.Round(time.Second)),
		}
	}

	return AdaptiveDecision{
		Decision:      PresentHint,
		RuleFired:     RuleProgressiveHint,
		Reasoning:     fmt.Sprintf("%d errors below thresholds; continuing the hint ladder", ctx.ErrorCount),
		NextHintLevel: nextLevel(ctx),
	}
}

// autoEscalationSignal reports whether the learner has received three
// hints and has not yet seen an explanation at or after the third one.
// This is the canonical semantics: any explanation_view at or after the
// third hint's timestamp clears the signal, regardless of what the most
// recent event happens to be.
func autoEscalationSignal(events []event.Event) bool {
	hints := event.FilterKind(events, event.KindHintView)
	if len(hints) < autoEscalationHints {
		return false
	}
	third := hints[autoEscalationHints-1].Timestamp

	for _, e := range events {
		if e.Kind == event.KindExplanationView && !e.Timestamp.Before(third) {
			return false
		}
	}
	return true
}

// nextLevel is the suggested ladder level for the next hint.
func nextLevel(ctx Context) int {
	lvl := ctx.CurrentHintLevel
	if lvl > maxHintLevel {
		lvl = maxHintLevel
	}
	return lvl + 1
}

// defaultEngine backs the package-level Decide convenience.
var defaultEngine = NewEngine()

// Decide evaluates the cascade with the built-in threshold table.
func Decide(profile Profile, events []event.Event, problemID string) AdaptiveDecision {
	return defaultEngine.Decide(profile, events, problemID)
}
