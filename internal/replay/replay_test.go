package replay

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/sqlcoach/internal/event"
	"github.com/abhisek/sqlcoach/internal/policy"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func evt(kind event.Kind, offsetSec int, payload event.Payload) event.Event {
	return event.Event{
		ID:        fmt.Sprintf("evt-%s-%d", kind, offsetSec),
		LearnerID: "l1",
		SessionID: "s1",
		ProblemID: "p1",
		Sequence:  int64(offsetSec),
		Timestamp: base.Add(time.Duration(offsetSec) * time.Second),
		Kind:      kind,
		Payload:   payload,
	}
}

func sampleTrace() []event.Event {
	return []event.Event{
		evt(event.KindExecution, 0, event.Payload{}),
		evt(event.KindError, 10, event.Payload{ErrorSubtype: "syntax error"}),
		evt(event.KindHintView, 20, event.Payload{HintLevel: 1}),
		evt(event.KindError, 30, event.Payload{ErrorSubtype: "syntax error"}),
		evt(event.KindHintView, 40, event.Payload{HintLevel: 2}),
		evt(event.KindError, 50, event.Payload{ErrorSubtype: "undefined column"}),
		evt(event.KindHintView, 60, event.Payload{HintLevel: 3}),
		evt(event.KindError, 70, event.Payload{ErrorSubtype: "undefined column"}),
	}
}

func TestReplay_Deterministic(t *testing.T) {
	events := sampleTrace()
	first := Replay(events, policy.StrategyAdaptiveMedium)
	second := Replay(events, policy.StrategyAdaptiveMedium)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two replays of the same slice differ")
	}
}

func TestReplay_SortsUnorderedInput(t *testing.T) {
	ordered := sampleTrace()
	shuffled := []event.Event{
		ordered[5], ordered[1], ordered[7], ordered[0],
		ordered[3], ordered[6], ordered[2], ordered[4],
	}

	a := Replay(ordered, policy.StrategyAdaptiveMedium)
	b := Replay(shuffled, policy.StrategyAdaptiveMedium)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("replay depends on input order; it must sort defensively")
	}
}

func TestReplay_FiltersNonPolicyKinds(t *testing.T) {
	events := append(sampleTrace(),
		evt(event.KindCodeChange, 5, event.Payload{}),
		evt(event.KindContentGenerated, 15, event.Payload{}),
		evt(event.KindContentSaved, 25, event.Payload{}),
	)

	trace := Replay(events, policy.StrategyAdaptiveMedium)
	if len(trace) != len(sampleTrace()) {
		t.Fatalf("got %d decision points, want %d (telemetry kinds excluded)", len(trace), len(sampleTrace()))
	}
	for _, p := range trace {
		if !event.PolicyKinds[p.Event.Kind] {
			t.Errorf("decision point for non-policy kind %s", p.Event.Kind)
		}
	}
}

func TestReplay_DecisionEvolution(t *testing.T) {
	trace := Replay(sampleTrace(), policy.StrategyAdaptiveMedium)

	// First point: a single execution, no errors yet.
	if trace[0].Decision.RuleFired != policy.RuleNoErrors {
		t.Errorf("point 0: got rule %q, want %q", trace[0].Decision.RuleFired, policy.RuleNoErrors)
	}

	// Last point: 3 hints seen, errors keep coming, no explanation after
	// the 3rd hint → auto-escalation under any finite strategy.
	last := trace[len(trace)-1]
	if last.Decision.RuleFired != policy.RuleAutoEscalation {
		t.Errorf("last point: got rule %q, want %q", last.Decision.RuleFired, policy.RuleAutoEscalation)
	}
	if last.Decision.Decision != policy.PresentExplanation {
		t.Errorf("last point: got decision %q, want %q", last.Decision.Decision, policy.PresentExplanation)
	}
}

func TestReplay_WhatIfStrategyComparison(t *testing.T) {
	events := sampleTrace()

	lenient := Replay(events, policy.StrategyHintOnly)
	strict := Replay(events, policy.StrategyAdaptiveHigh)

	for _, p := range lenient {
		if p.Decision.Decision == policy.PresentExplanation {
			t.Errorf("hint-only replay produced an explanation at event %s", p.Event.ID)
		}
	}

	sawExplanation := false
	for _, p := range strict {
		if p.Decision.Decision == policy.PresentExplanation {
			sawExplanation = true
		}
	}
	if !sawExplanation {
		t.Errorf("adaptive-high replay over this trace should escalate at least once")
	}
}

func TestReplay_RecordsThresholdsAndVersion(t *testing.T) {
	trace := Replay(sampleTrace(), policy.StrategyAdaptiveHigh)
	want := policy.ThresholdsFor(policy.StrategyAdaptiveHigh)

	for _, p := range trace {
		if p.Thresholds != want {
			t.Errorf("point carries thresholds %+v, want %+v", p.Thresholds, want)
		}
		if p.PolicyVersion != policy.Version {
			t.Errorf("point carries version %q, want %q", p.PolicyVersion, policy.Version)
		}
	}
}

func TestReplay_VersionDrift(t *testing.T) {
	events := []event.Event{
		evt(event.KindError, 0, event.Payload{ErrorSubtype: "syntax error"}),
		evt(event.KindHintView, 10, event.Payload{PolicyVersion: policy.Version}),
		evt(event.KindHintView, 20, event.Payload{PolicyVersion: "v0.9.0"}),
		evt(event.KindHintView, 30, event.Payload{PolicyVersion: "not-semver"}),
	}

	trace := Replay(events, policy.StrategyAdaptiveMedium)

	wantDrift := []bool{false, false, true, true}
	for i, p := range trace {
		if p.VersionDrift != wantDrift[i] {
			t.Errorf("point %d: drift = %v, want %v (recorded %q)",
				i, p.VersionDrift, wantDrift[i], p.Event.Payload.PolicyVersion)
		}
	}
}

func TestReplay_EmptySlice(t *testing.T) {
	if trace := Replay(nil, policy.StrategyAdaptiveMedium); len(trace) != 0 {
		t.Errorf("empty slice should produce an empty trace, got %d points", len(trace))
	}
}
