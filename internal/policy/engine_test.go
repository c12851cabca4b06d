package policy

import (
	"strings"
	"testing"
	"time"

	"github.com/abhisek/sqlcoach/internal/event"
)

var testBase = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// evt builds a test event n seconds after the base time.
func evt(kind event.Kind, offsetSec int, payload event.Payload) event.Event {
	return event.Event{
		LearnerID: "l1",
		SessionID: "s1",
		ProblemID: "p1",
		Sequence:  int64(offsetSec),
		Timestamp: testBase.Add(time.Duration(offsetSec) * time.Second),
		Kind:      kind,
		Payload:   payload,
	}
}

func errEvt(offsetSec int, subtype string) event.Event {
	return evt(event.KindError, offsetSec, event.Payload{ErrorSubtype: subtype})
}

func TestDecide_EmptySlice(t *testing.T) {
	d := Decide(Profile{Strategy: StrategyAdaptiveMedium}, nil, "p1")
	if d.Decision != PresentHint {
		t.Errorf("got decision %q, want %q", d.Decision, PresentHint)
	}
	if d.RuleFired != RuleNoErrors {
		t.Errorf("got rule %q, want %q", d.RuleFired, RuleNoErrors)
	}
	if d.NextHintLevel != 1 {
		t.Errorf("got next level %d, want 1", d.NextHintLevel)
	}
}

func TestDecide_NoErrors(t *testing.T) {
	events := []event.Event{
		evt(event.KindExecution, 0, event.Payload{}),
		evt(event.KindHintView, 10, event.Payload{}),
		evt(event.KindCodeChange, 20, event.Payload{}),
	}
	for _, s := range AllStrategies() {
		d := Decide(Profile{Strategy: s}, events, "p1")
		if d.RuleFired != RuleNoErrors {
			t.Errorf("strategy %s: got rule %q, want %q", s, d.RuleFired, RuleNoErrors)
		}
	}
}

func TestDecide_HintOnlyNeverEscalates(t *testing.T) {
	// Pile on errors and hints; hint-only must never present an explanation.
	var events []event.Event
	for i := 0; i < 3; i++ {
		events = append(events, evt(event.KindHintView, i*10, event.Payload{HintLevel: i + 1}))
	}
	for i := 0; i < 50; i++ {
		events = append(events, errEvt(100+i, "syntax error"))
	}

	d := Decide(Profile{Strategy: StrategyHintOnly}, events, "p1")
	if d.Decision == PresentExplanation {
		t.Fatalf("hint-only produced %q via rule %q", d.Decision, d.RuleFired)
	}
}

func TestDecide_AutoEscalation(t *testing.T) {
	// Exactly 3 hints followed by 1 error, no explanation after the 3rd hint.
	events := []event.Event{
		evt(event.KindHintView, 0, event.Payload{HintLevel: 1}),
		evt(event.KindHintView, 10, event.Payload{HintLevel: 2}),
		evt(event.KindHintView, 20, event.Payload{HintLevel: 3}),
		errEvt(30, "undefined column"),
	}

	d := Decide(Profile{Strategy: StrategyAdaptiveLow}, events, "p1")
	if d.Decision != PresentExplanation {
		t.Errorf("got decision %q, want %q", d.Decision, PresentExplanation)
	}
	if d.RuleFired != RuleAutoEscalation {
		t.Errorf("got rule %q, want %q", d.RuleFired, RuleAutoEscalation)
	}
}

func TestDecide_AutoEscalationClearedByExplanation(t *testing.T) {
	events := []event.Event{
		evt(event.KindHintView, 0, event.Payload{HintLevel: 1}),
		evt(event.KindHintView, 10, event.Payload{HintLevel: 2}),
		evt(event.KindHintView, 20, event.Payload{HintLevel: 3}),
		evt(event.KindExplanationView, 25, event.Payload{}),
		errEvt(30, "undefined column"),
	}

	d := Decide(Profile{Strategy: StrategyAdaptiveLow}, events, "p1")
	if d.RuleFired == RuleAutoEscalation {
		t.Errorf("explanation after 3rd hint should clear the signal, still got %q", d.RuleFired)
	}
}

func TestDecide_AutoEscalationNeedsThreeHints(t *testing.T) {
	events := []event.Event{
		evt(event.KindHintView, 0, event.Payload{HintLevel: 1}),
		evt(event.KindHintView, 10, event.Payload{HintLevel: 2}),
		errEvt(20, "undefined column"),
	}

	d := Decide(Profile{Strategy: StrategyAdaptiveLow}, events, "p1")
	if d.RuleFired == RuleAutoEscalation {
		t.Errorf("2 hints should not trigger auto-escalation")
	}
}

func TestDecide_AutoEscalationIgnoredForHintOnly(t *testing.T) {
	events := []event.Event{
		evt(event.KindHintView, 0, event.Payload{}),
		evt(event.KindHintView, 10, event.Payload{}),
		evt(event.KindHintView, 20, event.Payload{}),
		errEvt(30, "syntax error"),
	}

	d := Decide(Profile{Strategy: StrategyHintOnly}, events, "p1")
	if d.RuleFired == RuleAutoEscalation {
		t.Errorf("auto-escalation requires a finite escalate threshold")
	}
}

func TestDecide_EscalationThreshold(t *testing.T) {
	// adaptive-medium: escalate=3. 3 errors → retryCount=2 → explanation.
	events := []event.Event{
		errEvt(0, "syntax error"),
		errEvt(10, "syntax error"),
		errEvt(20, "syntax error"),
	}

	d := Decide(Profile{Strategy: StrategyAdaptiveMedium}, events, "p1")
	if d.Decision != PresentExplanation {
		t.Errorf("got decision %q, want %q", d.Decision, PresentExplanation)
	}
	if d.RuleFired != RuleEscalationThreshold {
		t.Errorf("got rule %q, want %q", d.RuleFired, RuleEscalationThreshold)
	}
}

func TestDecide_EscalationNeedsRetries(t *testing.T) {
	// adaptive-high: escalate=2, but 2 errors give retryCount=1 < 2,
	// and aggregate=4 is not met either → progressive hint.
	events := []event.Event{
		errEvt(0, "syntax error"),
		errEvt(10, "syntax error"),
	}

	d := Decide(Profile{Strategy: StrategyAdaptiveHigh}, events, "p1")
	if d.RuleFired != RuleProgressiveHint {
		t.Errorf("got rule %q, want %q", d.RuleFired, RuleProgressiveHint)
	}
}

func TestDecide_AggregationByCount(t *testing.T) {
	// With the built-in tables the escalate rule always trips before the
	// aggregate count (escalate < aggregate and retries accumulate), so
	// the count path is exercised with an override table.
	table := map[Strategy]Thresholds{
		StrategyAdaptiveMedium: {Escalate: Unlimited, Aggregate: 2},
	}
	engine := NewEngineWithThresholds(table)

	events := []event.Event{
		errEvt(0, "syntax error"),
		errEvt(10, "syntax error"),
	}

	d := engine.Decide(Profile{Strategy: StrategyAdaptiveMedium}, events, "p1")
	if d.Decision != AddToNotes {
		t.Errorf("got decision %q, want %q", d.Decision, AddToNotes)
	}
	if d.RuleFired != RuleAggregationThreshold {
		t.Errorf("got rule %q, want %q", d.RuleFired, RuleAggregationThreshold)
	}
}

func TestDecide_AggregationByElapsed(t *testing.T) {
	// One error, 11 minutes between first and last event.
	events := []event.Event{
		evt(event.KindExecution, 0, event.Payload{}),
		errEvt(60, "type mismatch"),
		evt(event.KindCodeChange, 11*60, event.Payload{}),
	}

	d := Decide(Profile{Strategy: StrategyAdaptiveLow}, events, "p1")
	if d.Decision != AddToNotes {
		t.Errorf("got decision %q, want %q", d.Decision, AddToNotes)
	}
	if d.RuleFired != RuleAggregationThreshold {
		t.Errorf("got rule %q, want %q", d.RuleFired, RuleAggregationThreshold)
	}
}

func TestDecide_ProgressiveHintLevels(t *testing.T) {
	tests := []struct {
		name      string
		hintViews int
		wantLevel int
	}{
		{"no hints yet", 0, 1},
		{"one hint seen", 1, 2},
		{"two hints seen", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []event.Event{errEvt(0, "syntax error")}
			for i := 0; i < tt.hintViews; i++ {
				events = append(events, evt(event.KindHintView, 10+i, event.Payload{HintLevel: i + 1}))
			}
			// An explanation view before hints would clear nothing here;
			// auto-escalation needs 3 hints, which these cases stay under.
			d := Decide(Profile{Strategy: StrategyAdaptiveLow}, events, "p1")
			if d.RuleFired != RuleProgressiveHint {
				t.Fatalf("got rule %q, want %q", d.RuleFired, RuleProgressiveHint)
			}
			if d.NextHintLevel != tt.wantLevel {
				t.Errorf("got next level %d, want %d", d.NextHintLevel, tt.wantLevel)
			}
		})
	}
}

func TestDecide_NextLevelCapped(t *testing.T) {
	// 5 hint views, explanation clearing auto-escalation. The suggestion
	// is min(currentHintLevel, 3) + 1 = 4; the selector is what clamps
	// the text level and raises the escalate flag.
	events := []event.Event{errEvt(0, "syntax error")}
	for i := 0; i < 5; i++ {
		events = append(events, evt(event.KindHintView, 10+i*10, event.Payload{}))
	}
	events = append(events, evt(event.KindExplanationView, 100, event.Payload{}))

	d := Decide(Profile{Strategy: StrategyAdaptiveLow}, events, "p1")
	if d.RuleFired != RuleProgressiveHint {
		t.Fatalf("got rule %q, want %q", d.RuleFired, RuleProgressiveHint)
	}
	if d.NextHintLevel != 4 {
		t.Errorf("got next level %d, want 4 (selector clamps and flags escalation)", d.NextHintLevel)
	}
}

func TestDecide_IsPure(t *testing.T) {
	events := []event.Event{
		evt(event.KindHintView, 0, event.Payload{}),
		errEvt(10, "ambiguous column"),
		errEvt(20, "ambiguous column"),
	}

	first := Decide(Profile{Strategy: StrategyAdaptiveHigh}, events, "p1")
	for i := 0; i < 10; i++ {
		again := Decide(Profile{Strategy: StrategyAdaptiveHigh}, events, "p1")
		if again != first {
			t.Fatalf("call %d differed: %+v vs %+v", i, again, first)
		}
	}
}

func TestDecide_ReasoningMentionsProblem(t *testing.T) {
	d := Decide(Profile{Strategy: StrategyAdaptiveMedium}, nil, "joins-04")
	if !strings.Contains(d.Reasoning, "joins-04") {
		t.Errorf("reasoning %q should name the problem", d.Reasoning)
	}
}
