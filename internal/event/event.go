// Package event defines the append-only interaction log records that
// every other package reads. Events are created at the system boundary
// and never mutated afterwards; the policy engine only consumes ordered
// slices of them and proposes new ones for help flows.
package event

import (
	"sort"
	"time"
)

// Kind identifies what a learner interaction recorded.
type Kind string

const (
	KindExecution        Kind = "execution"
	KindError            Kind = "error"
	KindHintView         Kind = "hint_view"
	KindExplanationView  Kind = "explanation_view"
	KindCodeChange       Kind = "code_change"
	KindContentGenerated Kind = "content_generated"
	KindContentSaved     Kind = "content_saved"
)

// PolicyKinds are the kinds the decision engine and replay consider.
// Everything else (code changes, content bookkeeping) is telemetry.
var PolicyKinds = map[Kind]bool{
	KindExecution:       true,
	KindError:           true,
	KindHintView:        true,
	KindExplanationView: true,
}

// Payload carries the kind-specific fields of an event. Unused fields
// stay zero; the whole struct round-trips as one JSON column.
type Payload struct {
	ErrorSubtype  string            `json:"error_subtype,omitempty"`
	HintLevel     int               `json:"hint_level,omitempty"`
	HelpIndex     int               `json:"help_index,omitempty"`
	ContentKind   string            `json:"content_kind,omitempty"`
	ContentRowID  string            `json:"content_row_id,omitempty"`
	PolicyVersion string            `json:"policy_version,omitempty"`
	RuleFired     string            `json:"rule_fired,omitempty"`
	Detail        map[string]string `json:"detail,omitempty"`
}

// Event is one immutable interaction record.
type Event struct {
	ID        string
	LearnerID string
	SessionID string
	ProblemID string
	Sequence  int64
	Timestamp time.Time
	Kind      Kind
	Payload   Payload
}

// FilterKind returns the events of the given kind, preserving order.
func FilterKind(events []Event, kind Kind) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// CountKind returns how many events of the given kind appear in the slice.
func CountKind(events []Event, kind Kind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// SortChronological orders events ascending by timestamp, breaking ties
// with the sequence number so traces are stable even when wall clocks
// collide.
func SortChronological(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Sequence < events[j].Sequence
		}
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
