// Package replay re-derives historical guidance decisions offline. It
// feeds a stored event slice back through the decision engine, one
// growing prefix at a time, producing an auditable trace that is
// byte-identical across runs. Golden-file regression tests and "what-if"
// strategy comparisons build on this without touching live state.
package replay

import (
	"golang.org/x/mod/semver"

	"github.com/abhisek/sqlcoach/internal/event"
	"github.com/abhisek/sqlcoach/internal/policy"
)

// DecisionPoint is one audited step of a trace: the event that
// triggered re-evaluation and everything needed to reproduce the
// decision later.
type DecisionPoint struct {
	Event         event.Event
	Decision      policy.AdaptiveDecision
	Thresholds    policy.Thresholds
	PolicyVersion string

	// VersionDrift is set when the historical event was recorded under
	// a different policy version than the engine replaying it, so
	// auditors know the original decision may legitimately differ.
	VersionDrift bool
}

// Replay filters events to the policy-relevant kinds, sorts them
// ascending by time (unlike the online path, input here may be an
// unordered historical dump), and folds left to right, deciding at each
// event over the prefix observed so far.
func Replay(events []event.Event, strategy policy.Strategy) []DecisionPoint {
	return ReplayWithEngine(policy.NewEngine(), events, strategy)
}

// ReplayWithEngine is Replay under a specific engine, e.g. one carrying
// threshold overrides for a what-if comparison.
func ReplayWithEngine(engine *policy.Engine, events []event.Event, strategy policy.Strategy) []DecisionPoint {
	relevant := make([]event.Event, 0, len(events))
	for _, e := range events {
		if event.PolicyKinds[e.Kind] {
			relevant = append(relevant, e)
		}
	}
	event.SortChronological(relevant)

	profile := policy.Profile{Strategy: strategy}
	thresholds := engine.ThresholdsFor(strategy)

	trace := make([]DecisionPoint, 0, len(relevant))
	for i := range relevant {
		prefix := relevant[:i+1]
		decision := engine.Decide(profile, prefix, relevant[i].ProblemID)
		trace = append(trace, DecisionPoint{
			Event:         relevant[i],
			Decision:      decision,
			Thresholds:    thresholds,
			PolicyVersion: policy.Version,
			VersionDrift:  versionDrift(relevant[i]),
		})
	}
	return trace
}

// versionDrift reports whether the event was recorded under a policy
// version other than the current one. Events without a recorded version
// predate version tagging and are not flagged.
func versionDrift(e event.Event) bool {
	recorded := e.Payload.PolicyVersion
	if recorded == "" {
		return false
	}
	if !semver.IsValid(recorded) {
		return true
	}
	return semver.Compare(recorded, policy.Version) != 0
}
