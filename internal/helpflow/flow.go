// Package helpflow tracks the per-problem help-request bookkeeping that
// keeps repeated or rapid-fire help requests from being recorded twice.
// Flow state is volatile and caller-owned; the append-only event log is
// the source of truth, and Reset reconciles the counter against it
// whenever the (learner, session, problem) key changes.
package helpflow

import "github.com/abhisek/sqlcoach/internal/event"

// Key scopes one help flow.
type Key struct {
	LearnerID string
	SessionID string
	ProblemID string
}

// dedupCapacity bounds the registration set. On overflow the oldest half
// is evicted; indices are monotonic, so evicted pairs cannot recur
// within one flow lifetime.
const dedupCapacity = 1000

type regEntry struct {
	kind  event.Kind
	index int
}

// Flow is the mutable bookkeeping for one help flow: the next
// help-request index, the set of emissions already registered this
// lifetime, and the in-flight guard. Not safe for concurrent use; the
// caller serializes attempts through the guard.
type Flow struct {
	key      Key
	next     int
	seen     map[regEntry]struct{}
	order    []regEntry
	inFlight bool
}

// New returns an empty flow. Callers must Reset it against persisted
// history before allocating indices.
func New() *Flow {
	return &Flow{
		next: 1,
		seen: make(map[regEntry]struct{}),
	}
}

// Key returns the flow's current scope.
func (f *Flow) Key() Key {
	return f.key
}

// Reset rebinds the flow to key and recomputes the next index from the
// persisted history: one past the count of prior help views in scope.
// The registration set and guard are cleared. Reset is never implicit;
// the caller invokes it exactly when it detects a key change.
func (f *Flow) Reset(key Key, history []event.Event) {
	prior := 0
	for _, e := range history {
		if e.LearnerID != key.LearnerID || e.SessionID != key.SessionID || e.ProblemID != key.ProblemID {
			continue
		}
		if e.Kind == event.KindHintView || e.Kind == event.KindExplanationView {
			prior++
		}
	}

	f.key = key
	f.next = prior + 1
	f.seen = make(map[regEntry]struct{})
	f.order = f.order[:0]
	f.inFlight = false
}

// AllocateNextIndex returns the current next index and increments it.
// Successive calls within one flow lifetime return strictly increasing
// integers.
func (f *Flow) AllocateNextIndex() int {
	idx := f.next
	f.next++
	return idx
}

// Register records that (kind, index) is about to be emitted. It returns
// false without side effects when the pair was already registered this
// lifetime, signaling the caller to drop the duplicate emission.
func (f *Flow) Register(kind event.Kind, index int) bool {
	entry := regEntry{kind: kind, index: index}
	if _, dup := f.seen[entry]; dup {
		return false
	}

	if len(f.order) >= dedupCapacity {
		evict := f.order[:dedupCapacity/2]
		for _, old := range evict {
			delete(f.seen, old)
		}
		f.order = append(f.order[:0], f.order[dedupCapacity/2:]...)
	}

	f.seen[entry] = struct{}{}
	f.order = append(f.order, entry)
	return true
}

// Begin claims the in-flight guard. It returns false when another help
// attempt is still being processed, rejecting double-triggered requests
// before any index is allocated.
func (f *Flow) Begin() bool {
	if f.inFlight {
		return false
	}
	f.inFlight = true
	return true
}

// End releases the guard. Called at the end of every attempt, whether it
// succeeded or not.
func (f *Flow) End() {
	f.inFlight = false
}
