// Package tutor wires the guidance pipeline together: it reconciles the
// help-flow state against the persisted log, runs the decision engine,
// resolves content, and proposes the resulting events back to the store.
// It is the only package with side effects; everything it calls is a
// pure computation over the data it is handed.
package tutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/sqlcoach/internal/content"
	"github.com/abhisek/sqlcoach/internal/event"
	"github.com/abhisek/sqlcoach/internal/helpflow"
	"github.com/abhisek/sqlcoach/internal/policy"
	"github.com/abhisek/sqlcoach/internal/store"
)

// ErrHelpInFlight is returned when a help request arrives while a
// previous one for the same flow is still being processed. Callers treat
// it as "ignore this trigger", not as a failure.
var ErrHelpInFlight = errors.New("help request already in flight")

// HelpResult is the outcome of one help request: what the policy decided
// and, for hint/explanation decisions, the resolved content.
type HelpResult struct {
	Decision  policy.AdaptiveDecision
	Selection *content.Selection // nil for add-to-notes
	HelpIndex int                // 0 when no help view was emitted
	Duplicate bool               // emission dropped by the dedup set
}

// Service orchestrates help requests for one caller at a time.
type Service struct {
	engine   *policy.Engine
	catalog  *content.Catalog
	events   store.EventRepo
	profiles store.ProfileRepo
	flow     *helpflow.Flow
}

// NewService builds a tutor service. engine may be nil to use the
// built-in threshold table.
func NewService(engine *policy.Engine, catalog *content.Catalog, events store.EventRepo, profiles store.ProfileRepo) *Service {
	if engine == nil {
		engine = policy.NewEngine()
	}
	return &Service{
		engine:   engine,
		catalog:  catalog,
		events:   events,
		profiles: profiles,
		flow:     helpflow.New(),
	}
}

// RequestHelp runs the full online pipeline for one help request. The
// subtype request is the instructor-override union: Auto() derives the
// subtype from the most recent error, Override forces one.
func (s *Service) RequestHelp(ctx context.Context, learnerID, sessionID, problemID string, req content.Request) (*HelpResult, error) {
	key := helpflow.Key{LearnerID: learnerID, SessionID: sessionID, ProblemID: problemID}

	history, err := s.events.ForProblem(ctx, learnerID, sessionID, problemID)
	if err != nil {
		return nil, fmt.Errorf("load problem history: %w", err)
	}

	// The volatile counter is never trusted across a scope change; it is
	// recomputed from the persisted log.
	if s.flow.Key() != key {
		s.flow.Reset(key, history)
	}

	if !s.flow.Begin() {
		return nil, ErrHelpInFlight
	}
	defer s.flow.End()

	decision := s.decide(ctx, learnerID, history, problemID)

	result := &HelpResult{Decision: decision}

	switch decision.Decision {
	case policy.PresentHint:
		err = s.resolveAndEmit(ctx, key, event.KindHintView, decision.NextHintLevel, req, history, decision, result)
	case policy.PresentExplanation:
		// Explanations use the deepest ladder text.
		err = s.resolveAndEmit(ctx, key, event.KindExplanationView, 3, req, history, decision, result)
	case policy.AddToNotes:
		err = s.appendNote(ctx, key, decision, history)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// decide loads the profile and runs the cascade. An absent profile is
// the documented caller-side fallback: present a hint, no escalation.
func (s *Service) decide(ctx context.Context, learnerID string, history []event.Event, problemID string) policy.AdaptiveDecision {
	profile, err := s.profiles.Get(ctx, learnerID)
	if err != nil || profile == nil {
		return policy.AdaptiveDecision{
			Decision:      policy.PresentHint,
			RuleFired:     policy.RuleProgressiveHint,
			Reasoning:     "profile unavailable",
			NextHintLevel: 1,
		}
	}
	return s.engine.Decide(*profile, history, problemID)
}

// resolveAndEmit selects content and proposes the help-view event,
// respecting the idempotency manager's verdict.
func (s *Service) resolveAndEmit(ctx context.Context, key helpflow.Key, kind event.Kind, level int, req content.Request, history []event.Event, decision policy.AdaptiveDecision, result *HelpResult) error {
	subtype := req.Resolve(latestErrorSubtype(history))
	canon := content.Canonicalize(subtype)
	seed := key.LearnerID + "|" + key.ProblemID + "|" + canon

	selection := s.catalog.Select(subtype, level, seed)
	result.Selection = &selection

	index := s.flow.AllocateNextIndex()
	if !s.flow.Register(kind, index) {
		// Already emitted this lifetime; drop the emission, keep the content.
		result.Duplicate = true
		return nil
	}

	err := s.events.Append(ctx, &event.Event{
		LearnerID: key.LearnerID,
		SessionID: key.SessionID,
		ProblemID: key.ProblemID,
		Kind:      kind,
		Payload: event.Payload{
			ErrorSubtype:  selection.Subtype,
			HintLevel:     selection.Level,
			HelpIndex:     index,
			ContentRowID:  selection.RowID,
			PolicyVersion: selection.PolicyVersion,
			RuleFired:     string(decision.RuleFired),
		},
	})
	if err != nil {
		return fmt.Errorf("append %s event: %w", kind, err)
	}
	result.HelpIndex = index
	return nil
}

// appendNote emits the content_saved event for an add-to-notes decision.
func (s *Service) appendNote(ctx context.Context, key helpflow.Key, decision policy.AdaptiveDecision, history []event.Event) error {
	err := s.events.Append(ctx, &event.Event{
		LearnerID: key.LearnerID,
		SessionID: key.SessionID,
		ProblemID: key.ProblemID,
		Kind:      event.KindContentSaved,
		Payload: event.Payload{
			ErrorSubtype:  content.Canonicalize(latestErrorSubtype(history)),
			PolicyVersion: policy.Version,
			RuleFired:     string(decision.RuleFired),
		},
	})
	if err != nil {
		return fmt.Errorf("save note event: %w", err)
	}
	return nil
}

// RecordExecution appends an execution or error event from the grading
// boundary. errorSubtype is empty for successful runs.
func (s *Service) RecordExecution(ctx context.Context, learnerID, sessionID, problemID, errorSubtype string) error {
	kind := event.KindExecution
	var payload event.Payload
	if errorSubtype != "" {
		kind = event.KindError
		payload.ErrorSubtype = errorSubtype
	}

	err := s.events.Append(ctx, &event.Event{
		LearnerID: learnerID,
		SessionID: sessionID,
		ProblemID: problemID,
		Kind:      kind,
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("record execution: %w", err)
	}
	return nil
}

// latestErrorSubtype returns the most recent error subtype in the
// ordered history, or "" when no error has been seen.
func latestErrorSubtype(history []event.Event) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Kind == event.KindError {
			return history[i].Payload.ErrorSubtype
		}
	}
	return ""
}
