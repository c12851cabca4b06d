package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/sqlcoach/internal/event"
)

// EventRepo provides append and ordered-read access to the interaction
// log. Events are immutable once appended.
type EventRepo interface {
	// Append stores a new event, assigning its ID (when empty) and its
	// global sequence number.
	Append(ctx context.Context, e *event.Event) error

	// ForProblem returns the events for one (learner, session, problem)
	// scope, ordered by sequence.
	ForProblem(ctx context.Context, learnerID, sessionID, problemID string) ([]event.Event, error)

	// ForLearner returns all events for a learner, ordered by sequence.
	ForLearner(ctx context.Context, learnerID string) ([]event.Event, error)

	// ByIDs returns the events with the given IDs, ordered by sequence.
	ByIDs(ctx context.Context, ids []string) ([]event.Event, error)

	// CountByKind returns per-kind event counts for a learner.
	CountByKind(ctx context.Context, learnerID string) (map[event.Kind]int, error)

	// DeleteLearner removes all events and the profile for a learner.
	// Reserved for the explicit reset command; never used by the engine.
	DeleteLearner(ctx context.Context, learnerID string) error
}

// sequenceCounter manages the global monotonic sequence shared by all
// events. The mutex serializes within the process; the RETURNING clause
// makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

const eventColumns = `id, sequence, learner_id, session_id, problem_id, kind, timestamp, payload`

func (r *eventRepo) Append(ctx context.Context, e *event.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	e.Sequence = seqNum

	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO interaction_events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Sequence, e.LearnerID, e.SessionID, e.ProblemID,
		string(e.Kind), e.Timestamp.UTC().Format(time.RFC3339Nano), string(payload),
	)
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

func (r *eventRepo) ForProblem(ctx context.Context, learnerID, sessionID, problemID string) ([]event.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM interaction_events
		 WHERE learner_id = ? AND session_id = ? AND problem_id = ?
		 ORDER BY sequence`,
		learnerID, sessionID, problemID,
	)
	if err != nil {
		return nil, fmt.Errorf("query problem events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepo) ForLearner(ctx context.Context, learnerID string) ([]event.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM interaction_events
		 WHERE learner_id = ? ORDER BY sequence`,
		learnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query learner events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepo) ByIDs(ctx context.Context, ids []string) ([]event.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM interaction_events
		 WHERE id IN (`+placeholders+`) ORDER BY sequence`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query events by id: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepo) CountByKind(ctx context.Context, learnerID string) (map[event.Kind]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM interaction_events
		 WHERE learner_id = ? GROUP BY kind`,
		learnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[event.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		counts[event.Kind(kind)] = n
	}
	return counts, rows.Err()
}

func (r *eventRepo) DeleteLearner(ctx context.Context, learnerID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM interaction_events WHERE learner_id = ?`, learnerID); err != nil {
		return fmt.Errorf("delete learner events: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM learner_profiles WHERE learner_id = ?`, learnerID); err != nil {
		return fmt.Errorf("delete learner profile: %w", err)
	}
	return nil
}

// scanEvents reads event rows into the domain type.
func scanEvents(rows *sql.Rows) ([]event.Event, error) {
	var out []event.Event
	for rows.Next() {
		var e event.Event
		var kind, ts, payload string
		if err := rows.Scan(&e.ID, &e.Sequence, &e.LearnerID, &e.SessionID,
			&e.ProblemID, &kind, &ts, &payload); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		e.Kind = event.Kind(kind)

		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse event timestamp: %w", err)
		}
		e.Timestamp = parsed

		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, fmt.Errorf("parse event payload: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
