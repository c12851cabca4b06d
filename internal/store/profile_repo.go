package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhisek/sqlcoach/internal/policy"
)

// ProfileRepo reads and writes learner strategy profiles.
type ProfileRepo interface {
	// Get returns the profile for a learner, or nil when none exists.
	// An absent profile is not an error; callers fall back to the
	// documented default behavior.
	Get(ctx context.Context, learnerID string) (*policy.Profile, error)

	// Put creates or replaces a learner's profile.
	Put(ctx context.Context, profile policy.Profile) error
}

type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) Get(ctx context.Context, learnerID string) (*policy.Profile, error) {
	var strategy string
	err := r.db.QueryRowContext(ctx,
		`SELECT strategy FROM learner_profiles WHERE learner_id = ?`,
		learnerID,
	).Scan(&strategy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &policy.Profile{
		LearnerID: learnerID,
		Strategy:  policy.Strategy(strategy),
	}, nil
}

func (r *profileRepo) Put(ctx context.Context, profile policy.Profile) error {
	if !profile.Strategy.Valid() {
		return fmt.Errorf("put profile: unknown strategy %q", profile.Strategy)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO learner_profiles (learner_id, strategy) VALUES (?, ?)
		 ON CONFLICT (learner_id) DO UPDATE SET strategy = excluded.strategy`,
		profile.LearnerID, string(profile.Strategy),
	)
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}
