package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertRSVP records or changes an athlete's attendance intent for a run.
func (s *Store) UpsertRSVP(ctx context.Context, runID, athleteID uuid.UUID, status string) (*RSVP, error) {
	if status != RSVPGoing && status != RSVPNotGoing {
		return nil, fmt.Errorf("invalid rsvp status: %q", status)
	}

	var r RSVP
	err := s.pool.QueryRow(ctx,
		`INSERT INTO run_rsvps (run_id, athlete_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, athlete_id) DO UPDATE SET status = $3, updated_at = NOW()
		 RETURNING run_id, athlete_id, status, checked_in, checked_at, updated_at`,
		runID, athleteID, status,
	).Scan(&r.RunID, &r.AthleteID, &r.Status, &r.CheckedIn, &r.CheckedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rsvp: %w", err)
	}
	return &r, nil
}

// CheckIn marks an athlete as present at a run. The athlete must have an
// RSVP row already; checking in without one is reported via found=false.
func (s *Store) CheckIn(ctx context.Context, runID, athleteID uuid.UUID) (found bool, err error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE run_rsvps SET checked_in = TRUE, checked_at = NOW(), updated_at = NOW()
		 WHERE run_id = $1 AND athlete_id = $2`,
		runID, athleteID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check in: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListRSVPs returns a run's RSVPs with joined athlete names.
func (s *Store) ListRSVPs(ctx context.Context, runID uuid.UUID) ([]RSVP, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT r.run_id, r.athlete_id, r.status, r.checked_in, r.checked_at, r.updated_at, a.name
		 FROM run_rsvps r
		 JOIN athletes a ON a.id = r.athlete_id
		 WHERE r.run_id = $1
		 ORDER BY r.updated_at`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []RSVP
	for rows.Next() {
		var r RSVP
		if err := rows.Scan(&r.RunID, &r.AthleteID, &r.Status, &r.CheckedIn, &r.CheckedAt, &r.UpdatedAt, &r.AthleteName); err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		rsvps = append(rsvps, r)
	}
	return rsvps, rows.Err()
}

// GetRSVPCounts aggregates attendance numbers for a run.
func (s *Store) GetRSVPCounts(ctx context.Context, runID uuid.UUID) (*RSVPCounts, error) {
	var c RSVPCounts
	err := s.pool.QueryRow(ctx,
		`SELECT
		   COUNT(*) FILTER (WHERE status = $2),
		   COUNT(*) FILTER (WHERE status = $3),
		   COUNT(*) FILTER (WHERE checked_in)
		 FROM run_rsvps WHERE run_id = $1`,
		runID, RSVPGoing, RSVPNotGoing,
	).Scan(&c.Going, &c.NotGoing, &c.CheckedIn)
	if err != nil {
		return nil, fmt.Errorf("failed to count rsvps: %w", err)
	}
	return &c, nil
}

// GetRSVP returns one athlete's RSVP for a run, or nil when absent.
func (s *Store) GetRSVP(ctx context.Context, runID, athleteID uuid.UUID) (*RSVP, error) {
	var r RSVP
	err := s.pool.QueryRow(ctx,
		`SELECT run_id, athlete_id, status, checked_in, checked_at, updated_at
		 FROM run_rsvps WHERE run_id = $1 AND athlete_id = $2`,
		runID, athleteID,
	).Scan(&r.RunID, &r.AthleteID, &r.Status, &r.CheckedIn, &r.CheckedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rsvp: %w", err)
	}
	return &r, nil
}
