package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const crewRunColumns = `id, crew_id, title, run_date, start_time_hour, start_time_minute,
	start_time_period, meet_up_point, meet_up_city, route_neighborhood, run_type,
	workout_description, total_miles, pace, post_run_activity, strava_map_url,
	description, created_by, created_at, updated_at`

func scanCrewRun(row pgx.Row) (*CrewRun, error) {
	var r CrewRun
	err := row.Scan(&r.ID, &r.CrewID, &r.Title, &r.Date, &r.StartTimeHour, &r.StartTimeMinute,
		&r.StartTimePeriod, &r.MeetUpPoint, &r.MeetUpCity, &r.RouteNeighborhood, &r.RunType,
		&r.WorkoutDescription, &r.TotalMiles, &r.Pace, &r.PostRunActivity, &r.StravaMapURL,
		&r.Description, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateCrewRun schedules a run for a crew from reviewed run fields.
func (s *Store) CreateCrewRun(ctx context.Context, run *CrewRun) (*CrewRun, error) {
	created, err := scanCrewRun(s.pool.QueryRow(ctx,
		`INSERT INTO crew_runs (crew_id, title, run_date, start_time_hour, start_time_minute,
		   start_time_period, meet_up_point, meet_up_city, route_neighborhood, run_type,
		   workout_description, total_miles, pace, post_run_activity, strava_map_url,
		   description, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING `+crewRunColumns,
		run.CrewID, run.Title, run.Date, run.StartTimeHour, run.StartTimeMinute,
		run.StartTimePeriod, run.MeetUpPoint, run.MeetUpCity, run.RouteNeighborhood, run.RunType,
		run.WorkoutDescription, run.TotalMiles, run.Pace, run.PostRunActivity, run.StravaMapURL,
		run.Description, run.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create crew run: %w", err)
	}
	return created, nil
}

// GetCrewRunByID retrieves a run. Returns nil when not found.
func (s *Store) GetCrewRunByID(ctx context.Context, id uuid.UUID) (*CrewRun, error) {
	run, err := scanCrewRun(s.pool.QueryRow(ctx,
		`SELECT `+crewRunColumns+` FROM crew_runs WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get crew run: %w", err)
	}
	return run, nil
}

// ListUpcomingCrewRuns returns the crew's runs dated today or later, soonest
// first. Undated runs sort last.
func (s *Store) ListUpcomingCrewRuns(ctx context.Context, crewID uuid.UUID, limit int) ([]CrewRun, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+crewRunColumns+`
		 FROM crew_runs
		 WHERE crew_id = $1 AND (run_date IS NULL OR run_date >= CURRENT_DATE)
		 ORDER BY run_date NULLS LAST, created_at
		 LIMIT $2`,
		crewID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming runs: %w", err)
	}
	defer rows.Close()

	var runs []CrewRun
	for rows.Next() {
		run, err := scanCrewRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crew run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// UpdateCrewRun replaces the editable fields of a run.
func (s *Store) UpdateCrewRun(ctx context.Context, run *CrewRun) (*CrewRun, error) {
	updated, err := scanCrewRun(s.pool.QueryRow(ctx,
		`UPDATE crew_runs SET title = $2, run_date = $3, start_time_hour = $4,
		   start_time_minute = $5, start_time_period = $6, meet_up_point = $7,
		   meet_up_city = $8, route_neighborhood = $9, run_type = $10,
		   workout_description = $11, total_miles = $12, pace = $13,
		   post_run_activity = $14, strava_map_url = $15, description = $16,
		   updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+crewRunColumns,
		run.ID, run.Title, run.Date, run.StartTimeHour, run.StartTimeMinute,
		run.StartTimePeriod, run.MeetUpPoint, run.MeetUpCity, run.RouteNeighborhood,
		run.RunType, run.WorkoutDescription, run.TotalMiles, run.Pace,
		run.PostRunActivity, run.StravaMapURL, run.Description,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update crew run: %w", err)
	}
	return updated, nil
}

// DeleteCrewRun removes a run and its RSVPs.
func (s *Store) DeleteCrewRun(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM crew_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete crew run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListCityRuns returns public runs for a city, soonest first.
func (s *Store) ListCityRuns(ctx context.Context, city string, limit int) ([]CityRun, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, city, title, run_date, meet_up_point, description, source_run_id, created_at
		 FROM city_runs
		 WHERE city = $1 AND (run_date IS NULL OR run_date >= CURRENT_DATE)
		 ORDER BY run_date NULLS LAST
		 LIMIT $2`,
		city, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list city runs: %w", err)
	}
	defer rows.Close()

	var runs []CityRun
	for rows.Next() {
		var r CityRun
		if err := rows.Scan(&r.ID, &r.City, &r.Title, &r.Date, &r.MeetUpPoint, &r.Description, &r.SourceRunID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan city run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
