package store

import (
	"context"
	"fmt"
	"time"
)

// UpsertRace caches an aggregator race in the registry, keyed by the
// aggregator's external ID.
func (s *Store) UpsertRace(ctx context.Context, race *Race) (*Race, error) {
	var r Race
	err := s.pool.QueryRow(ctx,
		`INSERT INTO race_registry (external_id, name, city, state, start_date, distance, url, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 ON CONFLICT (external_id) DO UPDATE
		   SET name = $2, city = $3, state = $4, start_date = $5, distance = $6, url = $7, fetched_at = NOW()
		 RETURNING id, external_id, name, city, state, start_date, distance, url, fetched_at`,
		race.ExternalID, race.Name, race.City, race.State, race.StartDate, race.Distance, race.URL,
	).Scan(&r.ID, &r.ExternalID, &r.Name, &r.City, &r.State, &r.StartDate, &r.Distance, &r.URL, &r.FetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert race: %w", err)
	}
	return &r, nil
}

// ListRacesOptions filters registry queries.
type ListRacesOptions struct {
	City  *string
	State *string
	From  *time.Time
	To    *time.Time
	Limit int
}

// ListRaces returns registry races matching the options, soonest first.
func (s *Store) ListRaces(ctx context.Context, opts ListRacesOptions) ([]Race, error) {
	query := `SELECT id, external_id, name, city, state, start_date, distance, url, fetched_at
	          FROM race_registry WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.City != nil {
		query += " AND city = " + arg(*opts.City)
	}
	if opts.State != nil {
		query += " AND state = " + arg(*opts.State)
	}
	if opts.From != nil {
		query += " AND start_date >= " + arg(*opts.From)
	}
	if opts.To != nil {
		query += " AND start_date <= " + arg(*opts.To)
	}
	query += " ORDER BY start_date NULLS LAST LIMIT " + arg(opts.Limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	defer rows.Close()

	var races []Race
	for rows.Next() {
		var r Race
		if err := rows.Scan(&r.ID, &r.ExternalID, &r.Name, &r.City, &r.State, &r.StartDate, &r.Distance, &r.URL, &r.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan race: %w", err)
		}
		races = append(races, r)
	}
	return races, rows.Err()
}

// PublishCityRun mirrors a crew run into the public city listing.
func (s *Store) PublishCityRun(ctx context.Context, run *CrewRun, city string) (*CityRun, error) {
	var c CityRun
	err := s.pool.QueryRow(ctx,
		`INSERT INTO city_runs (city, title, run_date, meet_up_point, description, source_run_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, city, title, run_date, meet_up_point, description, source_run_id, created_at`,
		city, run.Title, run.Date, run.MeetUpPoint, run.Description, run.ID,
	).Scan(&c.ID, &c.City, &c.Title, &c.Date, &c.MeetUpPoint, &c.Description, &c.SourceRunID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to publish city run: %w", err)
	}
	return &c, nil
}
