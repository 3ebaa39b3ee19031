package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListCrewsOptions filters and pages crew listings.
type ListCrewsOptions struct {
	City   *string
	Limit  int
	Offset int
}

// CreateCrew inserts a new run crew and makes the creator its captain.
func (s *Store) CreateCrew(ctx context.Context, name, city string, description *string, createdBy uuid.UUID) (*RunCrew, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var c RunCrew
	err = tx.QueryRow(ctx,
		`INSERT INTO run_crews (name, city, description, created_by)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, city, description, logo_url, created_by, created_at, updated_at`,
		name, city, description, createdBy,
	).Scan(&c.ID, &c.Name, &c.City, &c.Description, &c.LogoURL, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create crew: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO crew_memberships (crew_id, athlete_id, role) VALUES ($1, $2, $3)`,
		c.ID, createdBy, RoleCaptain,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create captain membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit crew: %w", err)
	}
	return &c, nil
}

// GetCrewByID retrieves a crew. Returns nil when not found.
func (s *Store) GetCrewByID(ctx context.Context, id uuid.UUID) (*RunCrew, error) {
	var c RunCrew
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, city, description, logo_url, created_by, created_at, updated_at
		 FROM run_crews WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.City, &c.Description, &c.LogoURL, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get crew: %w", err)
	}
	return &c, nil
}

// GetCrewCity resolves a crew ID to its home city. Used by the generate
// endpoint to supply the extractor's contextual city. Returns "" when the
// crew does not exist.
func (s *Store) GetCrewCity(ctx context.Context, id uuid.UUID) (string, error) {
	var city string
	err := s.pool.QueryRow(ctx, `SELECT city FROM run_crews WHERE id = $1`, id).Scan(&city)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get crew city: %w", err)
	}
	return city, nil
}

// ListCrews returns crews matching the options plus the total count.
func (s *Store) ListCrews(ctx context.Context, opts ListCrewsOptions) ([]RunCrew, int, error) {
	where := ""
	args := []any{}
	if opts.City != nil {
		where = "WHERE city = $1"
		args = append(args, *opts.City)
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM run_crews "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count crews: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, name, city, description, logo_url, created_by, created_at, updated_at
		 FROM run_crews %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list crews: %w", err)
	}
	defer rows.Close()

	var crews []RunCrew
	for rows.Next() {
		var c RunCrew
		if err := rows.Scan(&c.ID, &c.Name, &c.City, &c.Description, &c.LogoURL, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan crew: %w", err)
		}
		crews = append(crews, c)
	}
	return crews, total, rows.Err()
}

// UpdateCrew updates the editable crew fields.
func (s *Store) UpdateCrew(ctx context.Context, id uuid.UUID, name, city string, description, logoURL *string) (*RunCrew, error) {
	var c RunCrew
	err := s.pool.QueryRow(ctx,
		`UPDATE run_crews
		 SET name = $2, city = $3, description = $4, logo_url = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, name, city, description, logo_url, created_by, created_at, updated_at`,
		id, name, city, description, logoURL,
	).Scan(&c.ID, &c.Name, &c.City, &c.Description, &c.LogoURL, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update crew: %w", err)
	}
	return &c, nil
}

// DeleteCrew removes a crew and, via cascading constraints, its memberships
// and runs.
func (s *Store) DeleteCrew(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM run_crews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete crew: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// JoinCrew adds an athlete to a crew as a regular member. Re-joining is a
// no-op rather than an error.
func (s *Store) JoinCrew(ctx context.Context, crewID, athleteID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO crew_memberships (crew_id, athlete_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (crew_id, athlete_id) DO NOTHING`,
		crewID, athleteID, RoleMember,
	)
	if err != nil {
		return fmt.Errorf("failed to join crew: %w", err)
	}
	return nil
}

// LeaveCrew removes an athlete's membership.
func (s *Store) LeaveCrew(ctx context.Context, crewID, athleteID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM crew_memberships WHERE crew_id = $1 AND athlete_id = $2`,
		crewID, athleteID,
	)
	if err != nil {
		return fmt.Errorf("failed to leave crew: %w", err)
	}
	return nil
}

// ListMembers returns the crew roster with joined athlete names.
func (s *Store) ListMembers(ctx context.Context, crewID uuid.UUID) ([]Membership, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT m.crew_id, m.athlete_id, m.role, m.joined_at, a.name, a.city
		 FROM crew_memberships m
		 JOIN athletes a ON a.id = m.athlete_id
		 WHERE m.crew_id = $1
		 ORDER BY m.joined_at`,
		crewID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.CrewID, &m.AthleteID, &m.Role, &m.JoinedAt, &m.AthleteName, &m.AthleteCity); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// IsMember reports whether the athlete belongs to the crew.
func (s *Store) IsMember(ctx context.Context, crewID, athleteID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM crew_memberships WHERE crew_id = $1 AND athlete_id = $2)`,
		crewID, athleteID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}
