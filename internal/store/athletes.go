package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateAthlete inserts a new athlete profile for a verified identity.
func (s *Store) CreateAthlete(ctx context.Context, authUID, name, email string, city *string) (*Athlete, error) {
	var a Athlete
	err := s.pool.QueryRow(ctx,
		`INSERT INTO athletes (auth_uid, name, email, city)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, auth_uid, name, email, city, bio, avatar_url, created_at, updated_at`,
		authUID, name, email, city,
	).Scan(&a.ID, &a.AuthUID, &a.Name, &a.Email, &a.City, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create athlete: %w", err)
	}
	return &a, nil
}

// GetAthleteByID retrieves an athlete by UUID. Returns nil when not found.
func (s *Store) GetAthleteByID(ctx context.Context, id uuid.UUID) (*Athlete, error) {
	return s.scanAthlete(s.pool.QueryRow(ctx,
		`SELECT id, auth_uid, name, email, city, bio, avatar_url, created_at, updated_at
		 FROM athletes WHERE id = $1`, id))
}

// GetAthleteByAuthUID maps an identity provider subject to an athlete.
func (s *Store) GetAthleteByAuthUID(ctx context.Context, authUID string) (*Athlete, error) {
	return s.scanAthlete(s.pool.QueryRow(ctx,
		`SELECT id, auth_uid, name, email, city, bio, avatar_url, created_at, updated_at
		 FROM athletes WHERE auth_uid = $1`, authUID))
}

func (s *Store) scanAthlete(row pgx.Row) (*Athlete, error) {
	var a Athlete
	err := row.Scan(&a.ID, &a.AuthUID, &a.Name, &a.Email, &a.City, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get athlete: %w", err)
	}
	return &a, nil
}

// UpdateAthlete updates the editable profile fields.
func (s *Store) UpdateAthlete(ctx context.Context, id uuid.UUID, name string, city, bio, avatarURL *string) (*Athlete, error) {
	var a Athlete
	err := s.pool.QueryRow(ctx,
		`UPDATE athletes
		 SET name = $2, city = $3, bio = $4, avatar_url = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, auth_uid, name, email, city, bio, avatar_url, created_at, updated_at`,
		id, name, city, bio, avatarURL,
	).Scan(&a.ID, &a.AuthUID, &a.Name, &a.Email, &a.City, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update athlete: %w", err)
	}
	return &a, nil
}

// DeleteAthlete removes an athlete profile.
func (s *Store) DeleteAthlete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM athletes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete athlete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
