// Package server provides the HTTP REST API for GoFast.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrAthleteNotFound indicates the athlete was not found.
type ErrAthleteNotFound struct {
	AthleteID uuid.UUID
}

func (e *ErrAthleteNotFound) Error() string {
	return fmt.Sprintf("athlete not found: %s", e.AthleteID)
}

// ErrCrewNotFound indicates the run crew was not found.
type ErrCrewNotFound struct {
	CrewID uuid.UUID
}

func (e *ErrCrewNotFound) Error() string {
	return fmt.Sprintf("run crew not found: %s", e.CrewID)
}

// ErrRunNotFound indicates the crew run was not found.
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("run not found: %s", e.RunID)
}

// ErrNotCrewMember indicates the athlete does not belong to the crew, or
// lacks the required role when Role is set.
type ErrNotCrewMember struct {
	AthleteID uuid.UUID
	CrewID    uuid.UUID
	Role      string
}

func (e *ErrNotCrewMember) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("athlete %s does not hold the %s role in crew %s", e.AthleteID, e.Role, e.CrewID)
	}
	return fmt.Sprintf("athlete %s is not a member of crew %s", e.AthleteID, e.CrewID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrAthleteNotFound, *ErrCrewNotFound, *ErrRunNotFound:
		return http.StatusNotFound
	case *ErrNotCrewMember:
		return http.StatusForbidden
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
