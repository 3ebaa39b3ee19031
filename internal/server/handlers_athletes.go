package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gofast-app/gofast/internal/server/middleware"
	"github.com/gofast-app/gofast/internal/store"
	"github.com/gofast-app/gofast/internal/types"
)

// requireAthlete resolves the authenticated token subject to an athlete
// profile. Returns nil with a response already written when no profile
// exists.
func (s *Server) requireAthlete(w http.ResponseWriter, r *http.Request) *store.Athlete {
	subject, err := middleware.GetAthleteID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil
	}

	athlete, err := s.store.GetAthleteByAuthUID(r.Context(), subject.String())
	if err != nil {
		log.Printf("Error resolving athlete: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to resolve athlete")
		return nil
	}
	if athlete == nil {
		nf := &ErrAthleteNotFound{AthleteID: subject}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return nil
	}
	return athlete
}

// handleCreateAthlete registers a profile for the authenticated identity.
func (s *Server) handleCreateAthlete(w http.ResponseWriter, r *http.Request) {
	subject, err := middleware.GetAthleteID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.CreateAthleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.store.GetAthleteByAuthUID(r.Context(), subject.String())
	if err != nil {
		log.Printf("Error checking athlete: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create athlete")
		return
	}
	if existing != nil {
		s.errorResponse(w, http.StatusConflict, "athlete profile already exists")
		return
	}

	athlete, err := s.store.CreateAthlete(r.Context(), subject.String(), req.Name, req.Email, req.City)
	if err != nil {
		log.Printf("Error creating athlete: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create athlete")
		return
	}

	s.jsonResponse(w, http.StatusCreated, athlete)
}

// handleGetMe returns the authenticated athlete's own profile.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}
	s.jsonResponse(w, http.StatusOK, athlete)
}

// handleGetAthlete returns a profile by ID.
func (s *Server) handleGetAthlete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	athlete, err := s.store.GetAthleteByID(r.Context(), id)
	if err != nil {
		log.Printf("Error getting athlete: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get athlete")
		return
	}
	if athlete == nil {
		nf := &ErrAthleteNotFound{AthleteID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, athlete)
}

// handleUpdateAthlete updates the caller's own profile.
func (s *Server) handleUpdateAthlete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}
	if athlete.ID != id {
		s.errorResponse(w, http.StatusForbidden, "cannot modify another athlete's profile")
		return
	}

	var req types.UpdateAthleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.UpdateAthlete(r.Context(), id, req.Name, req.City, req.Bio, req.AvatarURL)
	if err != nil {
		log.Printf("Error updating athlete: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to update athlete")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteAthlete removes the caller's own profile.
func (s *Server) handleDeleteAthlete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}
	if athlete.ID != id {
		s.errorResponse(w, http.StatusForbidden, "cannot delete another athlete's profile")
		return
	}

	if err := s.store.DeleteAthlete(r.Context(), id); err != nil {
		log.Printf("Error deleting athlete: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete athlete")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
