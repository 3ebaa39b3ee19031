package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/gofast-app/gofast/internal/store"
	"github.com/gofast-app/gofast/internal/types"
)

// pathID parses the {id} path segment, writing a validation error response
// when it is not a UUID.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		verr := &ErrValidation{Field: "id", Message: "must be a valid UUID"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return uuid.Nil, false
	}
	return id, true
}

// parseQueryInt parses an integer query parameter with a default value.
func parseQueryInt(r *http.Request, name string, defaultValue int) int {
	if value := r.URL.Query().Get(name); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}

// handleListCrews lists crews, optionally filtered by city.
func (s *Server) handleListCrews(w http.ResponseWriter, r *http.Request) {
	opts := store.ListCrewsOptions{
		Limit:  parseQueryInt(r, "limit", 20),
		Offset: parseQueryInt(r, "offset", 0),
	}
	if city := r.URL.Query().Get("city"); city != "" {
		opts.City = &city
	}

	crews, total, err := s.store.ListCrews(r.Context(), opts)
	if err != nil {
		log.Printf("Error listing crews: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list crews")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"crews":  crews,
		"total":  total,
		"limit":  opts.Limit,
		"offset": opts.Offset,
	})
}

// handleCreateCrew creates a crew with the caller as captain.
func (s *Server) handleCreateCrew(w http.ResponseWriter, r *http.Request) {
	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}

	var req types.CreateCrewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	crew, err := s.store.CreateCrew(r.Context(), req.Name, req.City, req.Description, athlete.ID)
	if err != nil {
		log.Printf("Error creating crew: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create crew")
		return
	}

	s.jsonResponse(w, http.StatusCreated, crew)
}

// handleGetCrew returns a hydrated crew box.
func (s *Server) handleGetCrew(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	box, err := s.hydrator.CrewBox(r.Context(), id, uuid.Nil)
	if err != nil {
		log.Printf("Error hydrating crew: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get crew")
		return
	}
	if box == nil {
		nf := &ErrCrewNotFound{CrewID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, box)
}

// handleUpdateCrew updates crew fields. Captain only.
func (s *Server) handleUpdateCrew(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}
	if !s.requireCaptain(w, r, id, athlete.ID) {
		return
	}

	var req types.UpdateCrewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.UpdateCrew(r.Context(), id, req.Name, req.City, req.Description, req.LogoURL)
	if err != nil {
		log.Printf("Error updating crew: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to update crew")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteCrew deletes a crew. Captain only.
func (s *Server) handleDeleteCrew(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}
	if !s.requireCaptain(w, r, id, athlete.ID) {
		return
	}

	if err := s.store.DeleteCrew(r.Context(), id); err != nil {
		log.Printf("Error deleting crew: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete crew")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleJoinCrew adds the caller to the crew roster.
func (s *Server) handleJoinCrew(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}

	crew, err := s.store.GetCrewByID(r.Context(), id)
	if err != nil {
		log.Printf("Error getting crew: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to join crew")
		return
	}
	if crew == nil {
		nf := &ErrCrewNotFound{CrewID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	if err := s.store.JoinCrew(r.Context(), id, athlete.ID); err != nil {
		log.Printf("Error joining crew: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to join crew")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "joined"})
}

// handleLeaveCrew removes the caller from the crew roster.
func (s *Server) handleLeaveCrew(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}

	if err := s.store.LeaveCrew(r.Context(), id, athlete.ID); err != nil {
		log.Printf("Error leaving crew: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to leave crew")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "left"})
}

// handleListMembers returns the crew roster.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	members, err := s.store.ListMembers(r.Context(), id)
	if err != nil {
		log.Printf("Error listing members: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list members")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"members": members, "count": len(members)})
}

// requireCaptain checks that the athlete is the crew captain, writing an
// error response when not.
func (s *Server) requireCaptain(w http.ResponseWriter, r *http.Request, crewID, athleteID uuid.UUID) bool {
	members, err := s.store.ListMembers(r.Context(), crewID)
	if err != nil {
		log.Printf("Error checking captain: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to check crew membership")
		return false
	}
	for _, m := range members {
		if m.AthleteID == athleteID && m.Role == store.RoleCaptain {
			return true
		}
	}
	denied := &ErrNotCrewMember{AthleteID: athleteID, CrewID: crewID, Role: store.RoleCaptain}
	s.errorResponse(w, HTTPStatus(denied), denied.Error())
	return false
}
