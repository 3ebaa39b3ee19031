package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gofast-app/gofast/internal/store"
	"github.com/gofast-app/gofast/internal/types"
)

// crewRunFromPayload maps a reviewed payload onto a store record.
func crewRunFromPayload(crewID, createdBy uuid.UUID, p *types.RunPayload) (*store.CrewRun, error) {
	run := &store.CrewRun{
		CrewID:             crewID,
		Title:              p.Title,
		StartTimeHour:      p.StartTimeHour,
		StartTimeMinute:    p.StartTimeMinute,
		StartTimePeriod:    p.StartTimePeriod,
		MeetUpPoint:        p.MeetUpPoint,
		MeetUpCity:         p.MeetUpCity,
		RouteNeighborhood:  p.RouteNeighborhood,
		RunType:            p.RunType,
		WorkoutDescription: p.WorkoutDescription,
		TotalMiles:         p.TotalMiles,
		Pace:               p.Pace,
		PostRunActivity:    p.PostRunActivity,
		StravaMapURL:       p.StravaMapURL,
		Description:        p.Description,
		CreatedBy:          createdBy,
	}
	if p.Date != nil {
		d, err := time.Parse("2006-01-02", *p.Date)
		if err != nil {
			return nil, err
		}
		run.Date = &d
	}
	return run, nil
}

// handleCreateRun schedules a run for a crew. Members only.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	crewID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}
	if !s.requireMember(w, r, crewID, athlete.ID) {
		return
	}

	var req types.RunPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := crewRunFromPayload(crewID, athlete.ID, &req)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	created, err := s.store.CreateCrewRun(r.Context(), run)
	if err != nil {
		log.Printf("Error creating run: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create run")
		return
	}

	if req.Publish {
		s.publishCityRun(r, created)
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

// publishCityRun mirrors a crew run onto the public city feed. Failure is
// logged; the run itself is already created.
func (s *Server) publishCityRun(r *http.Request, run *store.CrewRun) {
	city := ""
	if run.MeetUpCity != nil {
		city = *run.MeetUpCity
	}
	if city == "" {
		resolved, err := s.crewCities.GetCrewCity(r.Context(), run.CrewID)
		if err != nil {
			log.Printf("Error resolving crew city for publish: %v", err)
			return
		}
		city = resolved
	}
	if city == "" {
		log.Printf("Run %s has no city, skipping city feed publish", run.ID)
		return
	}
	if _, err := s.store.PublishCityRun(r.Context(), run, city); err != nil {
		log.Printf("Error publishing city run: %v", err)
	}
}

// handleGetRun returns a hydrated run box.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	box, err := s.hydrator.RunBox(r.Context(), id, uuid.Nil)
	if err != nil {
		log.Printf("Error hydrating run: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if box == nil {
		nf := &ErrRunNotFound{RunID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, box)
}

// handleUpdateRun updates a scheduled run. Crew members only.
func (s *Server) handleUpdateRun(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	existing, err := s.store.GetCrewRunByID(r.Context(), id)
	if err != nil {
		log.Printf("Error getting run: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to update run")
		return
	}
	if existing == nil {
		nf := &ErrRunNotFound{RunID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}
	if !s.requireMember(w, r, existing.CrewID, athlete.ID) {
		return
	}

	var req types.RunPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := crewRunFromPayload(existing.CrewID, existing.CreatedBy, &req)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}
	run.ID = id

	updated, err := s.store.UpdateCrewRun(r.Context(), run)
	if err != nil {
		log.Printf("Error updating run: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to update run")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteRun removes a scheduled run. Crew members only.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	existing, err := s.store.GetCrewRunByID(r.Context(), id)
	if err != nil {
		log.Printf("Error getting run: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete run")
		return
	}
	if existing == nil {
		nf := &ErrRunNotFound{RunID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}
	if !s.requireMember(w, r, existing.CrewID, athlete.ID) {
		return
	}

	if err := s.store.DeleteCrewRun(r.Context(), id); err != nil {
		log.Printf("Error deleting run: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete run")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRSVP records the caller's attendance intent for a run.
func (s *Server) handleRSVP(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}

	var req types.RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := s.store.GetCrewRunByID(r.Context(), id)
	if err != nil {
		log.Printf("Error getting run: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to record rsvp")
		return
	}
	if run == nil {
		nf := &ErrRunNotFound{RunID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	rsvp, err := s.store.UpsertRSVP(r.Context(), id, athlete.ID, req.Status)
	if err != nil {
		log.Printf("Error recording rsvp: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to record rsvp")
		return
	}

	s.jsonResponse(w, http.StatusOK, rsvp)
}

// handleCheckIn marks the caller as checked in at the run.
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	athlete := s.requireAthlete(w, r)
	if athlete == nil {
		return
	}

	found, err := s.store.CheckIn(r.Context(), id, athlete.ID)
	if err != nil {
		log.Printf("Error checking in: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to check in")
		return
	}
	if !found {
		s.errorResponse(w, http.StatusNotFound, "no rsvp found for this run")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "checked_in"})
}

// handleListCityRuns lists public runs for a city.
func (s *Server) handleListCityRuns(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		s.errorResponse(w, http.StatusBadRequest, "city query parameter is required")
		return
	}
	limit := parseQueryInt(r, "limit", 50)

	runs, err := s.store.ListCityRuns(r.Context(), city, limit)
	if err != nil {
		log.Printf("Error listing city runs: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list city runs")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "city": city})
}

// requireMember checks that the athlete belongs to the crew, writing an
// error response when not.
func (s *Server) requireMember(w http.ResponseWriter, r *http.Request, crewID, athleteID uuid.UUID) bool {
	member, err := s.store.IsMember(r.Context(), crewID, athleteID)
	if err != nil {
		log.Printf("Error checking membership: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to check crew membership")
		return false
	}
	if !member {
		denied := &ErrNotCrewMember{AthleteID: athleteID, CrewID: crewID}
		s.errorResponse(w, HTTPStatus(denied), denied.Error())
		return false
	}
	return true
}
