package server

import (
	"log"
	"net/http"

	"github.com/gofast-app/gofast/internal/races"
	"github.com/gofast-app/gofast/internal/store"
)

// handleListRaces lists upcoming races near a city. The registry acts as a
// cache; an empty registry triggers a live aggregator search whose results
// are persisted before responding.
func (s *Server) handleListRaces(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	state := r.URL.Query().Get("state")

	opts := store.ListRacesOptions{Limit: parseQueryInt(r, "limit", 50)}
	if city != "" {
		opts.City = &city
	}
	if state != "" {
		opts.State = &state
	}

	cached, err := s.store.ListRaces(r.Context(), opts)
	if err != nil {
		log.Printf("Error listing races: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list races")
		return
	}
	if len(cached) > 0 || s.races == nil || city == "" {
		s.jsonResponse(w, http.StatusOK, map[string]any{"races": cached})
		return
	}

	found, err := s.races.SearchRaces(r.Context(), races.Query{City: city, State: state})
	if err != nil {
		log.Printf("Error searching races: %v", err)
		s.errorResponse(w, http.StatusBadGateway, "race search failed")
		return
	}

	stored := make([]store.Race, 0, len(found))
	for i := range found {
		race, err := s.store.UpsertRace(r.Context(), raceFromAggregator(&found[i]))
		if err != nil {
			log.Printf("Error caching race %s: %v", found[i].ExternalID, err)
			continue
		}
		stored = append(stored, *race)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"races": stored})
}

func raceFromAggregator(r *races.Race) *store.Race {
	race := &store.Race{
		ExternalID: r.ExternalID,
		Name:       r.Name,
		City:       r.City,
		State:      r.State,
		StartDate:  r.StartDate,
	}
	if r.Distance != "" {
		d := r.Distance
		race.Distance = &d
	}
	if r.URL != "" {
		u := r.URL
		race.URL = &u
	}
	return race
}
