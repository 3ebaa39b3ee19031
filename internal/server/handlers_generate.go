package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/gofast-app/gofast/internal/extract"
	"github.com/gofast-app/gofast/internal/schemas"
	"github.com/gofast-app/gofast/internal/types"
)

// generateResponse is the envelope for POST /runs/generate.
type generateResponse struct {
	Success bool               `json:"success"`
	RunData *extract.RunFields `json:"runData,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// handleGenerateRun turns raw run announcement sources into a structured
// run record plus a synthesized description.
func (s *Server) handleGenerateRun(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, generateResponse{Success: false, Error: "invalid JSON body"})
		return
	}

	if err := req.Validate(); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, generateResponse{Success: false, Error: err.Error()})
		return
	}
	if !req.HasSource() {
		s.jsonResponse(w, http.StatusBadRequest, generateResponse{Success: false, Error: "no source input provided"})
		return
	}

	bundle := &extract.SourceBundle{
		StravaURL:      req.StravaURL,
		StravaText:     req.StravaText,
		WebURL:         req.WebURL,
		WebText:        req.WebText,
		SocialPostText: req.IgPostText,
	}

	// The crew's home city seeds meetUpCity when the sources never name
	// one. Lookup failure only loses that default.
	if crewID, err := types.ParseUUID(req.RunCrewID); err == nil && crewID != uuid.Nil {
		city, err := s.crewCities.GetCrewCity(r.Context(), crewID)
		if err != nil {
			log.Printf("crew city lookup failed for %s: %v", crewID, err)
		} else {
			bundle.ContextualCity = city
		}
	}

	// A URL with no pasted text gets a best-effort page fetch. A dead
	// page degrades to extraction from the remaining sources.
	if bundle.WebURL != "" && bundle.WebText == "" {
		text, err := s.pageText(r.Context(), bundle.WebURL)
		if err != nil {
			log.Printf("page fetch failed for %s: %v", bundle.WebURL, err)
		} else {
			bundle.WebText = text
		}
	}

	fields, err := extract.Extract(bundle)
	if err != nil {
		var verr *extract.ValidationError
		if errors.As(err, &verr) {
			s.jsonResponse(w, http.StatusBadRequest, generateResponse{Success: false, Error: verr.Message})
			return
		}
		log.Printf("extraction failed: %v", err)
		s.jsonResponse(w, http.StatusInternalServerError, generateResponse{Success: false, Error: "failed to generate run data"})
		return
	}

	description := extract.Synthesize(fields, bundle.CombinedText())
	fields.Description = &description

	if s.schemaPath != "" {
		if err := s.validateRunData(fields); err != nil {
			log.Printf("run data failed schema validation: %v", err)
			s.jsonResponse(w, http.StatusInternalServerError, generateResponse{Success: false, Error: "failed to generate run data"})
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, generateResponse{Success: true, RunData: fields})
}

// validateRunData checks generated fields against the run fields JSON
// schema. A load error is logged but not fatal so a missing schema file
// never takes the endpoint down.
func (s *Server) validateRunData(fields *extract.RunFields) error {
	doc, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	err = schemas.ValidateBytes(s.schemaPath, doc)
	var loadErr *schemas.SchemaLoadError
	if errors.As(err, &loadErr) {
		log.Printf("schema load failed: %v", loadErr)
		return nil
	}
	return err
}
