// Package types provides request and response types for the GoFast HTTP API.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// GenerateRunRequest is the body of POST /runs/generate. All source fields
// are optional individually, but at least one text or URL field must be
// non-empty. RunCrewID, when present, is resolved to the crew's home city
// before extraction. IgPostGraphic is accepted for forward compatibility
// and ignored (image content is not extracted).
type GenerateRunRequest struct {
	StravaURL     string `json:"stravaUrl,omitempty" validate:"omitempty,url"`
	StravaText    string `json:"stravaText,omitempty"`
	WebURL        string `json:"webUrl,omitempty" validate:"omitempty,url"`
	WebText       string `json:"webText,omitempty"`
	IgPostText    string `json:"igPostText,omitempty"`
	IgPostGraphic string `json:"igPostGraphic,omitempty"`
	RunCrewID     string `json:"runCrewId,omitempty" validate:"omitempty,uuid"`
}

// HasSource reports whether any text or URL source is present.
func (r *GenerateRunRequest) HasSource() bool {
	for _, s := range []string{r.StravaText, r.WebText, r.IgPostText, r.StravaURL, r.WebURL} {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// Validate validates the GenerateRunRequest using the validator.
func (r *GenerateRunRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CreateAthleteRequest registers a profile for the authenticated identity.
type CreateAthleteRequest struct {
	Name  string  `json:"name" validate:"required,min=1"`
	Email string  `json:"email" validate:"required,email"`
	City  *string `json:"city,omitempty"`
}

// Validate validates the CreateAthleteRequest using the validator.
func (r *CreateAthleteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateAthleteRequest updates profile fields.
type UpdateAthleteRequest struct {
	Name      string  `json:"name" validate:"required,min=1"`
	City      *string `json:"city,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// Validate validates the UpdateAthleteRequest using the validator.
func (r *UpdateAthleteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CreateCrewRequest creates a run crew.
type CreateCrewRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	City        string  `json:"city" validate:"required,min=2"`
	Description *string `json:"description,omitempty"`
}

// Validate validates the CreateCrewRequest using the validator.
func (r *CreateCrewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateCrewRequest updates crew fields.
type UpdateCrewRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	City        string  `json:"city" validate:"required,min=2"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
}

// Validate validates the UpdateCrewRequest using the validator.
func (r *UpdateCrewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// RunPayload carries the reviewed run fields when scheduling or editing a
// run. It mirrors the generate endpoint's runData shape.
type RunPayload struct {
	Title              string  `json:"title" validate:"required,min=1"`
	Date               *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTimeHour      *string `json:"startTimeHour,omitempty"`
	StartTimeMinute    *string `json:"startTimeMinute,omitempty"`
	StartTimePeriod    *string `json:"startTimePeriod,omitempty" validate:"omitempty,oneof=AM PM"`
	MeetUpPoint        *string `json:"meetUpPoint,omitempty"`
	MeetUpCity         *string `json:"meetUpCity,omitempty"`
	RouteNeighborhood  *string `json:"routeNeighborhood,omitempty"`
	RunType            *string `json:"runType,omitempty" validate:"omitempty,oneof=track trail neighborhood park"`
	WorkoutDescription *string `json:"workoutDescription,omitempty"`
	TotalMiles         *string `json:"totalMiles,omitempty"`
	Pace               *string `json:"pace,omitempty"`
	PostRunActivity    *string `json:"postRunActivity,omitempty"`
	StravaMapURL       *string `json:"stravaMapUrl,omitempty" validate:"omitempty,url"`
	Description        *string `json:"description,omitempty"`
	Publish            bool    `json:"publish,omitempty"`
}

// Validate validates the RunPayload using the validator.
func (r *RunPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// RSVPRequest records attendance intent.
type RSVPRequest struct {
	Status string `json:"status" validate:"required,oneof=going not_going"`
}

// Validate validates the RSVPRequest using the validator.
func (r *RSVPRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ParseUUID parses an optional UUID string field, returning uuid.Nil for "".
func ParseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}
