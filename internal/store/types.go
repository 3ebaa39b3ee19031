package store

import (
	"time"

	"github.com/google/uuid"
)

// Membership role constants.
const (
	RoleCaptain = "captain"
	RoleMember  = "member"
)

// RSVP status constants.
const (
	RSVPGoing    = "going"
	RSVPNotGoing = "not_going"
)

// Athlete is a runner profile. AuthUID links the profile to the external
// identity provider subject; the store never sees credentials.
type Athlete struct {
	ID        uuid.UUID `json:"id"`
	AuthUID   string    `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	City      *string   `json:"city,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RunCrew is a social running group anchored to a home city.
type RunCrew struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Description *string   `json:"description,omitempty"`
	LogoURL     *string   `json:"logoUrl,omitempty"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Membership ties an athlete to a crew with a role.
type Membership struct {
	CrewID    uuid.UUID `json:"crewId"`
	AthleteID uuid.UUID `json:"athleteId"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`

	// Joined athlete fields for rosters.
	AthleteName *string `json:"athleteName,omitempty"`
	AthleteCity *string `json:"athleteCity,omitempty"`
}

// CrewRun is a scheduled group run. The text fields mirror the reviewed
// output of the extraction step.
type CrewRun struct {
	ID                 uuid.UUID  `json:"id"`
	CrewID             uuid.UUID  `json:"crewId"`
	Title              string     `json:"title"`
	Date               *time.Time `json:"date,omitempty"`
	StartTimeHour      *string    `json:"startTimeHour,omitempty"`
	StartTimeMinute    *string    `json:"startTimeMinute,omitempty"`
	StartTimePeriod    *string    `json:"startTimePeriod,omitempty"`
	MeetUpPoint        *string    `json:"meetUpPoint,omitempty"`
	MeetUpCity         *string    `json:"meetUpCity,omitempty"`
	RouteNeighborhood  *string    `json:"routeNeighborhood,omitempty"`
	RunType            *string    `json:"runType,omitempty"`
	WorkoutDescription *string    `json:"workoutDescription,omitempty"`
	TotalMiles         *string    `json:"totalMiles,omitempty"`
	Pace               *string    `json:"pace,omitempty"`
	PostRunActivity    *string    `json:"postRunActivity,omitempty"`
	StravaMapURL       *string    `json:"stravaMapUrl,omitempty"`
	Description        *string    `json:"description,omitempty"`
	CreatedBy          uuid.UUID  `json:"createdBy"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// RSVP records an athlete's attendance intent and check-in for a run.
type RSVP struct {
	RunID     uuid.UUID  `json:"runId"`
	AthleteID uuid.UUID  `json:"athleteId"`
	Status    string     `json:"status"`
	CheckedIn bool       `json:"checkedIn"`
	CheckedAt *time.Time `json:"checkedAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`

	AthleteName *string `json:"athleteName,omitempty"`
}

// RSVPCounts aggregates attendance for a run.
type RSVPCounts struct {
	Going     int `json:"going"`
	NotGoing  int `json:"notGoing"`
	CheckedIn int `json:"checkedIn"`
}

// CityRun is a public run visible outside any crew, listed by city.
type CityRun struct {
	ID          uuid.UUID  `json:"id"`
	City        string     `json:"city"`
	Title       string     `json:"title"`
	Date        *time.Time `json:"date,omitempty"`
	MeetUpPoint *string    `json:"meetUpPoint,omitempty"`
	Description *string    `json:"description,omitempty"`
	SourceRunID *uuid.UUID `json:"sourceRunId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Race is a registry entry for an aggregator-discovered race.
type Race struct {
	ID         uuid.UUID  `json:"id"`
	ExternalID string     `json:"externalId"`
	Name       string     `json:"name"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	Distance   *string    `json:"distance,omitempty"`
	URL        *string    `json:"url,omitempty"`
	FetchedAt  time.Time  `json:"fetchedAt"`
}
