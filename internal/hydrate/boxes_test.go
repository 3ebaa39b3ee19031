package hydrate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofast-app/gofast/internal/store"
)

type fakeReader struct {
	crew    *store.RunCrew
	members []store.Membership
	runs    []store.CrewRun
	rsvps   map[uuid.UUID][]store.RSVP
	counts  map[uuid.UUID]store.RSVPCounts
	viewer  map[uuid.UUID]*store.RSVP
	err     error
}

func (f *fakeReader) GetCrewByID(_ context.Context, id uuid.UUID) (*store.RunCrew, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.crew == nil || f.crew.ID != id {
		return nil, nil
	}
	return f.crew, nil
}

func (f *fakeReader) ListMembers(_ context.Context, _ uuid.UUID) ([]store.Membership, error) {
	return f.members, f.err
}

func (f *fakeReader) ListUpcomingCrewRuns(_ context.Context, _ uuid.UUID, limit int) ([]store.CrewRun, error) {
	if len(f.runs) > limit {
		return f.runs[:limit], f.err
	}
	return f.runs, f.err
}

func (f *fakeReader) GetCrewRunByID(_ context.Context, id uuid.UUID) (*store.CrewRun, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeReader) ListRSVPs(_ context.Context, runID uuid.UUID) ([]store.RSVP, error) {
	return f.rsvps[runID], nil
}

func (f *fakeReader) GetRSVPCounts(_ context.Context, runID uuid.UUID) (*store.RSVPCounts, error) {
	c := f.counts[runID]
	return &c, nil
}

func (f *fakeReader) GetRSVP(_ context.Context, runID, athleteID uuid.UUID) (*store.RSVP, error) {
	r := f.viewer[runID]
	if r != nil && r.AthleteID != athleteID {
		return nil, nil
	}
	return r, nil
}

func TestCrewBox(t *testing.T) {
	crewID := uuid.New()
	viewerID := uuid.New()
	runA := store.CrewRun{ID: uuid.New(), CrewID: crewID, Title: "Tempo Tuesday"}
	runB := store.CrewRun{ID: uuid.New(), CrewID: crewID, Title: "Long Run"}

	reader := &fakeReader{
		crew: &store.RunCrew{ID: crewID, Name: "Back Bay Milers", City: "Boston"},
		members: []store.Membership{
			{CrewID: crewID, AthleteID: viewerID, Role: store.RoleCaptain},
			{CrewID: crewID, AthleteID: uuid.New(), Role: store.RoleMember},
		},
		runs: []store.CrewRun{runA, runB},
		counts: map[uuid.UUID]store.RSVPCounts{
			runA.ID: {Going: 5, CheckedIn: 2},
			runB.ID: {Going: 9},
		},
		viewer: map[uuid.UUID]*store.RSVP{
			runA.ID: {RunID: runA.ID, AthleteID: viewerID, Status: store.RSVPGoing},
		},
	}

	box, err := New(reader).CrewBox(context.Background(), crewID, viewerID)
	require.NoError(t, err)
	require.NotNil(t, box)

	assert.Equal(t, "Back Bay Milers", box.Crew.Name)
	assert.Equal(t, 2, box.MemberCount)
	require.Len(t, box.Upcoming, 2)

	// Run order from the store is preserved through concurrent assembly.
	assert.Equal(t, "Tempo Tuesday", box.Upcoming[0].Run.Title)
	assert.Equal(t, 5, box.Upcoming[0].Counts.Going)
	require.NotNil(t, box.Upcoming[0].ViewerRSVP)
	assert.Equal(t, store.RSVPGoing, box.Upcoming[0].ViewerRSVP.Status)
	assert.Nil(t, box.Upcoming[1].ViewerRSVP)
}

func TestCrewBox_NotFound(t *testing.T) {
	box, err := New(&fakeReader{}).CrewBox(context.Background(), uuid.New(), uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, box)
}

func TestCrewBox_ReaderError(t *testing.T) {
	reader := &fakeReader{err: errors.New("boom")}
	_, err := New(reader).CrewBox(context.Background(), uuid.New(), uuid.Nil)
	require.Error(t, err)
}

func TestRunBox(t *testing.T) {
	runID := uuid.New()
	viewerID := uuid.New()
	reader := &fakeReader{
		runs:   []store.CrewRun{{ID: runID, Title: "Track Night"}},
		counts: map[uuid.UUID]store.RSVPCounts{runID: {Going: 12, CheckedIn: 7}},
		rsvps: map[uuid.UUID][]store.RSVP{
			runID: {{RunID: runID, AthleteID: viewerID, Status: store.RSVPGoing, CheckedIn: true}},
		},
		viewer: map[uuid.UUID]*store.RSVP{
			runID: {RunID: runID, AthleteID: viewerID, Status: store.RSVPGoing, CheckedIn: true},
		},
	}

	box, err := New(reader).RunBox(context.Background(), runID, viewerID)
	require.NoError(t, err)
	require.NotNil(t, box)

	assert.Equal(t, "Track Night", box.Run.Title)
	assert.Equal(t, 12, box.Counts.Going)
	require.Len(t, box.RSVPs, 1)
	require.NotNil(t, box.ViewerRSVP)
	assert.True(t, box.ViewerRSVP.CheckedIn)
}

func TestRunBox_AnonymousViewer(t *testing.T) {
	runID := uuid.New()
	reader := &fakeReader{
		runs:   []store.CrewRun{{ID: runID, Title: "Shakeout"}},
		counts: map[uuid.UUID]store.RSVPCounts{runID: {}},
	}

	box, err := New(reader).RunBox(context.Background(), runID, uuid.Nil)
	require.NoError(t, err)
	require.NotNil(t, box)
	assert.Nil(t, box.ViewerRSVP)
}
