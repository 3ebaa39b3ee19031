package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertIndex asserts sub occurs in s and returns its index for ordering checks.
func assertIndex(t *testing.T, s, sub string) int {
	t.Helper()
	idx := strings.Index(s, sub)
	require.GreaterOrEqual(t, idx, 0, "expected %q to contain %q", s, sub)
	return idx
}

func TestSynthesize_FallbackToRawText(t *testing.T) {
	raw := "[SOCIAL POST]\nsomething unparseable"
	got := Synthesize(&RunFields{}, raw)
	assert.Equal(t, raw, got)
	assert.NotEmpty(t, got)
}

func TestSynthesize_FragmentOrder(t *testing.T) {
	fields := &RunFields{
		MeetUpPoint:     strptr("Town Square"),
		TotalMiles:      strptr("5"),
		Pace:            strptr(PaceAllWelcome),
		PostRunActivity: strptr("coffee"),
	}

	desc := Synthesize(fields, "raw")

	idxLocation := assertIndex(t, desc, "This run meets at Town Square")
	idxRoute := assertIndex(t, desc, "The route covers 5 miles")
	idxPace := assertIndex(t, desc, "All paces are welcome")
	idxPost := assertIndex(t, desc, "The run finishes with coffee")
	assert.Less(t, idxLocation, idxRoute)
	assert.Less(t, idxRoute, idxPace)
	assert.Less(t, idxPace, idxPost)
	assert.True(t, strings.HasSuffix(desc, "."))
}

func TestSynthesize_LocationClausePriority(t *testing.T) {
	// Neighborhood wins over the crew city when both are present.
	fields := &RunFields{
		MeetUpPoint:       strptr("Riverside Park"),
		RouteNeighborhood: strptr("Back Bay"),
		MeetUpCity:        strptr("Boston"),
	}
	desc := Synthesize(fields, "raw")
	assert.Contains(t, desc, "This run meets at Riverside Park in the Back Bay neighborhood")
	assert.NotContains(t, desc, "in Boston")

	fields.RouteNeighborhood = nil
	desc = Synthesize(fields, "raw")
	assert.Contains(t, desc, "This run meets at Riverside Park in Boston")

	fields.MeetUpCity = nil
	desc = Synthesize(fields, "raw")
	assert.Contains(t, desc, "This run meets at Riverside Park.")
}

func TestSynthesize_RouteSentence(t *testing.T) {
	tests := []struct {
		name    string
		runType *string
		want    string
	}{
		{"track", strptr(RunTypeTrack), "The route covers 3 miles on track before returning to the track"},
		{"trail", strptr(RunTypeTrail), "The route covers 3 miles on trail before returning to the start"},
		{"neighborhood maps to streets", strptr(RunTypeNeighborhood), "The route covers 3 miles on neighborhood streets before returning to the start"},
		{"park", strptr(RunTypePark), "The route covers 3 miles on park before returning to the start"},
		{"no run type", nil, "The route covers 3 miles before returning to the start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := &RunFields{TotalMiles: strptr("3"), RunType: tt.runType}
			assert.Contains(t, Synthesize(fields, "raw"), tt.want)
		})
	}
}

func TestSynthesize_PaceAndWorkout(t *testing.T) {
	fields := &RunFields{Pace: strptr("8:30")}
	assert.Contains(t, Synthesize(fields, "raw"), "Pace: 8:30 per mile")

	fields = &RunFields{
		RunType:            strptr(RunTypeTrack),
		WorkoutDescription: strptr("emphasizes 400m repeats"),
	}
	assert.Contains(t, Synthesize(fields, "raw"), "This is a track workout that emphasizes 400m repeats")

	fields.RunType = nil
	assert.Contains(t, Synthesize(fields, "raw"), "This workout emphasizes 400m repeats")
}
