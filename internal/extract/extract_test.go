package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestExtract_NoInput(t *testing.T) {
	tests := []struct {
		name   string
		bundle SourceBundle
	}{
		{"empty bundle", SourceBundle{}},
		{"whitespace only", SourceBundle{StravaText: "   ", WebText: "\n\t"}},
		{"city alone is not input", SourceBundle{ContextualCity: "Boston"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(&tt.bundle)
			require.Error(t, err)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), "no source input provided")
		})
	}
}

func TestExtract_MinimalInputSucceeds(t *testing.T) {
	fields, err := Extract(&SourceBundle{WebText: "x"})
	require.NoError(t, err)
	require.NotNil(t, fields)

	// Nearly everything is a soft miss; that is a valid outcome.
	assert.Equal(t, strptr("x"), fields.Title)
	assert.Nil(t, fields.Date)
	assert.Nil(t, fields.MeetUpPoint)
	assert.Nil(t, fields.Pace)
}

func TestCombinedText_OrderAndTags(t *testing.T) {
	b := &SourceBundle{
		StravaText:     "strava body",
		WebText:        "web body",
		SocialPostText: "social body",
		StravaURL:      "https://www.strava.com/routes/123",
		WebURL:         "https://example.com/run",
	}

	combined := b.CombinedText()

	// Fixed source order: strava text, web text, social text, strava URL, web URL.
	idxStrava := assertIndex(t, combined, "[STRAVA TEXT]\nstrava body")
	idxWeb := assertIndex(t, combined, "[WEB TEXT]\nweb body")
	idxSocial := assertIndex(t, combined, "[SOCIAL POST]\nsocial body")
	idxStravaURL := assertIndex(t, combined, "[STRAVA URL]\nhttps://www.strava.com/routes/123")
	idxWebURL := assertIndex(t, combined, "[WEB URL]\nhttps://example.com/run")

	assert.Less(t, idxStrava, idxWeb)
	assert.Less(t, idxWeb, idxSocial)
	assert.Less(t, idxSocial, idxStravaURL)
	assert.Less(t, idxStravaURL, idxWebURL)
}

func TestExtract_SourcePrecedence(t *testing.T) {
	// Both sources match the same cascade tier; the earlier source wins
	// because the combined text is scanned once, left to right.
	fields, err := Extract(&SourceBundle{
		StravaText: "meet at Park Street",
		WebText:    "meet at Main Street",
	})
	require.NoError(t, err)
	require.NotNil(t, fields.MeetUpPoint)
	assert.Equal(t, "Park Street", *fields.MeetUpPoint)
}

func TestExtract_DateRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{"slash date", "Long run on 3/15/2025 at dawn", strptr("2025-03-15")},
		{"two digit year", "Group run 3/15/25", strptr("2025-03-15")},
		{"iso date", "Scheduled for 2025-03-15", strptr("2025-03-15")},
		{"impossible date is a soft miss", "Join us 15/45/2025", nil},
		{"no date", "Saturday shakeout", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := Extract(&SourceBundle{SocialPostText: tt.text})
			require.NoError(t, err)
			assert.Equal(t, tt.want, fields.Date)
		})
	}
}

func TestExtract_StartTime(t *testing.T) {
	fields, err := Extract(&SourceBundle{SocialPostText: "We roll out at 6:30 pm sharp"})
	require.NoError(t, err)
	require.NotNil(t, fields.StartTimeHour)
	assert.Equal(t, "6", *fields.StartTimeHour)
	assert.Equal(t, "30", *fields.StartTimeMinute)
	assert.Equal(t, "PM", *fields.StartTimePeriod)

	// Period defaults to AM when the token has no suffix.
	fields, err = Extract(&SourceBundle{SocialPostText: "Start: 7:00 from the gate"})
	require.NoError(t, err)
	require.NotNil(t, fields.StartTimePeriod)
	assert.Equal(t, "AM", *fields.StartTimePeriod)
}

func TestExtract_RunTypePriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{"track beats trail", "A track workout followed by a trail run", strptr(RunTypeTrack)},
		{"trail beats neighborhood", "trail miles through the neighborhood", strptr(RunTypeTrail)},
		{"neighborhood beats park", "neighborhood loops ending at the park", strptr(RunTypeNeighborhood)},
		{"park alone", "laps around the park", strptr(RunTypePark)},
		{"none", "easy shakeout on roads", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := Extract(&SourceBundle{SocialPostText: tt.text})
			require.NoError(t, err)
			assert.Equal(t, tt.want, fields.RunType)
		})
	}
}

func TestExtract_Pace(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{"all paces beats numeric", "All paces welcome, we usually run 8:00 pace", strptr(PaceAllWelcome)},
		{"pace label", "Pace: 9:30 for the full loop", strptr("9:30")},
		{"numeric with suffix", "around 8:15 pace for most", strptr("8:15")},
		{"range", "Pace: 8:00-9:00 depending on the group", strptr("8:00-9:00")},
		{"no pace", "a relaxed social run", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := Extract(&SourceBundle{SocialPostText: tt.text})
			require.NoError(t, err)
			assert.Equal(t, tt.want, fields.Pace)
		})
	}
}

func TestExtract_MeetUpPointCleanup(t *testing.T) {
	// "Gym" survives connector stripping at under five characters, so the
	// first tier rejects it and the cascade keeps going.
	fields, err := Extract(&SourceBundle{SocialPostText: "Meets at Gym and stretch after. Start Boston Common at 7:00"})
	require.NoError(t, err)
	require.NotNil(t, fields.MeetUpPoint)
	assert.Equal(t, "Boston Common", *fields.MeetUpPoint)

	// Every tier produces a too-short candidate: the field is a soft miss.
	fields, err = Extract(&SourceBundle{SocialPostText: "Meets at Gym and stretch"})
	require.NoError(t, err)
	assert.Nil(t, fields.MeetUpPoint)
}

func TestExtract_WorkoutDescription(t *testing.T) {
	fields, err := Extract(&SourceBundle{SocialPostText: "A track workout that emphasizes 400m repeats with full recovery"})
	require.NoError(t, err)
	require.NotNil(t, fields.WorkoutDescription)
	assert.Equal(t, "emphasizes 400m repeats with full recovery", *fields.WorkoutDescription)

	// Too short after connector cleanup: soft miss.
	fields, err = Extract(&SourceBundle{SocialPostText: "workout that burns and builds"})
	require.NoError(t, err)
	assert.Nil(t, fields.WorkoutDescription)
}

func TestExtract_ContextualCityPassThrough(t *testing.T) {
	fields, err := Extract(&SourceBundle{SocialPostText: "easy run", ContextualCity: "Boston"})
	require.NoError(t, err)
	require.NotNil(t, fields.MeetUpCity)
	assert.Equal(t, "Boston", *fields.MeetUpCity)

	fields, err = Extract(&SourceBundle{SocialPostText: "easy run from Cambridge"})
	require.NoError(t, err)
	assert.Nil(t, fields.MeetUpCity)
}

func TestExtract_StravaMapURL(t *testing.T) {
	// Explicit input wins over anything in the text.
	fields, err := Extract(&SourceBundle{
		StravaURL:      "https://www.strava.com/routes/111",
		SocialPostText: "route: https://www.strava.com/routes/222",
	})
	require.NoError(t, err)
	require.NotNil(t, fields.StravaMapURL)
	assert.Equal(t, "https://www.strava.com/routes/111", *fields.StravaMapURL)

	// Otherwise the first strava.com link in the combined text.
	fields, err = Extract(&SourceBundle{SocialPostText: "map here https://strava.com/routes/333 see you there"})
	require.NoError(t, err)
	require.NotNil(t, fields.StravaMapURL)
	assert.Equal(t, "https://strava.com/routes/333", *fields.StravaMapURL)
}

func TestExtract_TitleSkipsTagMarkers(t *testing.T) {
	fields, err := Extract(&SourceBundle{WebText: "\n\nTuesday Tempo\ndetails below"})
	require.NoError(t, err)
	require.NotNil(t, fields.Title)
	assert.Equal(t, "Tuesday Tempo", *fields.Title)
}

func TestExtract_EndToEnd(t *testing.T) {
	post := "Saturday Morning Run\n" +
		"We meet at Riverside Park in the Back Bay neighborhood. " +
		"The route covers 4.5 miles on neighborhood streets. " +
		"All paces welcome. " +
		"This run finishes with coffee at Tatte Bakery."

	fields, err := Extract(&SourceBundle{SocialPostText: post})
	require.NoError(t, err)

	require.NotNil(t, fields.Title)
	assert.Equal(t, "Saturday Morning Run", *fields.Title)
	require.NotNil(t, fields.MeetUpPoint)
	assert.Equal(t, "Riverside Park", *fields.MeetUpPoint)
	require.NotNil(t, fields.RouteNeighborhood)
	assert.Equal(t, "Back Bay", *fields.RouteNeighborhood)
	require.NotNil(t, fields.TotalMiles)
	assert.Equal(t, "4.5", *fields.TotalMiles)
	require.NotNil(t, fields.RunType)
	assert.Equal(t, RunTypeNeighborhood, *fields.RunType)
	require.NotNil(t, fields.Pace)
	assert.Equal(t, PaceAllWelcome, *fields.Pace)
	require.NotNil(t, fields.PostRunActivity)
	assert.Contains(t, *fields.PostRunActivity, "Tatte Bakery")

	desc := Synthesize(fields, (&SourceBundle{SocialPostText: post}).CombinedText())
	idxLocation := assertIndex(t, desc, "This run meets at Riverside Park in the Back Bay neighborhood")
	idxRoute := assertIndex(t, desc, "The route covers 4.5 miles on neighborhood streets")
	idxPace := assertIndex(t, desc, "All paces are welcome")
	idxPost := assertIndex(t, desc, "The run finishes with")
	assert.Less(t, idxLocation, idxRoute)
	assert.Less(t, idxRoute, idxPace)
	assert.Less(t, idxPace, idxPost)
}

func TestTrimTrailingConnectors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Riverside Park and then coffee", "Riverside Park"},
		{"the loop before sunrise", "the loop"},
		{"Copley Square", "Copley Square"},
		{"route to the bridge", "route"},
		{"afterwards we stretch", "afterwards we stretch"}, // "after" inside a word is not a connector
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, trimTrailingConnectors(tt.in), "input %q", tt.in)
	}
}
