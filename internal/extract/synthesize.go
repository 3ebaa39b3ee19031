package extract

import "strings"

// Synthesize composes a human-readable description paragraph from extracted
// fields. Fragments are emitted in a fixed presentation order (location,
// distance/route, pace, workout focus, post-run social) and only when their
// governing fields are present. When nothing qualifies, the raw combined
// input is returned unchanged so the description is never blank.
func Synthesize(fields *RunFields, combined string) string {
	var fragments []string

	if fields.MeetUpPoint != nil {
		s := "This run meets at " + *fields.MeetUpPoint
		switch {
		case fields.RouteNeighborhood != nil:
			s += " in the " + *fields.RouteNeighborhood + " neighborhood"
		case fields.MeetUpCity != nil:
			s += " in " + *fields.MeetUpCity
		}
		fragments = append(fragments, s)
	}

	if fields.TotalMiles != nil {
		s := "The route covers " + *fields.TotalMiles + " miles"
		if fields.RunType != nil {
			s += " on " + terrainPhrase(*fields.RunType)
		}
		if fields.RunType != nil && *fields.RunType == RunTypeTrack {
			s += " before returning to the track"
		} else {
			s += " before returning to the start"
		}
		fragments = append(fragments, s)
	}

	if fields.Pace != nil {
		if *fields.Pace == PaceAllWelcome {
			fragments = append(fragments, "All paces are welcome")
		} else {
			fragments = append(fragments, "Pace: "+*fields.Pace+" per mile")
		}
	}

	if fields.WorkoutDescription != nil {
		if fields.RunType != nil && *fields.RunType == RunTypeTrack {
			fragments = append(fragments, "This is a track workout that "+*fields.WorkoutDescription)
		} else {
			fragments = append(fragments, "This workout "+*fields.WorkoutDescription)
		}
	}

	if fields.PostRunActivity != nil {
		fragments = append(fragments, "The run finishes with "+*fields.PostRunActivity)
	}

	if len(fragments) == 0 {
		return combined
	}
	return strings.Join(fragments, ". ") + "."
}

// terrainPhrase maps a run type to the wording used in the route sentence.
// "neighborhood" reads as "neighborhood streets"; the rest read as-is.
func terrainPhrase(runType string) string {
	if runType == RunTypeNeighborhood {
		return "neighborhood streets"
	}
	return runType
}
