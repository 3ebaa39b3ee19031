// Package extract turns pasted free-text run announcements into structured
// run fields. Extraction is a deterministic ordered-pattern heuristic: each
// field has its own cascade of patterns tried in a fixed order, the first
// accepted match wins, and a field whose cascade finds nothing is simply nil.
package extract

import (
	"strings"
)

// SourceBundle carries the raw text sources for one extraction request.
// Every field is optional, but at least one text or URL field must be
// non-empty for extraction to run. ContextualCity is resolved by the caller
// (from the posting crew's home city) and is never derived from text.
type SourceBundle struct {
	StravaURL      string
	StravaText     string
	WebURL         string
	WebText        string
	SocialPostText string
	ContextualCity string
}

// HasInput reports whether the bundle contains any usable source text.
// ContextualCity alone does not count as input.
func (b *SourceBundle) HasInput() bool {
	for _, s := range []string{b.StravaText, b.WebText, b.SocialPostText, b.StravaURL, b.WebURL} {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// source labels used when concatenating the bundle into combined text.
const (
	tagStravaText = "[STRAVA TEXT]"
	tagWebText    = "[WEB TEXT]"
	tagSocialPost = "[SOCIAL POST]"
	tagStravaURL  = "[STRAVA URL]"
	tagWebURL     = "[WEB URL]"
)

// CombinedText concatenates the non-empty sources into the single string
// every cascade scans. The order is load-bearing: patterns match left to
// right and the first match wins, so a fact stated in an earlier source
// shadows the same fact in a later one. Order: strava text, web text,
// social text, strava URL, web URL.
func (b *SourceBundle) CombinedText() string {
	var parts []string
	add := func(tag, text string) {
		if strings.TrimSpace(text) != "" {
			parts = append(parts, tag+"\n"+strings.TrimSpace(text))
		}
	}
	add(tagStravaText, b.StravaText)
	add(tagWebText, b.WebText)
	add(tagSocialPost, b.SocialPostText)
	add(tagStravaURL, b.StravaURL)
	add(tagWebURL, b.WebURL)
	return strings.Join(parts, "\n\n")
}

// RunFields is the structured record produced by Extract. Every field is
// independently nullable; an all-nil record is a valid outcome that the
// reviewing human fills in by hand.
type RunFields struct {
	Title              *string `json:"title"`
	Date               *string `json:"date"`
	StartTimeHour      *string `json:"startTimeHour"`
	StartTimeMinute    *string `json:"startTimeMinute"`
	StartTimePeriod    *string `json:"startTimePeriod"`
	MeetUpPoint        *string `json:"meetUpPoint"`
	MeetUpCity         *string `json:"meetUpCity"`
	RouteNeighborhood  *string `json:"routeNeighborhood"`
	RunType            *string `json:"runType"`
	WorkoutDescription *string `json:"workoutDescription"`
	TotalMiles         *string `json:"totalMiles"`
	Pace               *string `json:"pace"`
	PostRunActivity    *string `json:"postRunActivity"`
	StravaMapURL       *string `json:"stravaMapUrl"`
	Description        *string `json:"description"`
}

// Extract runs every field cascade over the bundle's combined text and
// assembles the resulting record. The only hard failure is an empty bundle;
// every per-field miss degrades to nil so one malformed token (a bad date,
// a too-short place name) never blocks the other fields.
func Extract(b *SourceBundle) (*RunFields, error) {
	if !b.HasInput() {
		return nil, &ValidationError{Message: "no source input provided"}
	}

	combined := b.CombinedText()

	fields := &RunFields{
		Title:              extractTitle(combined),
		Date:               extractDate(combined),
		MeetUpPoint:        runCascade(combined, meetUpPointRules),
		RouteNeighborhood:  runCascade(combined, neighborhoodRules),
		RunType:            extractRunType(combined),
		WorkoutDescription: runCascade(combined, workoutRules),
		TotalMiles:         runCascade(combined, totalMilesRules),
		Pace:               extractPace(combined),
		PostRunActivity:    runCascade(combined, postRunRules),
		StravaMapURL:       extractStravaMapURL(b, combined),
	}
	fields.StartTimeHour, fields.StartTimeMinute, fields.StartTimePeriod = extractStartTime(combined)

	if b.ContextualCity != "" {
		city := b.ContextualCity
		fields.MeetUpCity = &city
	}

	return fields, nil
}

// extractTitle returns the first non-blank line of the combined text that is
// not a source tag marker.
func extractTitle(combined string) *string {
	for _, line := range strings.Split(combined, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		return &line
	}
	return nil
}
