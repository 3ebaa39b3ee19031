package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// rule is one candidate pattern in a field's cascade. Cascades are evaluated
// strictly in slice order with the first accepted match winning; the order is
// a behavioral contract, not a tuning knob.
type rule struct {
	re     *regexp.Regexp
	group  int
	clean  bool // strip trailing connector words before accepting
	minLen int  // reject (and continue the cascade) below this length
}

// runCascade tries each rule in order against the combined text and returns
// the first capture that survives cleanup and the minimum-length check.
func runCascade(text string, rules []rule) *string {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		got := strings.TrimSpace(m[r.group])
		if r.clean {
			got = trimTrailingConnectors(got)
		}
		if got == "" || len(got) < r.minLen {
			continue
		}
		return &got
	}
	return nil
}

// connectorRe cuts a captured phrase at the first trailing connector word.
// "Riverside Park and then coffee" becomes "Riverside Park".
var connectorRe = regexp.MustCompile(`(?i)\s+(?:and|or|before|after|then|to|does|miles)\b.*$`)

func trimTrailingConnectors(s string) string {
	return strings.TrimSpace(connectorRe.ReplaceAllString(s, ""))
}

// place captures a capitalized phrase and stops at sentence punctuation, a
// newline, or a lowercase locative preposition ("Riverside Park in the...").
const place = `([A-Z][A-Za-z0-9'&\- ]*?)(?:\s+(?i:in|on|near|with|at)\b|[.,!?\n]|$)`

// meetUpPointRules: explicit "meets/starts/location at X" first, then the
// looser "meet/start/location X", then a bare "at X".
var meetUpPointRules = []rule{
	{re: regexp.MustCompile(`(?i:meets|starts|location)\s+at\s+` + place), group: 1, clean: true, minLen: 5},
	{re: regexp.MustCompile(`(?i:meet|start|location)\s+` + place), group: 1, clean: true, minLen: 5},
	{re: regexp.MustCompile(`\b(?i:at)\s+` + place), group: 1, clean: true, minLen: 5},
}

// capWords matches a capitalized one-or-two-word phrase.
const capWords = `([A-Z][a-zA-Z]+(?: [A-Z][a-zA-Z]+)?)`

var neighborhoodRules = []rule{
	{re: regexp.MustCompile(capWords + `\s+(?i:neighborhood)\b`), group: 1},
	{re: regexp.MustCompile(capWords + `\s+(?i:area|district|heights|village|square|commons)\b`), group: 1},
	{re: regexp.MustCompile(`(?i:neighborhood|area|district):\s*` + capWords), group: 1},
}

var workoutRules = []rule{
	{re: regexp.MustCompile(`(?i)workout\s+that\s+([^.!?\n]+)`), group: 1, clean: true, minLen: 10},
	{re: regexp.MustCompile(`(?i)(?:emphasizes|emphasizing)\s+([^.!?\n]+)`), group: 1, clean: true, minLen: 10},
	{re: regexp.MustCompile(`(?i)(?:focuses|focusing|focused)\s+on\s+([^.!?\n]+)`), group: 1, clean: true, minLen: 10},
	{re: regexp.MustCompile(`(?i)designed\s+(?:for|to)\s+([^.!?\n]+)`), group: 1, clean: true, minLen: 10},
}

var totalMilesRules = []rule{
	{re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:miles|mile|mi)\b`), group: 1, minLen: 1},
}

var postRunRules = []rule{
	{re: regexp.MustCompile(`(?i)(?:finishes|ends|concludes)\s+with\s+([^.!?\n]+)`), group: 1, clean: true, minLen: 5},
	{re: regexp.MustCompile(`(?i)post[- ]run:?\s+([^.!?\n]+)`), group: 1, clean: true, minLen: 5},
	{re: regexp.MustCompile(`(?i)(?:after|following)\s+the\s+run[,:]?\s*([^.!?\n]+)`), group: 1, clean: true, minLen: 5},
	{re: regexp.MustCompile(`(?i:social|coffee|drinks|food|breakfast|brunch)\s+(?i:at|in|near)\s+([A-Z][^.!?\n]*)`), group: 1, clean: true, minLen: 5},
}

// RunType values. Checked in this priority order: a post mentioning both a
// track workout and a trail run is a track run.
const (
	RunTypeTrack        = "track"
	RunTypeTrail        = "trail"
	RunTypeNeighborhood = "neighborhood"
	RunTypePark         = "park"
)

var runTypeRules = []struct {
	re    *regexp.Regexp
	value string
}{
	{regexp.MustCompile(`(?i)\btrack\b`), RunTypeTrack},
	{regexp.MustCompile(`(?i)\btrails?\b`), RunTypeTrail},
	{regexp.MustCompile(`(?i)\bneighborhood\b`), RunTypeNeighborhood},
	{regexp.MustCompile(`(?i)\bpark\b`), RunTypePark},
}

func extractRunType(text string) *string {
	for _, r := range runTypeRules {
		if r.re.MatchString(text) {
			v := r.value
			return &v
		}
	}
	return nil
}

// PaceAllWelcome is the literal pace value for open-pace runs. The phrase
// check runs before the numeric pace patterns so "all paces welcome, we run
// 8:00 pace" resolves to the open-pace value.
const PaceAllWelcome = "All Paces Welcome"

var allPacesRe = regexp.MustCompile(`(?i)all\s+paces?\s+(?:are\s+)?welcome`)

const paceToken = `(\d{1,2}:\d{2}(?:\s*-\s*\d{1,2}:\d{2})?)`

var paceRules = []rule{
	{re: regexp.MustCompile(`(?i)pace:\s*` + paceToken), group: 1, minLen: 1},
	{re: regexp.MustCompile(`(?i)` + paceToken + `\s*(?:pace|min(?:s|utes)?\s+per\s+mile|/mi\b)`), group: 1, minLen: 1},
	{re: regexp.MustCompile(`(?i)(?:pace|speed)\s*:?\s*` + paceToken + `\s*min`), group: 1, minLen: 1},
}

func extractPace(text string) *string {
	if allPacesRe.MatchString(text) {
		v := PaceAllWelcome
		return &v
	}
	return runCascade(text, paceRules)
}

var dateRe = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{2}-\d{2})\b`)

// extractDate takes the first date-like token and reformats it as an ISO
// date. A token that is not a real calendar date (15/45/2025) is a soft
// miss, not an error.
func extractDate(text string) *string {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	iso, ok := parseDate(m[1])
	if !ok {
		return nil
	}
	return &iso
}

func parseDate(token string) (string, bool) {
	if strings.Contains(token, "/") {
		parts := strings.Split(token, "/")
		if len(parts) != 3 {
			return "", false
		}
		month, err1 := strconv.Atoi(parts[0])
		day, err2 := strconv.Atoi(parts[1])
		year, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return "", false
		}
		if year < 100 {
			year += 2000
		}
		// time.Date normalizes out-of-range components, so round-trip the
		// result to detect impossible dates.
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			return "", false
		}
		return t.Format("2006-01-02"), true
	}
	t, err := time.Parse("2006-01-02", token)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

var startTimeRe = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*([AaPp][Mm])?\b`)

// extractStartTime returns the hour, minute, and AM/PM period of the first
// clock token. The period defaults to AM when the token has no suffix.
func extractStartTime(text string) (hour, minute, period *string) {
	m := startTimeRe.FindStringSubmatch(text)
	if m == nil {
		return nil, nil, nil
	}
	h, mi := m[1], m[2]
	p := "AM"
	if m[3] != "" {
		p = strings.ToUpper(m[3])
	}
	return &h, &mi, &p
}

var stravaURLRe = regexp.MustCompile(`https?://(?:www\.)?strava\.com/[^\s\]]+`)

// extractStravaMapURL prefers the explicit strava URL input and falls back
// to the first strava.com link found anywhere in the combined text.
func extractStravaMapURL(b *SourceBundle, text string) *string {
	if u := strings.TrimSpace(b.StravaURL); u != "" {
		return &u
	}
	if u := stravaURLRe.FindString(text); u != "" {
		return &u
	}
	return nil
}
