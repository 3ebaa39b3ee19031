// Package races provides a client for the RunSignUp race aggregator REST
// API, used to discover candidate races near a city.
package races

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production aggregator endpoint.
const DefaultBaseURL = "https://runsignup.com/rest"

const (
	defaultTimeout = 20 * time.Second
	pageSize       = 50
	maxPages       = 10
)

// APIError represents a non-success response from the aggregator.
type APIError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("aggregator error: %s: %v", e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("aggregator error: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("aggregator error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Race is one aggregator race listing.
type Race struct {
	ExternalID string
	Name       string
	City       string
	State      string
	StartDate  *time.Time
	Distance   string
	URL        string
}

// Query describes a regional race search.
type Query struct {
	City        string
	State       string
	RadiusMiles int
	From        *time.Time
	To          *time.Time
}

// Client talks to the aggregator API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL selects the production API.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// raceEnvelope mirrors the aggregator's nested response shape.
type raceEnvelope struct {
	Races []struct {
		Race struct {
			RaceID   int    `json:"race_id"`
			Name     string `json:"name"`
			NextDate string `json:"next_date"`
			URL      string `json:"url"`
			Address  struct {
				City  string `json:"city"`
				State string `json:"state"`
			} `json:"address"`
			Events []struct {
				Distance string `json:"distance"`
			} `json:"events"`
		} `json:"race"`
	} `json:"races"`
}

// SearchRaces pages through aggregator results for the query region. It
// stops after the first short page or the page cap, whichever comes first.
func (c *Client) SearchRaces(ctx context.Context, q Query) ([]Race, error) {
	var all []Race

	for page := 1; page <= maxPages; page++ {
		batch, err := c.fetchPage(ctx, q, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			break
		}
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, q Query, page int) ([]Race, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("page", strconv.Itoa(page))
	params.Set("results_per_page", strconv.Itoa(pageSize))
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if q.City != "" {
		params.Set("city", q.City)
	}
	if q.State != "" {
		params.Set("state", q.State)
	}
	if q.RadiusMiles > 0 {
		params.Set("radius", strconv.Itoa(q.RadiusMiles))
	}
	if q.From != nil {
		params.Set("start_date", q.From.Format("2006-01-02"))
	}
	if q.To != nil {
		params.Set("end_date", q.To.Format("2006-01-02"))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/races?"+params.Encode(), nil)
	if err != nil {
		return nil, &APIError{Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var envelope raceEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &APIError{Message: "failed to decode response", Cause: err}
	}

	races := make([]Race, 0, len(envelope.Races))
	for _, entry := range envelope.Races {
		r := entry.Race
		race := Race{
			ExternalID: strconv.Itoa(r.RaceID),
			Name:       r.Name,
			City:       r.Address.City,
			State:      r.Address.State,
			URL:        r.URL,
		}
		if len(r.Events) > 0 {
			race.Distance = r.Events[0].Distance
		}
		if r.NextDate != "" {
			// The aggregator formats dates as MM/DD/YYYY.
			if t, err := time.Parse("01/02/2006", r.NextDate); err == nil {
				race.StartDate = &t
			}
		}
		races = append(races, race)
	}

	return races, nil
}
