package races

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"races": [
		{"race": {
			"race_id": 101,
			"name": "Charles River 10K",
			"next_date": "10/12/2025",
			"url": "https://runsignup.com/Race/MA/Boston/CharlesRiver10K",
			"address": {"city": "Boston", "state": "MA"},
			"events": [{"distance": "10K"}]
		}},
		{"race": {
			"race_id": 102,
			"name": "Harbor Half",
			"next_date": "",
			"url": "https://runsignup.com/Race/MA/Boston/HarborHalf",
			"address": {"city": "Boston", "state": "MA"},
			"events": []
		}}
	]
}`

func TestSearchRaces(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"city":   r.URL.Query().Get("city"),
			"state":  r.URL.Query().Get("state"),
			"radius": r.URL.Query().Get("radius"),
			"format": r.URL.Query().Get("format"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	races, err := client.SearchRaces(context.Background(), Query{City: "Boston", State: "MA", RadiusMiles: 25})
	require.NoError(t, err)

	assert.Equal(t, "Boston", gotQuery["city"])
	assert.Equal(t, "MA", gotQuery["state"])
	assert.Equal(t, "25", gotQuery["radius"])
	assert.Equal(t, "json", gotQuery["format"])

	require.Len(t, races, 2)
	assert.Equal(t, "101", races[0].ExternalID)
	assert.Equal(t, "Charles River 10K", races[0].Name)
	assert.Equal(t, "10K", races[0].Distance)
	require.NotNil(t, races[0].StartDate)
	assert.Equal(t, "2025-10-12", races[0].StartDate.Format("2006-01-02"))

	// Missing date and events degrade to zero values, not errors.
	assert.Nil(t, races[1].StartDate)
	assert.Empty(t, races[1].Distance)
}

func TestSearchRaces_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("bad api key"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "wrong")
	_, err := client.SearchRaces(context.Background(), Query{City: "Boston"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "403")
}

func TestSearchRaces_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.SearchRaces(context.Background(), Query{})
	require.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}
