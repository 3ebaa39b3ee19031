package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRunRequest_HasSource(t *testing.T) {
	tests := []struct {
		name string
		req  GenerateRunRequest
		want bool
	}{
		{"empty", GenerateRunRequest{}, false},
		{"crew id only", GenerateRunRequest{RunCrewID: "6a6f0f86-54d8-4df6-8c6d-9c20f2e3b001"}, false},
		{"whitespace text", GenerateRunRequest{IgPostText: "  \n"}, false},
		{"social text", GenerateRunRequest{IgPostText: "morning run"}, true},
		{"web url only", GenerateRunRequest{WebURL: "https://example.com/run"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.HasSource())
		})
	}
}

func TestGenerateRunRequest_Validate(t *testing.T) {
	req := GenerateRunRequest{WebURL: "://bad"}
	assert.Error(t, req.Validate())

	req = GenerateRunRequest{WebURL: "https://example.com/run", RunCrewID: "not-a-uuid"}
	assert.Error(t, req.Validate())

	req = GenerateRunRequest{IgPostText: "hello", RunCrewID: "6a6f0f86-54d8-4df6-8c6d-9c20f2e3b001"}
	assert.NoError(t, req.Validate())
}

func TestRunPayload_Validate(t *testing.T) {
	title := "Tempo Tuesday"
	badDate := "03/15/2025"
	goodDate := "2025-03-15"
	badType := "swimming"

	p := RunPayload{Title: title, Date: &goodDate}
	assert.NoError(t, p.Validate())

	p = RunPayload{Title: ""}
	assert.Error(t, p.Validate())

	p = RunPayload{Title: title, Date: &badDate}
	assert.Error(t, p.Validate(), "dates must already be ISO by the time a run is scheduled")

	p = RunPayload{Title: title, RunType: &badType}
	assert.Error(t, p.Validate())
}

func TestRSVPRequest_Validate(t *testing.T) {
	assert.NoError(t, (&RSVPRequest{Status: "going"}).Validate())
	assert.NoError(t, (&RSVPRequest{Status: "not_going"}).Validate())
	assert.Error(t, (&RSVPRequest{Status: "maybe"}).Validate())
	assert.Error(t, (&RSVPRequest{}).Validate())
}

func TestParseUUID(t *testing.T) {
	id, err := ParseUUID("")
	require.NoError(t, err)
	assert.True(t, id.String() == "00000000-0000-0000-0000-000000000000")

	_, err = ParseUUID("junk")
	assert.Error(t, err)

	id, err = ParseUUID("6a6f0f86-54d8-4df6-8c6d-9c20f2e3b001")
	require.NoError(t, err)
	assert.Equal(t, "6a6f0f86-54d8-4df6-8c6d-9c20f2e3b001", id.String())
}
