package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	validTokens map[string]uuid.UUID
}

func newStubValidator() *stubValidator {
	return &stubValidator{validTokens: make(map[string]uuid.UUID)}
}

func (v *stubValidator) ValidateToken(tokenString string) (AthleteIDGetter, error) {
	athleteID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return stubClaims{athleteID: athleteID}, nil
}

type stubClaims struct {
	athleteID uuid.UUID
}

func (c stubClaims) GetAthleteID() uuid.UUID {
	return c.athleteID
}

func TestAuth_ValidToken(t *testing.T) {
	validator := newStubValidator()
	athleteID := uuid.New()
	validator.validTokens["valid-token-123"] = athleteID

	var contextID uuid.UUID
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		extracted, err := GetAthleteID(r)
		require.NoError(t, err)
		contextID = extracted
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/crews", nil)
	req.Header.Set("Authorization", "Bearer valid-token-123")
	w := httptest.NewRecorder()

	Auth(validator)(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, athleteID, contextID)
}

func TestAuth_RejectsBadHeaders(t *testing.T) {
	validator := newStubValidator()
	validator.validTokens["good"] = uuid.New()

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "missing header", authHeader: ""},
		{name: "no bearer prefix", authHeader: "good"},
		{name: "bearer without token", authHeader: "Bearer"},
		{name: "empty token", authHeader: "Bearer "},
		{name: "unknown token", authHeader: "Bearer nope"},
		{name: "extra parts", authHeader: "Bearer good extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
			})

			req := httptest.NewRequest(http.MethodGet, "/crews", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			Auth(validator)(handler).ServeHTTP(w, req)

			assert.False(t, handlerCalled)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuth_CaseInsensitiveBearer(t *testing.T) {
	validator := newStubValidator()
	athleteID := uuid.New()
	validator.validTokens["tok"] = athleteID

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, prefix := range []string{"bearer", "BEARER", "BeArEr"} {
		req := httptest.NewRequest(http.MethodGet, "/crews", nil)
		req.Header.Set("Authorization", prefix+" tok")
		w := httptest.NewRecorder()

		Auth(validator)(handler).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGetAthleteID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/crews", nil)

	athleteID, err := GetAthleteID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, athleteID)
}

func TestGetAthleteID_WrongType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/crews", nil)
	ctx := context.WithValue(req.Context(), athleteIDKey, "not-a-uuid")
	req = req.WithContext(ctx)

	athleteID, err := GetAthleteID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, athleteID)
}
