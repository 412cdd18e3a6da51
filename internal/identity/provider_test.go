package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReturnsProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"ext-123","name":"roro","email":"roro@example.com"}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL)
	profile, err := p.Resolve(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, Profile{ExternalID: "ext-123", Pseudo: "roro", Email: "roro@example.com"}, profile)
}

func TestResolveRejectsUnauthorizedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL).Resolve(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrTokenRejected)
}

func TestResolveRejectsMissingSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"roro"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL).Resolve(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrTokenRejected)
}

func TestResolveSurfacesProviderOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL).Resolve(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenRejected)
}
