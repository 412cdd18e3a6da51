// Package identity wraps the external identity provider behind a narrow
// client interface.  The OAuth handshake itself happens in the browser; the
// backend only ever sees the resulting provider access token and exchanges
// it for a stable profile via the provider's userinfo endpoint.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// ErrTokenRejected is returned when the provider refuses the presented
// access token.  Handlers translate it into a 401.
var ErrTokenRejected = errors.New("identity provider rejected token")

// Profile is the subset of provider claims the backend needs for
// find-or-create account linking.
type Profile struct {
	ExternalID string // stable subject identifier at the provider
	Pseudo     string // display name
	Email      string // may be empty
}

// Provider resolves a provider-issued access token into a Profile.
type Provider interface {
	Resolve(ctx context.Context, accessToken string) (Profile, error)
}

// HTTPProvider resolves tokens against an OpenID-Connect style userinfo
// endpoint: a GET with the token as a bearer credential returning
// {"sub": ..., "name": ..., "email": ...}.
type HTTPProvider struct {
	URL    string
	Client *http.Client
}

func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *HTTPProvider) Resolve(ctx context.Context, accessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Client.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Profile{}, ErrTokenRejected
	}
	if resp.StatusCode != http.StatusOK {
		return Profile{}, errors.New("userinfo request failed: " + resp.Status)
	}

	var body struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Profile{}, err
	}
	if body.Sub == "" {
		return Profile{}, ErrTokenRejected
	}
	return Profile{ExternalID: body.Sub, Pseudo: body.Name, Email: body.Email}, nil
}
