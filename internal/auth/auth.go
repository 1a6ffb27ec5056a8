// internal/auth/auth.go
// Package auth bootstraps an authorized HTTP client for the monitoring API.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/metricdeck/metricdeck/internal/appconfig"
)

// Session holds the credentials backing an authorized client.
type Session struct {
	Token string
}

// bearerTransport injects the session token into every outgoing request.
type bearerTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip clones the request and attaches the Authorization header. The
// original request is left untouched per the RoundTripper contract.
func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+t.token)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(authed)
}

// Authorize resolves the configured credentials and returns a session together
// with an HTTP client that authenticates every request. It returns only once a
// usable session exists.
func Authorize(ctx context.Context, cfg appconfig.Config) (*Session, *http.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	token, err := cfg.BearerToken()
	if err != nil {
		return nil, nil, err
	}
	if token == "" {
		return nil, nil, errors.New("auth: resolved an empty token")
	}

	session := &Session{Token: token}
	client := &http.Client{
		Timeout: cfg.RequestTimeout(),
		Transport: &bearerTransport{
			token: token,
			base:  &http.Transport{ForceAttemptHTTP2: false},
		},
	}
	return session, client, nil
}
