// internal/auth/auth_test.go
package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/metricdeck/metricdeck/internal/appconfig"
)

// TestAuthorize verifies that Authorize resolves the configured token and that
// the returned client attaches it as a bearer Authorization header.
func TestAuthorize(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := appconfig.Config{Token: "tok-42"}
	session, client, err := Authorize(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Authorize() failed: %v", err)
	}
	if session.Token != "tok-42" {
		t.Errorf("unexpected session token: %q", session.Token)
	}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer tok-42" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

// TestAuthorizeWithoutCredentials verifies that a config carrying no token
// yields an error rather than an unusable session.
func TestAuthorizeWithoutCredentials(t *testing.T) {
	if _, _, err := Authorize(context.Background(), appconfig.Config{}); err == nil {
		t.Error("expected an error for missing credentials, got nil")
	}
}
