package apikey

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/einklang-dev/einklang/pkg/auth"
)

func newAuthenticator() *Authenticator {
	return New([]RawKeyEntry{
		{Key: "sk-valid", Identity: auth.Identity{Subject: "alice", ServiceTier: "pro"}},
		{Key: "sk-other", Identity: auth.Identity{Subject: "bob"}},
	})
}

func authHeader(t *testing.T, value string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)
	if value != "" {
		r.Header.Set("Authorization", value)
	}
	return r
}

func TestAuthenticate_ValidKey(t *testing.T) {
	a := newAuthenticator()

	result := a.Authenticate(context.Background(), authHeader(t, "Bearer sk-valid"))
	if result.Decision != auth.Yes {
		t.Fatalf("Decision = %v, want Yes", result.Decision)
	}
	if result.Identity.Subject != "alice" || result.Identity.ServiceTier != "pro" {
		t.Errorf("Identity = %+v", result.Identity)
	}
}

func TestAuthenticate_IdentityIsCopied(t *testing.T) {
	a := newAuthenticator()

	first := a.Authenticate(context.Background(), authHeader(t, "Bearer sk-valid"))
	first.Identity.Subject = "mutated"

	second := a.Authenticate(context.Background(), authHeader(t, "Bearer sk-valid"))
	if second.Identity.Subject != "alice" {
		t.Error("returned identity must be a copy, not shared state")
	}
}

func TestAuthenticate_UnknownKey(t *testing.T) {
	a := newAuthenticator()

	result := a.Authenticate(context.Background(), authHeader(t, "Bearer sk-wrong"))
	if result.Decision != auth.No || result.Err == nil {
		t.Errorf("result = %+v, want No with error", result)
	}
}

func TestAuthenticate_Abstains(t *testing.T) {
	a := newAuthenticator()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.Authenticate(context.Background(), authHeader(t, tt.header))
			if result.Decision != auth.Abstain {
				t.Errorf("Decision = %v, want Abstain", result.Decision)
			}
		})
	}
}

func TestAuthenticate_EmptyBearerToken(t *testing.T) {
	a := newAuthenticator()

	result := a.Authenticate(context.Background(), authHeader(t, "Bearer "))
	if result.Decision != auth.No {
		t.Errorf("Decision = %v, want No for empty token", result.Decision)
	}
}
