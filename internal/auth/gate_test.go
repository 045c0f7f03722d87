// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
)

const testSecret = "expected-secret"

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	gate, err := NewGate(testSecret)
	if err != nil {
		t.Fatalf("failed to build gate: %v", err)
	}
	return gate
}

func TestNewGate_RejectsEmptySecret(t *testing.T) {
	if _, err := NewGate(""); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestAuthenticate(t *testing.T) {
	gate := newTestGate(t)

	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{"all absent", Credentials{}, true},
		{"query match", Credentials{QueryKey: testSecret}, false},
		{"header match", Credentials{HeaderKey: testSecret}, false},
		{"bearer match", Credentials{BearerToken: testSecret}, false},
		{"query wrong", Credentials{QueryKey: "nope"}, true},
		{"all wrong", Credentials{QueryKey: "a", HeaderKey: "b", BearerToken: "c"}, true},
		{"wrong query, right header", Credentials{QueryKey: "nope", HeaderKey: testSecret}, false},
		{"wrong query and header, right bearer", Credentials{QueryKey: "a", HeaderKey: "b", BearerToken: testSecret}, false},
		{"prefix of secret", Credentials{QueryKey: "expected"}, true},
		{"secret with suffix", Credentials{QueryKey: testSecret + "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Authenticate(tt.creds)
			if tt.wantErr && !errors.Is(err, ErrCredential) {
				t.Errorf("expected ErrCredential, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected acceptance, got %v", err)
			}
		})
	}
}

func TestAuthenticate_SourceOrderInvariant(t *testing.T) {
	// Acceptance depends only on whether any source matches, not on
	// which one.
	gate := newTestGate(t)

	matches := []Credentials{
		{QueryKey: testSecret, HeaderKey: "wrong", BearerToken: "wrong"},
		{QueryKey: "wrong", HeaderKey: testSecret, BearerToken: "wrong"},
		{QueryKey: "wrong", HeaderKey: "wrong", BearerToken: testSecret},
	}
	for i, creds := range matches {
		if err := gate.Authenticate(creds); err != nil {
			t.Errorf("case %d: expected acceptance, got %v", i, err)
		}
	}
}

func TestExtractCredentials(t *testing.T) {
	r := httptest.NewRequest("GET", "/reco/popular/42?api_key=qvalue", nil)
	r.Header.Set("api_key", "hvalue")
	r.Header.Set("Authorization", "Bearer bvalue")

	creds := ExtractCredentials(r, "api_key")
	if creds.QueryKey != "qvalue" {
		t.Errorf("expected query key %q, got %q", "qvalue", creds.QueryKey)
	}
	if creds.HeaderKey != "hvalue" {
		t.Errorf("expected header key %q, got %q", "hvalue", creds.HeaderKey)
	}
	if creds.BearerToken != "bvalue" {
		t.Errorf("expected bearer token %q, got %q", "bvalue", creds.BearerToken)
	}
}

func TestExtractCredentials_Absent(t *testing.T) {
	r := httptest.NewRequest("GET", "/health", nil)

	creds := ExtractCredentials(r, "api_key")
	if creds != (Credentials{}) {
		t.Errorf("expected empty credentials, got %+v", creds)
	}
}

func TestExtractCredentials_NonBearerAuthorization(t *testing.T) {
	r := httptest.NewRequest("GET", "/health", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	creds := ExtractCredentials(r, "api_key")
	if creds.BearerToken != "" {
		t.Errorf("expected no bearer token, got %q", creds.BearerToken)
	}
}
