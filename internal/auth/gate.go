// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

// Package auth implements the API key credential gate.
//
// Every request may carry the shared secret in one of three places: a
// query parameter, a request header, or an Authorization bearer token.
// The sources are checked in that order and the first exact match wins.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// ErrCredential marks a request carrying no valid credential.
var ErrCredential = errors.New("invalid or missing API key")

// Credentials holds the candidate secrets extracted from one request.
// Absent sources are empty strings.
type Credentials struct {
	QueryKey    string
	HeaderKey   string
	BearerToken string
}

// Gate validates request credentials against the single configured secret.
type Gate struct {
	secret []byte
}

// NewGate creates a Gate for the given shared secret.
func NewGate(secret string) (*Gate, error) {
	if secret == "" {
		return nil, errors.New("credential gate requires a non-empty secret")
	}
	return &Gate{secret: []byte(secret)}, nil
}

// Authenticate checks the credential sources in order: query parameter,
// header, bearer token. The first exact match accepts the request; if
// no source matches, including when all are absent, it returns
// ErrCredential. Comparisons are constant-time.
func (g *Gate) Authenticate(creds Credentials) error {
	for _, candidate := range []string{creds.QueryKey, creds.HeaderKey, creds.BearerToken} {
		if candidate == "" {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(candidate), g.secret) == 1 {
			return nil
		}
	}
	return ErrCredential
}

// ExtractCredentials pulls the candidate secrets out of a request.
// keyName names both the query parameter and the header; the bearer
// token comes from the Authorization header.
func ExtractCredentials(r *http.Request, keyName string) Credentials {
	creds := Credentials{
		QueryKey:  r.URL.Query().Get(keyName),
		HeaderKey: r.Header.Get(keyName),
	}

	authz := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authz, "Bearer "); ok {
		creds.BearerToken = token
	}

	return creds
}
