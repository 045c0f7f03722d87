// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/recserve/internal/reco"
)

// memCatalog is an in-memory Catalog for tests.
type memCatalog struct {
	genres  map[int64][]string
	history map[int64][]int64
	cold    map[int64]bool
}

func (m *memCatalog) GenresOf(_ context.Context, itemID int64) ([]string, error) {
	return m.genres[itemID], nil
}

func (m *memCatalog) ItemsInteractedBy(_ context.Context, userID int64) ([]int64, error) {
	return m.history[userID], nil
}

func (m *memCatalog) IsColdUser(_ context.Context, userID int64) (bool, error) {
	return m.cold[userID], nil
}

// fakeRegistry resolves names from a plain map.
type fakeRegistry struct {
	models map[string]reco.Recommender
}

func (f *fakeRegistry) Get(name string) (reco.Recommender, bool) {
	m, ok := f.models[name]
	return m, ok
}

func fixedModel(t *testing.T, items ...int64) reco.Recommender {
	t.Helper()
	m, err := reco.NewFixedModel("model_1", items)
	if err != nil {
		t.Fatalf("failed to build fixed model: %v", err)
	}
	return m
}

func defaultPolicy() Config {
	return Config{KRecs: 10, MaxUserID: 1_000_000, ExcludedModulus: 666}
}

func newTestService(t *testing.T, catalog Catalog, models map[string]reco.Recommender) *Service {
	t.Helper()
	if catalog == nil {
		catalog = &memCatalog{}
	}
	return New(&fakeRegistry{models: models}, catalog, defaultPolicy())
}

func TestGetRecommendations_UserValidation(t *testing.T) {
	svc := newTestService(t, nil, map[string]reco.Recommender{
		"model_1": fixedModel(t, 1, 2, 3),
	})

	tests := []struct {
		name   string
		userID int64
	}{
		{"above max", 1_000_001},
		{"far above max", 5_000_000},
		{"multiple of modulus", 666},
		{"larger multiple", 1332},
		{"zero is a multiple", 0},
		{"negative multiple", -666},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetRecommendations(context.Background(), "model_1", tt.userID)
			if !errors.Is(err, ErrUserNotFound) {
				t.Errorf("expected ErrUserNotFound for user %d, got %v", tt.userID, err)
			}
		})
	}
}

func TestGetRecommendations_UserCheckedBeforeModel(t *testing.T) {
	svc := newTestService(t, nil, map[string]reco.Recommender{})

	// Both the user and the model are invalid; the user wins.
	_, err := svc.GetRecommendations(context.Background(), "bogus", 2_000_000)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetRecommendations_UnknownModel(t *testing.T) {
	svc := newTestService(t, nil, map[string]reco.Recommender{
		"model_1": fixedModel(t, 1),
	})

	_, err := svc.GetRecommendations(context.Background(), "bogus", 42)
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestGetRecommendations_PassesThroughModelOutput(t *testing.T) {
	svc := newTestService(t, nil, map[string]reco.Recommender{
		"model_1": fixedModel(t, 9, 8, 7),
	})

	items, err := svc.GetRecommendations(context.Background(), "model_1", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(items, []int64{9, 8, 7}) {
		t.Errorf("expected model output unmodified, got %v", items)
	}
}

func TestGetRecommendations_BoundaryUsers(t *testing.T) {
	svc := newTestService(t, nil, map[string]reco.Recommender{
		"model_1": fixedModel(t, 1),
	})

	// MaxUserID itself is allowed; only strictly greater IDs are rejected.
	if _, err := svc.GetRecommendations(context.Background(), "model_1", 1_000_000); err != nil {
		t.Errorf("expected user 1000000 to be accepted, got %v", err)
	}

	// A neighbor of a multiple is allowed.
	if _, err := svc.GetRecommendations(context.Background(), "model_1", 667); err != nil {
		t.Errorf("expected user 667 to be accepted, got %v", err)
	}
}
