// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package reco

import (
	"context"
	"errors"
	"fmt"
)

// NeighborModel serves a precomputed per-user ranked item list.
//
// Cold users and users without a precomputed list fall back to the
// popularity ranking, so Predict always has an answer.
type NeighborModel struct {
	name     string
	provider DataProvider
	fallback Recommender
}

// NewNeighborModel creates a neighbor-based model.
// Construction fails when neighbor data is unavailable; the registry
// treats that as an omission, not a startup error.
func NewNeighborModel(name string, provider DataProvider, fallback Recommender) (*NeighborModel, error) {
	if name == "" {
		return nil, errors.New("neighbor model requires a name")
	}
	if fallback == nil {
		return nil, errors.New("neighbor model requires a fallback recommender")
	}
	if !provider.HasNeighbors() {
		return nil, errors.New("neighbor data unavailable")
	}

	return &NeighborModel{
		name:     name,
		provider: provider,
		fallback: fallback,
	}, nil
}

// Name returns the registry name of the model.
func (m *NeighborModel) Name() string {
	return m.name
}

// Predict returns the user's precomputed ranked items, falling back to
// the popularity ranking for cold users and users without a list.
func (m *NeighborModel) Predict(ctx context.Context, userID int64, k int) ([]int64, error) {
	cold, err := m.provider.IsColdUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check cold status of user %d: %w", userID, err)
	}
	if cold {
		return m.fallback.Predict(ctx, userID, k)
	}

	items, err := m.provider.NeighborItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch neighbors of user %d: %w", userID, err)
	}
	if len(items) == 0 {
		return m.fallback.Predict(ctx, userID, k)
	}

	return topK(items, k), nil
}
