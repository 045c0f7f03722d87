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

// popularityPrecompute bounds the ranking cached at construction.
// Requests for larger k are clamped to this depth.
const popularityPrecompute = 1000

// PopularityModel serves the global popularity ranking to every user.
// The ranking is computed once at construction, so Predict never
// touches the catalog.
type PopularityModel struct {
	name   string
	ranked []int64
}

// NewPopularityModel builds the popularity ranking from interaction counts.
func NewPopularityModel(ctx context.Context, name string, provider DataProvider) (*PopularityModel, error) {
	if name == "" {
		return nil, errors.New("popularity model requires a name")
	}

	ranked, err := provider.TopItems(ctx, popularityPrecompute)
	if err != nil {
		return nil, fmt.Errorf("failed to build popularity ranking: %w", err)
	}
	if len(ranked) == 0 {
		return nil, errors.New("popularity model requires at least one interaction")
	}

	return &PopularityModel{name: name, ranked: ranked}, nil
}

// Name returns the registry name of the model.
func (m *PopularityModel) Name() string {
	return m.name
}

// Predict returns the top k items of the global ranking regardless of the user.
func (m *PopularityModel) Predict(_ context.Context, _ int64, k int) ([]int64, error) {
	return topK(m.ranked, k), nil
}
