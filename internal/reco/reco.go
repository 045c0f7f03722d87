// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

// Package reco holds the recommendation models and the model registry.
//
// Models are immutable after construction and safe for concurrent use.
// The registry is built once at startup; models whose inputs are
// unavailable are omitted rather than failing startup.
package reco

import "context"

// Recommender produces an ordered list of recommended item IDs for a user.
//
// Predict returns at most k items, best first. It never fails for a
// valid user on semantic grounds; a cold or unknown user falls back to
// a popularity ranking inside the model.
type Recommender interface {
	// Name returns the registry name of the model.
	Name() string

	// Predict returns up to k recommended item IDs, ordered best first.
	Predict(ctx context.Context, userID int64, k int) ([]int64, error)
}

// DataProvider supplies the catalog data the models are built on.
// *catalog.Store satisfies this interface.
type DataProvider interface {
	// TopItems returns the k globally most popular items, best first.
	TopItems(ctx context.Context, k int) ([]int64, error)

	// NeighborItems returns a user's precomputed ranked item list.
	NeighborItems(ctx context.Context, userID int64) ([]int64, error)

	// IsColdUser reports whether the user has too little history for
	// personalized models.
	IsColdUser(ctx context.Context, userID int64) (bool, error)

	// HasNeighbors reports whether neighbor data is available.
	HasNeighbors() bool
}

// topK returns a copy of the first k elements of items.
// Callers must never receive internal slices.
func topK(items []int64, k int) []int64 {
	if k > len(items) {
		k = len(items)
	}
	if k < 0 {
		k = 0
	}
	out := make([]int64, k)
	copy(out, items[:k])
	return out
}
