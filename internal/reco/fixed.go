// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package reco

import (
	"context"
	"errors"
)

// FixedModel serves the same configured item list to every user.
// It is the simplest baseline and doubles as a smoke-test model.
type FixedModel struct {
	name  string
	items []int64
}

// NewFixedModel creates a fixed-list model. The item list is copied.
func NewFixedModel(name string, items []int64) (*FixedModel, error) {
	if name == "" {
		return nil, errors.New("fixed model requires a name")
	}
	if len(items) == 0 {
		return nil, errors.New("fixed model requires a non-empty item list")
	}

	owned := make([]int64, len(items))
	copy(owned, items)

	return &FixedModel{name: name, items: owned}, nil
}

// Name returns the registry name of the model.
func (m *FixedModel) Name() string {
	return m.name
}

// Predict returns the first k configured items regardless of the user.
func (m *FixedModel) Predict(_ context.Context, _ int64, k int) ([]int64, error) {
	return topK(m.items, k), nil
}
