// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package reco

import (
	"context"
	"sort"

	"github.com/tomtom215/recserve/internal/logging"
	"github.com/tomtom215/recserve/internal/metrics"
)

// Registry model names.
const (
	ModelFixed    = "model_1"
	ModelPopular  = "popular"
	ModelNeighbor = "bm25"
)

// RegistryConfig holds the model construction inputs.
type RegistryConfig struct {
	// FixedItems is the constant list served by the fixed model.
	FixedItems []int64
}

// Registry maps model names to recommenders.
//
// The map is built once and never mutated afterwards, so lookups are
// lock-free and safe for concurrent use.
type Registry struct {
	models map[string]Recommender
}

// NewRegistry builds the model zoo.
//
// Each model is constructed independently; a model whose inputs are
// unavailable is logged at warn level and omitted. Startup only fails
// when no model at all can be built.
func NewRegistry(ctx context.Context, provider DataProvider, cfg RegistryConfig) *Registry {
	logger := logging.WithComponent("registry")
	models := make(map[string]Recommender)

	if m, err := NewFixedModel(ModelFixed, cfg.FixedItems); err != nil {
		logger.Warn().Err(err).Str("model", ModelFixed).Msg("model unavailable, omitting")
	} else {
		models[ModelFixed] = m
	}

	popular, err := NewPopularityModel(ctx, ModelPopular, provider)
	if err != nil {
		logger.Warn().Err(err).Str("model", ModelPopular).Msg("model unavailable, omitting")
	} else {
		models[ModelPopular] = popular
	}

	// The neighbor model falls back to popularity, so it requires the
	// popularity model to have been built.
	if popular == nil {
		logger.Warn().Str("model", ModelNeighbor).Msg("model unavailable without popularity fallback, omitting")
	} else if m, err := NewNeighborModel(ModelNeighbor, provider, popular); err != nil {
		logger.Warn().Err(err).Str("model", ModelNeighbor).Msg("model unavailable, omitting")
	} else {
		models[ModelNeighbor] = m
	}

	r := &Registry{models: models}

	metrics.ModelsRegistered.Set(float64(len(models)))
	logger.Info().
		Strs("models", r.Names()).
		Msg("model registry built")

	return r
}

// Get returns the named model, or false when it is not registered.
func (r *Registry) Get(name string) (Recommender, bool) {
	m, ok := r.models[name]
	return m, ok
}

// Names returns the registered model names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.models)
}
