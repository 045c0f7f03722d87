// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

// Package service implements recommendation serving: user and model
// validation, model dispatch, and recommendation explanations.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/recserve/internal/logging"
	"github.com/tomtom215/recserve/internal/metrics"
	"github.com/tomtom215/recserve/internal/reco"
)

// Catalog is the read-only item data the service consumes.
// *catalog.Store satisfies this interface.
type Catalog interface {
	// GenresOf returns an item's genre tokens in stored order.
	GenresOf(ctx context.Context, itemID int64) ([]string, error)

	// ItemsInteractedBy returns a user's full history, oldest first.
	ItemsInteractedBy(ctx context.Context, userID int64) ([]int64, error)

	// IsColdUser reports whether the user is in the cold user list.
	IsColdUser(ctx context.Context, userID int64) (bool, error)
}

// Registry resolves model names to recommenders.
// *reco.Registry satisfies this interface.
type Registry interface {
	Get(name string) (reco.Recommender, bool)
}

// Config holds the serving policy values.
type Config struct {
	// KRecs is the number of recommendations returned per request.
	KRecs int

	// MaxUserID is the highest user ID treated as known.
	MaxUserID int64

	// ExcludedModulus excludes users whose ID is one of its multiples.
	ExcludedModulus int64
}

// Service validates requests and dispatches them to the model registry.
type Service struct {
	registry Registry
	catalog  Catalog
	cfg      Config
	logger   zerolog.Logger
}

// New creates a Service.
func New(registry Registry, catalog Catalog, cfg Config) *Service {
	return &Service{
		registry: registry,
		catalog:  catalog,
		cfg:      cfg,
		logger:   logging.WithComponent("service"),
	}
}

// validateUser applies the user policy rules in order:
// IDs above MaxUserID first, then multiples of ExcludedModulus.
func (s *Service) validateUser(userID int64) error {
	if userID > s.cfg.MaxUserID {
		metrics.UserValidationRejections.WithLabelValues("above_max").Inc()
		return ErrUserNotFound
	}
	if userID%s.cfg.ExcludedModulus == 0 {
		metrics.UserValidationRejections.WithLabelValues("excluded_modulus").Inc()
		return ErrUserNotFound
	}
	return nil
}

// resolve validates the user and looks up the model, in that order.
// A request failing both rules reports the user error.
func (s *Service) resolve(modelName string, userID int64) (reco.Recommender, error) {
	if err := s.validateUser(userID); err != nil {
		return nil, err
	}

	model, ok := s.registry.Get(modelName)
	if !ok {
		return nil, ErrModelNotFound
	}

	return model, nil
}

// GetRecommendations returns up to KRecs item IDs for the user from the
// named model. The model's output is passed through unmodified.
func (s *Service) GetRecommendations(ctx context.Context, modelName string, userID int64) ([]int64, error) {
	model, err := s.resolve(modelName, userID)
	if err != nil {
		return nil, err
	}

	items, err := model.Predict(ctx, userID, s.cfg.KRecs)
	if err != nil {
		return nil, fmt.Errorf("model %s failed to predict for user %d: %w", modelName, userID, err)
	}

	metrics.RecordRecommendation(modelName)
	logging.Ctx(ctx).Info().
		Str("model", modelName).
		Int64("user_id", userID).
		Int("items", len(items)).
		Msg("recommendations served")

	return items, nil
}
