// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

// Package main is the entry point for the Recserve server.
//
// Recserve serves movie recommendations from a registry of models and
// explains individual recommendations through genre overlap between a
// user's watch history and the recommended list.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 with layered sources (defaults, YAML file,
//     environment variables)
//  2. Catalog: CSV inputs loaded into an in-memory DuckDB instance
//  3. Model registry: fixed, popularity and neighbor models, each
//     registered only if its data requirements are met
//  4. Serving layer: request validation, dispatch and explanations
//  5. HTTP server: chi router under a suture supervision tree
//
// # Configuration
//
// Required settings:
//   - API_KEY: shared secret, 8+ characters
//   - ITEMS_CSV, INTERACTIONS_CSV, COLD_USERS_CSV: catalog inputs
//
// Optional:
//   - NEIGHBORS_CSV: per-user neighbor rankings; without it the bm25
//     model is not registered
//   - HTTP_PORT (default 8000), K_RECS (default 10)
//   - MAX_USER_ID (default 1000000), EXCLUDED_MODULUS (default 666)
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests within the shutdown
// timeout, then closes the catalog.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/recserve/internal/api"
	"github.com/tomtom215/recserve/internal/auth"
	"github.com/tomtom215/recserve/internal/catalog"
	"github.com/tomtom215/recserve/internal/config"
	"github.com/tomtom215/recserve/internal/logging"
	"github.com/tomtom215/recserve/internal/reco"
	"github.com/tomtom215/recserve/internal/service"
	"github.com/tomtom215/recserve/internal/supervisor"
	"github.com/tomtom215/recserve/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Config not yet available, use the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Int("port", cfg.Server.Port).
		Int("k_recs", cfg.Models.KRecs).
		Int64("max_user_id", cfg.Policy.MaxUserID).
		Msg("Starting Recserve")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := catalog.Open(ctx, catalog.Config{
		ItemsPath:        cfg.Catalog.ItemsPath,
		InteractionsPath: cfg.Catalog.InteractionsPath,
		ColdUsersPath:    cfg.Catalog.ColdUsersPath,
		NeighborsPath:    cfg.Catalog.NeighborsPath,
		MaxMemory:        cfg.Catalog.MaxMemory,
		Threads:          cfg.Catalog.Threads,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()
	logging.Info().Bool("neighbors", store.HasNeighbors()).Msg("Catalog loaded")

	registry := reco.NewRegistry(ctx, store, reco.RegistryConfig{
		FixedItems: cfg.Models.FixedItems,
	})
	if registry.Len() == 0 {
		logging.Fatal().Msg("No recommendation models could be registered")
	}

	svc := service.New(registry, store, service.Config{
		KRecs:           cfg.Models.KRecs,
		MaxUserID:       cfg.Policy.MaxUserID,
		ExcludedModulus: cfg.Policy.ExcludedModulus,
	})

	gate, err := auth.NewGate(cfg.Auth.APIKey)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize credential gate")
	}

	handler := api.NewHandler(svc, gate, cfg.Auth.APIKeyName)
	router := api.SetupChi(handler, api.NewChiMiddleware(api.ChiMiddlewareConfig{
		AllowedOrigins:    cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Server.RateLimitReqs,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
		RateLimitDisabled: cfg.Server.RateLimitDisabled,
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddServingService(services.NewHTTPServerService(server, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, s := range unstopped {
		logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Recserve stopped gracefully")
}
