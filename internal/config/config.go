// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

// Package config loads and validates application configuration using
// Koanf v2 with layered sources: defaults, optional YAML file, then
// environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Auth    AuthConfig    `koanf:"auth"`
	Catalog CatalogConfig `koanf:"catalog"`
	Models  ModelsConfig  `koanf:"models"`
	Policy  PolicyConfig  `koanf:"policy"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	Host              string        `koanf:"host" validate:"required"`
	Timeout           time.Duration `koanf:"timeout" validate:"min=1s"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"min=1s"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// AuthConfig holds the API key credential settings.
//
// APIKey is the single shared secret every request must present.
// APIKeyName is the query parameter and header name clients use to
// carry it; bearer tokens in the Authorization header are also accepted.
type AuthConfig struct {
	APIKey     string `koanf:"api_key" validate:"required,min=8"`
	APIKeyName string `koanf:"api_key_name" validate:"required"`
}

// CatalogConfig holds the CSV input paths loaded into DuckDB at startup.
//
// NeighborsPath is optional: when the file is missing, the neighbor
// model is omitted from the registry instead of failing startup.
type CatalogConfig struct {
	ItemsPath        string `koanf:"items_path" validate:"required"`
	InteractionsPath string `koanf:"interactions_path" validate:"required"`
	ColdUsersPath    string `koanf:"cold_users_path" validate:"required"`
	NeighborsPath    string `koanf:"neighbors_path"`
	MaxMemory        string `koanf:"max_memory"`
	Threads          int    `koanf:"threads" validate:"min=0"`
}

// ModelsConfig holds recommendation model settings.
type ModelsConfig struct {
	// KRecs is the number of recommendations returned per request.
	KRecs int `koanf:"k_recs" validate:"min=1,max=1000"`

	// FixedItems is the constant list served by the fixed model.
	FixedItems []int64 `koanf:"fixed_items"`
}

// PolicyConfig holds the user validation policy values.
//
// Users above MaxUserID or whose ID is a multiple of ExcludedModulus
// are treated as unknown.
type PolicyConfig struct {
	MaxUserID       int64 `koanf:"max_user_id" validate:"min=1"`
	ExcludedModulus int64 `koanf:"excluded_modulus" validate:"min=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for consistency.
// Struct tag validation runs first; cross-field rules follow.
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}

	if len(c.Models.FixedItems) == 0 {
		return fmt.Errorf("models.fixed_items must contain at least one item")
	}
	for _, item := range c.Models.FixedItems {
		if item < 0 {
			return fmt.Errorf("models.fixed_items must not contain negative IDs (got %d)", item)
		}
	}

	return nil
}
