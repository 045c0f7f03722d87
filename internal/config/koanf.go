// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/recserve/internal/validation"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/recserve/config.yaml",
	"/etc/recserve/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8000,
			Host:              "0.0.0.0",
			Timeout:           30 * time.Second,
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Auth: AuthConfig{
			APIKey:     "",
			APIKeyName: "api_key",
		},
		Catalog: CatalogConfig{
			ItemsPath:        "/data/items.csv",
			InteractionsPath: "/data/interactions.csv",
			ColdUsersPath:    "/data/cold_user_ids.csv",
			NeighborsPath:    "/data/neighbors.csv",
			MaxMemory:        "512MB",
			Threads:          0, // 0 = use runtime.NumCPU()
		},
		Models: ModelsConfig{
			KRecs:      10,
			FixedItems: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		Policy: PolicyConfig{
			MaxUserID:       1_000_000,
			ExcludedModulus: 666,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence: ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// API_KEY -> auth.api_key, HTTP_PORT -> server.port, etc.
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// stringSlicePaths defines which config paths are parsed as comma-separated
// string slices when they arrive via environment variables.
var stringSlicePaths = []string{
	"server.cors_origins",
}

// int64SlicePaths defines which config paths are parsed as comma-separated
// integer slices when they arrive via environment variables.
var int64SlicePaths = []string{
	"models.fixed_items",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range stringSlicePaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := splitAndTrim(strVal)
		if len(parts) > 0 {
			if err := k.Set(path, parts); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}

	for _, path := range int64SlicePaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := splitAndTrim(strVal)
		ids := make([]int64, 0, len(parts))
		for _, p := range parts {
			id, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer %q in %s: %w", p, path, err)
			}
			ids = append(ids, id)
		}
		if len(ids) > 0 {
			if err := k.Set(path, ids); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}

	return nil
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return trimmed
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - API_KEY -> auth.api_key
//   - HTTP_PORT -> server.port
//   - K_RECS -> models.k_recs
//   - ITEMS_CSV -> catalog.items_path
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_port":           "server.port",
		"http_host":           "server.host",
		"http_timeout":        "server.timeout",
		"rate_limit_requests": "server.rate_limit_reqs",
		"rate_limit_window":   "server.rate_limit_window",
		"disable_rate_limit":  "server.rate_limit_disabled",
		"cors_origins":        "server.cors_origins",

		// Credential mappings
		"api_key":      "auth.api_key",
		"api_key_name": "auth.api_key_name",

		// Catalog mappings
		"items_csv":         "catalog.items_path",
		"interactions_csv":  "catalog.interactions_path",
		"cold_users_csv":    "catalog.cold_users_path",
		"neighbors_csv":     "catalog.neighbors_path",
		"duckdb_max_memory": "catalog.max_memory",
		"duckdb_threads":    "catalog.threads",

		// Model mappings
		"k_recs":      "models.k_recs",
		"fixed_items": "models.fixed_items",

		// Policy mappings
		"max_user_id":      "policy.max_user_id",
		"excluded_modulus": "policy.excluded_modulus",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them.
	// This prevents random environment variables from polluting config.
	return ""
}

// validateStruct runs tag-based validation over the full config tree.
func validateStruct(c *Config) error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	return nil
}
