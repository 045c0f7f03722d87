// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

// Package catalog provides the read-only item and interaction store.
//
// The CSV inputs are loaded into in-memory DuckDB tables once at startup;
// all queries afterwards run against prepared statements. The store is
// safe for concurrent use.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // duckdb database/sql driver
	"github.com/rs/zerolog"

	"github.com/tomtom215/recserve/internal/logging"
	"github.com/tomtom215/recserve/internal/metrics"
)

// Config holds the CSV input paths and DuckDB tuning knobs.
type Config struct {
	ItemsPath        string
	InteractionsPath string
	ColdUsersPath    string
	NeighborsPath    string
	MaxMemory        string
	Threads          int
}

// Store is a read-only catalog backed by in-memory DuckDB tables.
type Store struct {
	db           *sql.DB
	logger       zerolog.Logger
	hasNeighbors bool
}

// Open loads the CSV inputs into an in-memory DuckDB database.
//
// The neighbors file is optional: when it is absent the store reports
// HasNeighbors() == false and NeighborItems returns an error. All other
// files are required and a missing one fails startup.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	for name, path := range map[string]string{
		"items":        cfg.ItemsPath,
		"interactions": cfg.InteractionsPath,
		"cold_users":   cfg.ColdUsersPath,
	} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("required %s file %s: %w", name, path, err)
		}
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "512MB"
	}

	connStr := fmt.Sprintf("?threads=%d&max_memory=%s&preserve_insertion_order=true",
		threads, maxMemory)
	db, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logging.WithComponent("catalog"),
	}

	if err := s.loadTables(ctx, cfg); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// loadTables materializes the CSV inputs as in-memory tables.
// The seq column on interactions preserves the original file ordering,
// which defines the discovery order used by the explanation engine.
func (s *Store) loadTables(ctx context.Context, cfg Config) error {
	// read_csv_auto does not accept bind parameters, so paths are
	// inlined as quoted SQL literals.
	statements := []struct {
		name string
		sql  string
	}{
		{
			"items",
			fmt.Sprintf(`CREATE TABLE items AS
			 SELECT item_id::BIGINT AS item_id, genres::VARCHAR AS genres
			 FROM read_csv_auto(%s, header=true)`, quoteLiteral(cfg.ItemsPath)),
		},
		{
			"interactions",
			fmt.Sprintf(`CREATE TABLE interactions AS
			 SELECT row_number() OVER () AS seq,
			        user_id::BIGINT AS user_id,
			        item_id::BIGINT AS item_id
			 FROM read_csv_auto(%s, header=true)`, quoteLiteral(cfg.InteractionsPath)),
		},
		{
			"cold_users",
			fmt.Sprintf(`CREATE TABLE cold_users AS
			 SELECT user_id::BIGINT AS user_id
			 FROM read_csv_auto(%s, header=true)`, quoteLiteral(cfg.ColdUsersPath)),
		},
	}

	for _, stmt := range statements {
		start := time.Now()
		_, err := s.db.ExecContext(ctx, stmt.sql)
		metrics.RecordCatalogQuery("load_"+stmt.name, time.Since(start), err)
		if err != nil {
			return fmt.Errorf("failed to load %s table: %w", stmt.name, err)
		}
	}

	if _, err := os.Stat(cfg.NeighborsPath); err == nil {
		start := time.Now()
		_, err := s.db.ExecContext(ctx,
			fmt.Sprintf(`CREATE TABLE neighbors AS
			 SELECT user_id::BIGINT AS user_id,
			        item_id::BIGINT AS item_id,
			        rank::BIGINT AS rank
			 FROM read_csv_auto(%s, header=true)`, quoteLiteral(cfg.NeighborsPath)))
		metrics.RecordCatalogQuery("load_neighbors", time.Since(start), err)
		if err != nil {
			return fmt.Errorf("failed to load neighbors from %s: %w", cfg.NeighborsPath, err)
		}
		s.hasNeighbors = true
	} else {
		s.logger.Warn().
			Str("path", cfg.NeighborsPath).
			Msg("neighbors file not found, neighbor model will be unavailable")
	}

	s.logger.Info().
		Bool("neighbors", s.hasNeighbors).
		Msg("catalog tables loaded")

	return nil
}

// GenresOf returns the genre tokens of an item in their stored order.
// Unknown items yield an empty slice.
func (s *Store) GenresOf(ctx context.Context, itemID int64) ([]string, error) {
	start := time.Now()
	var genres string
	err := s.db.QueryRowContext(ctx,
		`SELECT genres FROM items WHERE item_id = ?`, itemID).Scan(&genres)
	metrics.RecordCatalogQuery("genres_of", time.Since(start), ignoreNoRows(err))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query genres of item %d: %w", itemID, err)
	}

	return SplitGenres(genres), nil
}

// ItemsInteractedBy returns the user's full interaction history in
// file order, oldest first.
func (s *Store) ItemsInteractedBy(ctx context.Context, userID int64) ([]int64, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id FROM interactions WHERE user_id = ? ORDER BY seq`, userID)
	metrics.RecordCatalogQuery("items_interacted_by", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions of user %d: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	return scanItemIDs(rows)
}

// IsColdUser reports whether the user appears in the cold user list.
func (s *Store) IsColdUser(ctx context.Context, userID int64) (bool, error) {
	start := time.Now()
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM cold_users WHERE user_id = ?`, userID).Scan(&count)
	metrics.RecordCatalogQuery("is_cold_user", time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("failed to query cold status of user %d: %w", userID, err)
	}

	return count > 0, nil
}

// TopItems returns the k globally most interacted items, most popular
// first. Ties break on ascending item ID for a deterministic ordering.
func (s *Store) TopItems(ctx context.Context, k int) ([]int64, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id FROM interactions
		 GROUP BY item_id
		 ORDER BY count(*) DESC, item_id ASC
		 LIMIT ?`, k)
	metrics.RecordCatalogQuery("top_items", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query top items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanItemIDs(rows)
}

// NeighborItems returns the precomputed ranked item list for a user.
// An empty slice means the user has no precomputed neighbors.
func (s *Store) NeighborItems(ctx context.Context, userID int64) ([]int64, error) {
	if !s.hasNeighbors {
		return nil, errors.New("neighbors table not loaded")
	}

	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id FROM neighbors WHERE user_id = ? ORDER BY rank`, userID)
	metrics.RecordCatalogQuery("neighbor_items", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbors of user %d: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	return scanItemIDs(rows)
}

// HasNeighbors reports whether the neighbors table was loaded.
func (s *Store) HasNeighbors() bool {
	return s.hasNeighbors
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanItemIDs collects item IDs from a result set.
func scanItemIDs(rows *sql.Rows) ([]int64, error) {
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item ID: %w", err)
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// ignoreNoRows maps sql.ErrNoRows to nil so lookups of absent rows are
// not counted as query errors.
func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

// quoteLiteral wraps a string as a single-quoted SQL literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SplitGenres splits a raw genre string into clean tokens.
// Tokens are comma-separated; surrounding whitespace is stripped and
// empty tokens are dropped. Token order is preserved.
func SplitGenres(genres string) []string {
	if genres == "" {
		return nil
	}

	parts := strings.Split(genres, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
