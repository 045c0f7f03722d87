// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitGenres(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "Action", []string{"Action"}},
		{"multiple", "Action,Comedy,Drama", []string{"Action", "Comedy", "Drama"}},
		{"spaces stripped", " Action , Comedy ", []string{"Action", "Comedy"}},
		{"empty tokens dropped", "Action,,Comedy,", []string{"Action", "Comedy"}},
		{"empty string", "", nil},
		{"only commas", ",,,", []string{}},
		{"inner spaces kept", "Science Fiction, Film Noir", []string{"Science Fiction", "Film Noir"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitGenres(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitGenres(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestQuoteLiteral(t *testing.T) {
	if got := quoteLiteral("/data/items.csv"); got != "'/data/items.csv'" {
		t.Errorf("unexpected literal: %s", got)
	}
	if got := quoteLiteral("it's.csv"); got != "'it''s.csv'" {
		t.Errorf("expected escaped quote, got: %s", got)
	}
}

// writeTestCSVs lays out a small catalog in a temp dir.
func writeTestCSVs(t *testing.T, withNeighbors bool) Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		return path
	}

	cfg := Config{
		ItemsPath: write("items.csv",
			"item_id,genres\n"+
				"1,\"Action, Comedy\"\n"+
				"2,Drama\n"+
				"3,\"Action, Drama\"\n"+
				"4,\n"),
		InteractionsPath: write("interactions.csv",
			"user_id,item_id\n"+
				"7,1\n"+
				"7,2\n"+
				"8,2\n"+
				"9,2\n"+
				"9,3\n"),
		ColdUsersPath: write("cold_user_ids.csv",
			"user_id\n42\n"),
		NeighborsPath: filepath.Join(dir, "neighbors.csv"),
	}

	if withNeighbors {
		write("neighbors.csv",
			"user_id,item_id,rank\n"+
				"7,3,1\n"+
				"7,1,2\n")
	}

	return cfg
}

func TestStore_EndToEnd(t *testing.T) {
	cfg := writeTestCSVs(t, true)
	ctx := context.Background()

	store, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	if !store.HasNeighbors() {
		t.Error("expected neighbors table to be loaded")
	}

	genres, err := store.GenresOf(ctx, 1)
	if err != nil {
		t.Fatalf("GenresOf failed: %v", err)
	}
	if !reflect.DeepEqual(genres, []string{"Action", "Comedy"}) {
		t.Errorf("unexpected genres: %v", genres)
	}

	// Unknown item yields empty genres, no error.
	genres, err = store.GenresOf(ctx, 999)
	if err != nil {
		t.Fatalf("GenresOf for unknown item failed: %v", err)
	}
	if len(genres) != 0 {
		t.Errorf("expected no genres for unknown item, got %v", genres)
	}

	history, err := store.ItemsInteractedBy(ctx, 7)
	if err != nil {
		t.Fatalf("ItemsInteractedBy failed: %v", err)
	}
	if !reflect.DeepEqual(history, []int64{1, 2}) {
		t.Errorf("expected history [1 2] in file order, got %v", history)
	}

	cold, err := store.IsColdUser(ctx, 42)
	if err != nil {
		t.Fatalf("IsColdUser failed: %v", err)
	}
	if !cold {
		t.Error("expected user 42 to be cold")
	}
	cold, err = store.IsColdUser(ctx, 7)
	if err != nil {
		t.Fatalf("IsColdUser failed: %v", err)
	}
	if cold {
		t.Error("expected user 7 to be warm")
	}

	// Item 2 has three interactions, items 1 and 3 one each.
	top, err := store.TopItems(ctx, 2)
	if err != nil {
		t.Fatalf("TopItems failed: %v", err)
	}
	if !reflect.DeepEqual(top, []int64{2, 1}) {
		t.Errorf("expected top items [2 1], got %v", top)
	}

	neighbors, err := store.NeighborItems(ctx, 7)
	if err != nil {
		t.Fatalf("NeighborItems failed: %v", err)
	}
	if !reflect.DeepEqual(neighbors, []int64{3, 1}) {
		t.Errorf("expected neighbors [3 1] by rank, got %v", neighbors)
	}
}

func TestStore_MissingNeighborsFile(t *testing.T) {
	cfg := writeTestCSVs(t, false)
	ctx := context.Background()

	store, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("expected open to succeed without neighbors file: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.HasNeighbors() {
		t.Error("expected HasNeighbors to be false")
	}
	if _, err := store.NeighborItems(ctx, 7); err == nil {
		t.Error("expected NeighborItems to fail without neighbors table")
	}
}

func TestStore_MissingRequiredFile(t *testing.T) {
	cfg := writeTestCSVs(t, false)
	cfg.ItemsPath = filepath.Join(t.TempDir(), "absent.csv")

	if _, err := Open(context.Background(), cfg); err == nil {
		t.Error("expected open to fail for missing items file")
	}
}
