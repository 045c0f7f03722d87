// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/recserve/internal/logging"
	"github.com/tomtom215/recserve/internal/metrics"
)

// recoGenreDepth caps how many of the highest-ranked recommendation
// genres take part in the overlap.
const recoGenreDepth = 10

// Edge case explanations.
const (
	explanationNoItem   = "item not in recommendations"
	explanationColdUser = "cold user, popularity-only"
)

// Explanation is the outcome of explaining one recommended item.
type Explanation struct {
	// P is the genre overlap percentage, a whole number in [0, 100].
	P int

	// Text is the human-readable explanation.
	Text string
}

// Explain answers why itemID was recommended to userID by the named model.
//
// The user and model pass the same validation as GetRecommendations.
// The overlap percentage compares the genres of the user's full history
// against the top ranked genres of the model's current recommendation
// list for that user.
func (s *Service) Explain(ctx context.Context, modelName string, userID, itemID int64) (Explanation, error) {
	model, err := s.resolve(modelName, userID)
	if err != nil {
		return Explanation{}, err
	}

	recos, err := model.Predict(ctx, userID, s.cfg.KRecs)
	if err != nil {
		return Explanation{}, fmt.Errorf("model %s failed to predict for user %d: %w", modelName, userID, err)
	}

	expl, err := s.explainItem(ctx, userID, itemID, recos)
	if err != nil {
		return Explanation{}, err
	}

	metrics.RecordExplanation(expl.P)
	logging.Ctx(ctx).Info().
		Str("model", modelName).
		Int64("user_id", userID).
		Int64("item_id", itemID).
		Int("percentage", expl.P).
		Msg("explanation served")

	return expl, nil
}

// explainItem computes the explanation for one item against a
// recommendation list.
func (s *Service) explainItem(ctx context.Context, userID, itemID int64, recos []int64) (Explanation, error) {
	if !containsItem(recos, itemID) {
		return Explanation{P: 0, Text: explanationNoItem}, nil
	}

	cold, err := s.catalog.IsColdUser(ctx, userID)
	if err != nil {
		return Explanation{}, fmt.Errorf("failed to check cold status of user %d: %w", userID, err)
	}
	if cold {
		return Explanation{P: 0, Text: explanationColdUser}, nil
	}

	history, err := s.catalog.ItemsInteractedBy(ctx, userID)
	if err != nil {
		return Explanation{}, fmt.Errorf("failed to fetch history of user %d: %w", userID, err)
	}

	historyGenres, err := s.genreRanking(ctx, history)
	if err != nil {
		return Explanation{}, err
	}
	recoGenres, err := s.genreRanking(ctx, recos)
	if err != nil {
		return Explanation{}, err
	}

	p := overlapPercentage(historyGenres, recoGenres)
	return Explanation{
		P:    p,
		Text: fmt.Sprintf("The genres of the films you have watched match the recommendations by %d%%", p),
	}, nil
}

// genreRanking counts genre occurrences across the given items and
// returns the genres ordered by descending count. Ties keep discovery
// order: the order in which a genre was first seen while walking the
// item list.
func (s *Service) genreRanking(ctx context.Context, items []int64) ([]string, error) {
	counts := make(map[string]int)
	var order []string

	for _, itemID := range items {
		genres, err := s.catalog.GenresOf(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch genres of item %d: %w", itemID, err)
		}
		for _, g := range genres {
			if _, seen := counts[g]; !seen {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	return order, nil
}

// overlapPercentage intersects the user's history genres with the top
// ranked recommendation genres and scales by the total number of
// distinct recommendation genres.
//
// The intersection preserves the history ordering. The denominator is
// deliberately all distinct recommendation genres, not just the top
// ranked slice, so the percentage understates overlap for genre-rich
// recommendation lists. An empty recommendation genre set yields 0.
func overlapPercentage(historyGenres, recoGenres []string) int {
	if len(recoGenres) == 0 {
		return 0
	}

	top := recoGenres
	if len(top) > recoGenreDepth {
		top = top[:recoGenreDepth]
	}

	return len(intersectGenres(historyGenres, top)) * 100 / len(recoGenres)
}

// intersectGenres returns the history genres that also appear in top,
// preserving the history ordering.
func intersectGenres(historyGenres, top []string) []string {
	topSet := make(map[string]struct{}, len(top))
	for _, g := range top {
		topSet[g] = struct{}{}
	}

	var matched []string
	for _, g := range historyGenres {
		if _, ok := topSet[g]; ok {
			matched = append(matched, g)
		}
	}
	return matched
}

// containsItem reports whether items contains id.
func containsItem(items []int64, id int64) bool {
	for _, item := range items {
		if item == id {
			return true
		}
	}
	return false
}
