// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

// Package api exposes the HTTP surface of the recommendation engine.
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/recserve/internal/auth"
	"github.com/tomtom215/recserve/internal/logging"
	"github.com/tomtom215/recserve/internal/metrics"
	"github.com/tomtom215/recserve/internal/models"
	"github.com/tomtom215/recserve/internal/service"
)

// Handler carries the dependencies of the HTTP handlers.
type Handler struct {
	svc     *service.Service
	gate    *auth.Gate
	keyName string
	logger  zerolog.Logger
}

// NewHandler creates the API handler set.
func NewHandler(svc *service.Service, gate *auth.Gate, keyName string) *Handler {
	if keyName == "" {
		keyName = "api_key"
	}
	return &Handler{
		svc:     svc,
		gate:    gate,
		keyName: keyName,
		logger:  logging.WithComponent("api"),
	}
}

// Authenticate is chi middleware that rejects requests carrying no
// matching credential in any of the accepted sources.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds := auth.ExtractCredentials(r, h.keyName)
		if err := h.gate.Authenticate(creds); err != nil {
			metrics.AuthFailuresTotal.Inc()
			h.logger.Warn().
				Str("path", sanitizeLogValue(r.URL.Path)).
				Str("remote_addr", r.RemoteAddr).
				Msg("Authentication failed")
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR",
				"Invalid or missing API key", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, "I am alive")
}

// GetReco handles GET /reco/{modelName}/{userID}
func (h *Handler) GetReco(w http.ResponseWriter, r *http.Request) {
	modelName := chi.URLParam(r, "modelName")

	userID, err := pathInt64(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"user_id must be an integer", nil)
		return
	}

	items, err := h.svc.GetRecommendations(r.Context(), modelName, userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	if items == nil {
		items = []int64{}
	}

	respondJSON(w, http.StatusOK, &models.RecoResponse{
		UserID: userID,
		Items:  items,
	})
}

// Explain handles GET /explain/{modelName}/{userID}/{itemID}
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	modelName := chi.URLParam(r, "modelName")

	userID, err := pathInt64(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"user_id must be an integer", nil)
		return
	}

	itemID, err := pathInt64(chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"item_id must be an integer", nil)
		return
	}

	expl, err := h.svc.Explain(r.Context(), modelName, userID, itemID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.ExplainResponse{
		P:           expl.P,
		Explanation: expl.Text,
	})
}

// respondServiceError maps domain errors onto HTTP error responses.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	case errors.Is(err, service.ErrModelNotFound):
		respondError(w, http.StatusNotFound, "MODEL_NOT_FOUND", "Model not found", nil)
	default:
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Request failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", err)
	}
}
