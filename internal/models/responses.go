// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

// Package models holds the wire types shared by the HTTP layer.
package models

// RecoResponse is the body of a successful GET /reco/{model_name}/{user_id}.
//
// Example:
//
//	{"user_id": 42, "items": [902, 317, 44]}
type RecoResponse struct {
	UserID int64   `json:"user_id"`
	Items  []int64 `json:"items"`
}

// ExplainResponse is the body of a successful
// GET /explain/{model_name}/{user_id}/{item_id}.
//
// P is a whole percentage in [0, 100].
//
// Example:
//
//	{"p": 66, "explanation": "The genres of the films you have watched match the recommendations by 66%"}
type ExplainResponse struct {
	P           int    `json:"p"`
	Explanation string `json:"explanation"`
}

// ErrorResponse is the standardized error envelope used by all endpoints.
//
// Example:
//
//	{
//	  "status": "error",
//	  "error": {"code": "USER_NOT_FOUND", "message": "User not found"}
//	}
type ErrorResponse struct {
	Status string    `json:"status"`
	Error  *APIError `json:"error"`
}

// APIError carries structured error details.
//
// Common error codes:
//   - AUTHENTICATION_ERROR: missing or invalid API key
//   - USER_NOT_FOUND: user rejected by the validation rules
//   - MODEL_NOT_FOUND: model name not in the registry
//   - VALIDATION_ERROR: malformed path parameters
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
