// Recserve - Recommendation Serving and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recserve

package service

import "errors"

// Terminal error classes surfaced by the service layer.
// The HTTP layer maps both to 404 responses.
var (
	// ErrUserNotFound marks a user rejected by the validation rules.
	ErrUserNotFound = errors.New("user not found")

	// ErrModelNotFound marks a model name absent from the registry.
	ErrModelNotFound = errors.New("model not found")
)
