// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import "errors"

var (
	// ErrNotReady is returned before the first snapshot has been installed.
	ErrNotReady = errors.New("recommendation index not ready")

	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrIndexMismatch is returned when encoder output does not line up with the catalog.
	ErrIndexMismatch = errors.New("embedding index does not match catalog")
)
