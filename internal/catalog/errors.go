// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema is matched by every *SchemaError via errors.Is.
var ErrSchema = errors.New("catalog schema error")

// SchemaError reports required columns missing from the catalog header.
type SchemaError struct {
	// Path is the catalog source, empty when parsed from a reader.
	Path string

	// Missing lists the required columns that were not found.
	Missing []string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("catalog missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("catalog %s missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
