// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import "errors"

// Sentinel errors for registry operations.
var (
	ErrEntryNotFound   = errors.New("bibliography entry not found")
	ErrDuplicateNumber = errors.New("duplicate citation number")
	ErrInvalidNumber   = errors.New("citation number must be positive")
)
