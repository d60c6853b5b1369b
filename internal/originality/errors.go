// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package originality

import "errors"

// Sentinel errors for scoring operations.
var (
	// ErrInsufficientContent is returned before any network call when the
	// text has fewer than MinWords words.
	ErrInsufficientContent = errors.New("insufficient content: write at least 10 words")

	// ErrClassifierUnavailable wraps every failure of the remote classifier.
	ErrClassifierUnavailable = errors.New("text classifier unavailable")
)
