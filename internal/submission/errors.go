// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submission

import "errors"

// Sentinel errors for the submission workflow.
var (
	// ErrInvalidTransition is returned for a move the state table forbids.
	ErrInvalidTransition = errors.New("invalid workflow transition")

	// ErrSubmissionNotAllowed is returned when Submit is called without a
	// human report and a valid assignment code.
	ErrSubmissionNotAllowed = errors.New("submission not allowed: requires a human score and a valid assignment code")

	// ErrSubmissionTransport wraps a failed call to the submission service.
	ErrSubmissionTransport = errors.New("submission service unreachable")

	// ErrSubmissionRejected wraps an error message returned by the service.
	ErrSubmissionRejected = errors.New("submission rejected")
)
