// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assignment

import "errors"

// ErrInvalidAssignmentCode marks a code the service rejected or could not
// check. It is reported to the user and never blocks editing.
var ErrInvalidAssignmentCode = errors.New("invalid assignment code")
