// Package sentinel holds the storage-level facts that stores return and
// services translate into domain errors.
package sentinel

import "errors"

var (
	// ErrNotFound means no learner, citizen, job or report exists under the key.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a record with the same national ID is already stored.
	ErrConflict = errors.New("conflict")
)
