/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The derivation core is total: accessors and aggregates never fail. The
  only error paths are loading a dataset and resolving an id at the edges
  (API, CLI), and those are defined here.

ERROR CATEGORIES:
  1. Dataset errors - A record breaks a load-time rule (duplicate id, bad enum)
  2. Lookup errors  - The edges turn a "not found" lookup into ErrNotFound
  3. Source errors  - A configured dataset source cannot be opened

USAGE:
    if errors.Is(err, generic.ErrInvalidDataset) {
        var de *generic.DatasetError
        errors.As(err, &de) // de.Entity, de.ID, de.Field
    }

SEE ALSO:
  - transparency/store.go: Dataset validation producing DatasetError
  - api/handlers.go: Maps these errors onto HTTP statuses
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned at the edges when an id resolves to nothing.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDataset is returned when a dataset fails load-time validation.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrUnknownSource is returned for a dataset source kind we cannot open.
	ErrUnknownSource = errors.New("unknown dataset source")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DatasetError pinpoints the record and field that failed validation.
type DatasetError struct {
	Entity string
	ID     string
	Field  string
	Reason string
}

func (e *DatasetError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid %s record: %s %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %s: %s %s", e.Entity, e.ID, e.Field, e.Reason)
}

func (e *DatasetError) Unwrap() error {
	return ErrInvalidDataset
}

// NotFoundError names the missing record.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDataset) ||
		errors.Is(err, ErrUnknownSource)
}
