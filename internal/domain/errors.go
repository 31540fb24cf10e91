package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEntryNotFound      = errors.New("entry not found")
	ErrInvalidEntry       = errors.New("invalid entry")
	ErrServiceUnavailable = errors.New("mod service unavailable")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrModNotFound        = errors.New("mod not found in catalog")
)

// ConvergenceError reports a pose index that could not be reached within the retry budget.
type ConvergenceError struct {
	Target  int
	MaxSeen int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("failed to change pose index to %d (max seen: %d)", e.Target, e.MaxSeen)
}
