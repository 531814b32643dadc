// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/guanl20/Blocktrust/internal/repository"
)

// Error taxonomy surfaced to callers. Every failure returned by the ledger
// services wraps exactly one of these.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrHalted       = errors.New("ledger is paused")
	ErrValidation   = errors.New("validation failed")
)

func unauthorized(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// invalidRequest keeps the validator error reachable through errors.As so
// handlers can render field details.
func invalidRequest(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// translate maps storage errors onto the service taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
