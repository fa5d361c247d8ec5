package domain

import (
	"fmt"
	"strings"
)

// Error types for consistent error handling across the service.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates the request payload failed schema validation.
// Messages holds one entry per offending field.
type ErrValidation struct {
	Messages []string
}

func (e *ErrValidation) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// ErrDomainRule indicates an entity invariant would be broken.
type ErrDomainRule struct {
	Reason string
}

func (e *ErrDomainRule) Error() string {
	return e.Reason
}

// ErrBusinessRule indicates an operation is refused by a business rule
// that is not an entity invariant (e.g. deleting a category still in use).
type ErrBusinessRule struct {
	Reason string
}

func (e *ErrBusinessRule) Error() string {
	return e.Reason
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// when returns a domain rule violation with reason if cond holds.
func when(cond bool, reason string) error {
	if cond {
		return &ErrDomainRule{Reason: reason}
	}
	return nil
}
