// Package apperrors holds the error kinds shared by the domain services.
//
// NotFoundError means a referenced id has no backing record. BusinessRuleError
// means the input violates a domain rule. Both match their sentinel through
// errors.Is, so callers can branch on the kind without caring about details.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrEntityNotFound = errors.New("entity not found")
	ErrBusinessRule   = errors.New("business rule violation")

	// ErrConcurrentModification is returned when a compare-and-set update lost
	// a race against another writer.
	ErrConcurrentModification = errors.New("concurrent modification")
)

type NotFoundError struct {
	Entity string
	ID     string
}

func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with ID %q", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrEntityNotFound
}

type BusinessRuleError struct {
	Rule string
}

func BusinessRule(format string, args ...any) *BusinessRuleError {
	return &BusinessRuleError{Rule: fmt.Sprintf(format, args...)}
}

func (e *BusinessRuleError) Error() string {
	return e.Rule
}

func (e *BusinessRuleError) Is(target error) bool {
	return target == ErrBusinessRule
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrBusinessRule)
}

// ValidatePeriod checks that month is in [1,12] and year is not negative.
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return BusinessRule("invalid month %d: must be between 1 and 12", month)
	}
	if year < 0 {
		return BusinessRule("invalid year %d: must not be negative", year)
	}
	return nil
}
