package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in storage.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing country, exit date before entry date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would break identifier uniqueness,
// e.g. creating an entry whose caller-supplied ID is already taken.
var ErrConflict = errors.New("conflict")

// ErrParse is matched by errors.Is for every *ParseError.
var ErrParse = errors.New("parse error")

// ErrInvariant is matched by errors.Is for every *InvariantViolation.
var ErrInvariant = errors.New("invariant violation")

// ParseError reports a date string that is not a valid YYYY-MM-DD calendar date.
// EntryID identifies the offending entry so a rejected import can be fixed.
type ParseError struct {
	EntryID string
	Field   string
	Value   string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("entry %q: %s %q is not a valid date: %v", e.EntryID, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets callers test with errors.Is(err, domain.ErrParse).
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// InvariantViolation reports a caller contract violation inside the timeline
// core, such as resolving an entry that is not part of the supplied set.
// It indicates a programming error, not bad user input.
type InvariantViolation struct {
	Op      string
	EntryID string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: entry %q is not in the entry set", e.Op, e.EntryID)
}

func (e *InvariantViolation) Is(target error) bool { return target == ErrInvariant }
