package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Derivation errors
	ErrMapping    = errors.New("category code outside mapping domain")
	ErrDomain     = errors.New("value outside bucketing domain")
	ErrEmptyInput = errors.New("empty input")

	// Test errors
	ErrInsufficientGroups = errors.New("insufficient groups for test")
	ErrEmptyGroup         = errors.New("declared level has no observations")
	ErrZeroVariance       = errors.New("zero within-group variance")
	ErrInvalidSpec        = errors.New("invalid test spec")

	// Source errors
	ErrLoad      = errors.New("dataset load failed")
	ErrNotLoaded = errors.New("no dataset loaded")

	// Lookup errors
	ErrNotFound = errors.New("not found")
)

// NoRow marks a FieldError not tied to an input row.
const NoRow = -1

// FieldError ties a domain error to the field and value that caused it.
type FieldError struct {
	Kind   error
	Field  string
	Value  interface{}
	Row    int
	Reason string
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%v: field %s value %v", e.Kind, e.Field, e.Value)
	if e.Row != NoRow {
		msg = fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// AtRow attaches the row index to err when it is a FieldError without one.
func AtRow(err error, row int) error {
	var fe *FieldError
	if errors.As(err, &fe) && fe.Row == NoRow {
		fe.Row = row
		return err
	}
	return fmt.Errorf("row %d: %w", row, err)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// Error constructors with context
func NewMappingError(field string, code int) error {
	return &FieldError{Kind: ErrMapping, Field: field, Value: code, Row: NoRow}
}

func NewDomainError(field string, value float64, reason string) error {
	return &FieldError{Kind: ErrDomain, Field: field, Value: value, Row: NoRow, Reason: reason}
}

func NewEmptyGroupError(factor, level string) error {
	return &FieldError{Kind: ErrEmptyGroup, Field: factor, Value: level, Row: NoRow}
}

func NewInsufficientGroupsError(factor string, reason string) error {
	return &FieldError{Kind: ErrInsufficientGroups, Field: factor, Value: nil, Row: NoRow, Reason: reason}
}

func NewInvalidSpecError(field string, value interface{}, reason string) error {
	return &FieldError{Kind: ErrInvalidSpec, Field: field, Value: value, Row: NoRow, Reason: reason}
}

func NewLoadError(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrLoad, source, err)
}

// Error checking helpers
func IsDerivationError(err error) bool {
	return errors.Is(err, ErrMapping) ||
		errors.Is(err, ErrDomain) ||
		errors.Is(err, ErrEmptyInput)
}

func IsTestError(err error) bool {
	return errors.Is(err, ErrInsufficientGroups) ||
		errors.Is(err, ErrEmptyGroup) ||
		errors.Is(err, ErrZeroVariance)
}

func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoad)
}
