package apperrors

import (
	"errors"
	"strings"
)

// ErrorClass represents the category of an error.
type ErrorClass string

const (
	// ErrClassConfig represents configuration-related errors.
	ErrClassConfig ErrorClass = "CONFIG"
	// ErrClassLoad represents dataset loading errors. They are fatal at startup.
	ErrClassLoad ErrorClass = "LOAD"
	// ErrClassEmptyAggregation is returned when an aggregate has no eligible rows.
	ErrClassEmptyAggregation ErrorClass = "EMPTY_AGGREGATION"
	// ErrClassMissingField marks a row that lacks a value needed by a computation.
	ErrClassMissingField ErrorClass = "MISSING_FIELD"
	// ErrClassValidation represents validation-related errors.
	ErrClassValidation ErrorClass = "VALIDATION"
	// ErrClassRender represents chart and page rendering errors.
	ErrClassRender ErrorClass = "RENDER"
	// ErrClassUnknown represents unknown or unclassified errors.
	ErrClassUnknown ErrorClass = "UNKNOWN"
)

// Sentinels for errors.Is. A ClassifiedError matches the sentinel of its class.
var (
	ErrLoad             = errors.New("dataset could not be loaded")
	ErrEmptyAggregation = errors.New("no eligible rows for aggregation")
	ErrMissingField     = errors.New("required field is missing")
	ErrValidation       = errors.New("validation failed")
)

var classSentinels = map[ErrorClass]error{
	ErrClassLoad:             ErrLoad,
	ErrClassEmptyAggregation: ErrEmptyAggregation,
	ErrClassMissingField:     ErrMissingField,
	ErrClassValidation:       ErrValidation,
}

// ClassifiedError wraps an error with classification metadata.
type ClassifiedError struct {
	// Class represents the category of the error
	Class ErrorClass
	// Operation describes the operation that failed
	Operation string
	// Message describes the failed operation in more detail
	Message string
	// MessageFor identifies the entity the operation failed for (a file, a column, a view).
	MessageFor string
	// Err is the underlying error
	Err error
	// Context provides additional context about the error
	Context map[string]any
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	var bld strings.Builder
	bld.Grow(128)

	bld.WriteRune('[')
	bld.WriteString(string(e.Class))
	bld.WriteRune(']')

	if e.Operation != "" {
		bld.WriteRune(' ')
		bld.WriteString(e.Operation)
	}

	if e.Message != "" {
		bld.WriteRune(' ')
		bld.WriteString(e.Message)
	}

	if e.MessageFor != "" {
		bld.WriteString(" for: ")
		bld.WriteString(e.MessageFor)
	}

	if e.Err != nil {
		bld.WriteString(" Error: ")
		bld.WriteString(e.Err.Error())
	}
	return bld.String()
}

// Unwrap returns the wrapped error for errors.Is/As compatibility.
func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of this error's class.
func (e *ClassifiedError) Is(target error) bool {
	sentinel, ok := classSentinels[e.Class]
	return ok && sentinel == target
}
