package apperrors

import (
	"errors"
)

// Wrap creates a classified error.
func Wrap(class ErrorClass, operation string, err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	return &ClassifiedError{
		Class:     class,
		Operation: operation,
		Err:       err,
		Context:   make(map[string]any),
	}
}

// New creates a new classified error with a message.
func New(class ErrorClass, operation string, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]any),
	}
}

// WithContext adds context to a classified error.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	if e == nil {
		return nil
	}
	if e.Context == nil {
		e.Context = make(map[string]any)
	}

	e.Context[key] = value

	return e
}

// For sets the entity the error refers to.
func (e *ClassifiedError) For(messageFor string) *ClassifiedError {
	if e == nil {
		return nil
	}
	e.MessageFor = messageFor
	return e
}

// WrapWithMessage wraps err and sets a message. A nil err yields a plain classified error.
func WrapWithMessage(
	class ErrorClass,
	operation string,
	message string,
	err error,
) *ClassifiedError {
	if err == nil {
		return New(class, operation, message)
	}

	classified := Wrap(class, operation, err)

	classified.Message = message

	return classified
}

// GetClass extracts the error class from an error.
func GetClass(err error) ErrorClass {
	if err == nil {
		return ErrClassUnknown
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}

	return ErrClassUnknown
}

// GetOperation extracts the operation from an error.
func GetOperation(err error) string {
	if err == nil {
		return ""
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Operation
	}

	return ""
}

// GetContext extracts context from an error.
func GetContext(err error) map[string]any {
	if err == nil {
		return nil
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Context
	}

	return nil
}

// LoadError builds a LOAD error for the given source.
func LoadError(source string, message string, err error) *ClassifiedError {
	return WrapWithMessage(ErrClassLoad, "load_dataset", message, err).For(source)
}

// EmptyAggregation builds an EMPTY_AGGREGATION error for the named aggregate.
func EmptyAggregation(aggregate string) *ClassifiedError {
	return New(ErrClassEmptyAggregation, aggregate, "no eligible rows")
}

// MissingField builds a MISSING_FIELD error for one row.
func MissingField(field string, row int) *ClassifiedError {
	return New(ErrClassMissingField, "read_field", "value missing").
		For(field).
		WithContext("row", row)
}

// Validation builds a VALIDATION error.
func Validation(operation string, message string, value string) *ClassifiedError {
	return New(ErrClassValidation, operation, message).For(value)
}
