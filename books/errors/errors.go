package errors

import (
	"errors"
	"fmt"

	"github.com/qolzam/bookstore/internal/database/interfaces"
)

// Query runner specific errors
var (
	ErrConnectionFailed = errors.New("database connection failed")
	ErrQueryFailed      = errors.New("query failed")
	ErrValidationFailed = errors.New("validation failed")
)

// Kind classifies a QueryError
type Kind int

const (
	KindQuery Kind = iota
	KindConnection
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindValidation:
		return "validation"
	default:
		return "query"
	}
}

// Error codes
const (
	CodeConnectionFailed = "CONNECTION_FAILED"
	CodeQueryFailed      = "QUERY_FAILED"
	CodeValidationFailed = "VALIDATION_FAILED"
)

// QueryError represents a query runner error with additional context.
// Op names the step that failed, when there is one.
type QueryError struct {
	Kind    Kind
	Code    string
	Op      string
	Message string
	Details string
	Cause   error
}

func (e *QueryError) Error() string {
	prefix := e.Code
	if e.Op != "" {
		prefix = fmt.Sprintf("%s [%s]", e.Code, e.Op)
	}
	msg := e.Message
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match a QueryError against the package sentinels by kind.
func (e *QueryError) Is(target error) bool {
	switch target {
	case ErrConnectionFailed:
		return e.Kind == KindConnection
	case ErrQueryFailed:
		return e.Kind == KindQuery
	case ErrValidationFailed:
		return e.Kind == KindValidation
	}
	return false
}

// NewQueryError creates a new QueryError
func NewQueryError(kind Kind, code, message string, cause error) *QueryError {
	return &QueryError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapConnectionError wraps a failure to reach or keep the database connection
func WrapConnectionError(err error) *QueryError {
	return NewQueryError(KindConnection, CodeConnectionFailed, "Database connection failed", err)
}

// WrapQueryError wraps a failure of the named step. Repository errors that
// report a lost connection are classified as connection errors.
func WrapQueryError(op string, err error) *QueryError {
	var qe *QueryError
	if errors.As(err, &qe) {
		if qe.Op == "" {
			qe.Op = op
		}
		return qe
	}

	var wrapped *QueryError
	if errors.Is(err, interfaces.ErrConnectionFailed) {
		wrapped = WrapConnectionError(err)
	} else {
		wrapped = NewQueryError(KindQuery, CodeQueryFailed, "Query failed", err)
	}
	wrapped.Op = op
	return wrapped
}

// WrapValidationError wraps an invalid input or configuration
func WrapValidationError(err error, details string) *QueryError {
	e := NewQueryError(KindValidation, CodeValidationFailed, "Validation failed", err)
	e.Details = details
	return e
}

// IsConnectionError reports whether err is a connection failure
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// IsQueryError reports whether err is a query failure
func IsQueryError(err error) bool {
	return errors.Is(err, ErrQueryFailed)
}

// IsValidationError reports whether err is a validation failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}
