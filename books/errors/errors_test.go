package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	bookErrors "github.com/qolzam/bookstore/books/errors"
	"github.com/qolzam/bookstore/internal/database/interfaces"
)

// Test QueryError functionality
func TestQueryError_Error(t *testing.T) {
	err := bookErrors.NewQueryError(bookErrors.KindQuery, "TEST_CODE", "Test message", nil)
	assert.Equal(t, "TEST_CODE: Test message", err.Error())

	cause := errors.New("socket closed")
	errWithCause := bookErrors.WrapQueryError("find by genre", cause)
	assert.Equal(t, "QUERY_FAILED [find by genre]: Query failed (caused by: socket closed)", errWithCause.Error())
}

func TestQueryError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	err := bookErrors.WrapQueryError("update one", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestWrapConnectionError(t *testing.T) {
	cause := errors.New("server selection timeout")
	err := bookErrors.WrapConnectionError(cause)

	assert.Equal(t, bookErrors.KindConnection, err.Kind)
	assert.Equal(t, bookErrors.CodeConnectionFailed, err.Code)
	assert.True(t, bookErrors.IsConnectionError(err))
	assert.False(t, bookErrors.IsQueryError(err))
	assert.False(t, bookErrors.IsValidationError(err))
}

func TestWrapQueryError_ClassifiesLostConnection(t *testing.T) {
	repoErr := interfaces.WrapRepositoryError(interfaces.CodeConnectionFailed, "find failed", errors.New("connection reset"))
	err := bookErrors.WrapQueryError("find by author", repoErr)

	assert.Equal(t, bookErrors.KindConnection, err.Kind)
	assert.Equal(t, "find by author", err.Op)
	assert.True(t, bookErrors.IsConnectionError(fmt.Errorf("run: %w", err)))
}

func TestWrapQueryError_KeepsExistingQueryError(t *testing.T) {
	inner := bookErrors.WrapValidationError(errors.New("page must be at least 1"), "page=0")
	err := bookErrors.WrapQueryError("paginate page 1", inner)

	assert.Same(t, inner, err)
	assert.Equal(t, "paginate page 1", err.Op)
	assert.True(t, bookErrors.IsValidationError(err))
}

func TestWrapValidationError(t *testing.T) {
	originalErr := errors.New("field required")
	details := "MONGODB_DATABASE is required"
	wrappedErr := bookErrors.WrapValidationError(originalErr, details)

	assert.Equal(t, bookErrors.CodeValidationFailed, wrappedErr.Code)
	assert.Equal(t, "Validation failed", wrappedErr.Message)
	assert.Equal(t, details, wrappedErr.Details)
	assert.Equal(t, originalErr, wrappedErr.Cause)
	assert.True(t, bookErrors.IsValidationError(wrappedErr))
	assert.Equal(t, "VALIDATION_FAILED: Validation failed: MONGODB_DATABASE is required (caused by: field required)", wrappedErr.Error())
}

func TestQueryError_ErrorIncludesDetailsWithoutCause(t *testing.T) {
	err := bookErrors.WrapValidationError(nil, "configuration is required")

	assert.Equal(t, "VALIDATION_FAILED: Validation failed: configuration is required", err.Error())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "query", bookErrors.KindQuery.String())
	assert.Equal(t, "connection", bookErrors.KindConnection.String())
	assert.Equal(t, "validation", bookErrors.KindValidation.String())
}
