package interfaces

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepositoryError_Error(t *testing.T) {
	err := NewRepositoryError("database connection failed", CodeConnectionFailed)
	assert.Equal(t, "database connection failed", err.Error())

	wrapped := WrapRepositoryError(CodeQueryFailed, "find failed", errors.New("socket closed"))
	assert.Equal(t, "find failed: socket closed", wrapped.Error())
}

func TestRepositoryError_MatchesSentinelByCode(t *testing.T) {
	cause := errors.New("server selection timeout")
	err := fmt.Errorf("connect: %w", WrapRepositoryError(CodeConnectionFailed, "failed to ping MongoDB", cause))

	assert.True(t, errors.Is(err, ErrConnectionFailed))
	assert.False(t, errors.Is(err, ErrNoDocuments))
	assert.True(t, errors.Is(err, cause))

	var repoErr *RepositoryError
	assert.True(t, errors.As(err, &repoErr))
	assert.Equal(t, CodeConnectionFailed, repoErr.Code)
}
