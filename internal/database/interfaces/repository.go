// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package interfaces

import (
	"context"
	"fmt"
	"time"
)

// Repository defines the interface for database operations.
// Every method issues exactly one database call; callers receive from the
// returned channel before issuing the next call.
type Repository interface {
	// Basic CRUD operations
	SaveMany(ctx context.Context, collectionName string, data []interface{}) <-chan RepositoryResult
	Find(ctx context.Context, collectionName string, filter interface{}, opts *FindOptions) <-chan QueryResult
	FindOne(ctx context.Context, collectionName string, filter interface{}) <-chan SingleResult
	Update(ctx context.Context, collectionName string, filter interface{}, data interface{}) <-chan UpdateResult
	Delete(ctx context.Context, collectionName string, filter interface{}) <-chan DeleteResult
	DeleteMany(ctx context.Context, collectionName string, filter interface{}) <-chan DeleteResult

	// Aggregation operations
	Count(ctx context.Context, collectionName string, filter interface{}) <-chan CountResult
	Aggregate(ctx context.Context, collectionName string, pipeline interface{}) <-chan QueryResult

	// Index operations
	CreateIndex(ctx context.Context, collectionName string, keys interface{}) <-chan IndexCreateResult
	ListIndexes(ctx context.Context, collectionName string) <-chan IndexResult

	// Query plan inspection
	Explain(ctx context.Context, collectionName string, filter interface{}, verbosity string) <-chan ExplainResult

	// Connection management
	Close() error
}

// FindOptions represents options for find operations.
// Sort and Select take ordered documents (e.g. bson.D) so compound sorts keep their key order.
type FindOptions struct {
	Limit  *int64
	Skip   *int64
	Sort   interface{}
	Select interface{}
}

// RepositoryResult represents the result of a repository operation
type RepositoryResult struct {
	Result interface{}
	Error  error
}

// UpdateResult represents the result of an update operation
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	Error         error
}

// DeleteResult represents the result of a delete operation
type DeleteResult struct {
	DeletedCount int64
	Error        error
}

// QueryResult represents a query result cursor
type QueryResult interface {
	Next() bool
	Decode(v interface{}) error
	All(v interface{}) error
	Close()
	Error() error
}

// SingleResult represents a single document result
type SingleResult interface {
	Decode(v interface{}) error
	Error() error
	NoResult() bool
}

// CountResult represents the result of a count operation
type CountResult struct {
	Count int64
	Error error
}

// IndexCreateResult represents the result of an index creation
type IndexCreateResult struct {
	Name  string
	Error error
}

// IndexResult represents the result of index operations
type IndexResult struct {
	Indexes []IndexInfo
	Error   error
}

// IndexInfo represents information about an index
type IndexInfo struct {
	Name   string
	Keys   map[string]interface{}
	Unique bool
}

// ExecutionStats is the summary of an executionStats explain section.
type ExecutionStats struct {
	NReturned           int64 `json:"nReturned" bson:"nReturned"`
	ExecutionTimeMillis int64 `json:"executionTimeMillis" bson:"executionTimeMillis"`
	TotalKeysExamined   int64 `json:"totalKeysExamined" bson:"totalKeysExamined"`
	TotalDocsExamined   int64 `json:"totalDocsExamined" bson:"totalDocsExamined"`
}

// ExplainResult represents the result of an explain operation.
// Document holds the full executionStats section as indented JSON.
type ExplainResult struct {
	Stats    ExecutionStats
	Document string
	Error    error
}

// VerbosityExecutionStats runs the winning plan and reports its execution statistics
const VerbosityExecutionStats = "executionStats"

// Database configuration constants
const (
	DatabaseTypeMongoDB = "mongodb"
)

// Repository error codes
const (
	CodeNotFound         = "NOT_FOUND"
	CodeDuplicateKey     = "DUPLICATE_KEY"
	CodeConnectionFailed = "CONNECTION_FAILED"
	CodeQueryFailed      = "QUERY_FAILED"
)

// Common errors
var (
	ErrNoDocuments      = NewRepositoryError("no documents found", CodeNotFound)
	ErrConnectionFailed = NewRepositoryError("database connection failed", CodeConnectionFailed)
)

// RepositoryError represents a repository specific error
type RepositoryError struct {
	Message string
	Code    string
	Cause   error
	Time    time.Time
}

func (e *RepositoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RepositoryError) Unwrap() error {
	return e.Cause
}

// Is matches repository errors by code so sentinels compare against wrapped instances.
func (e *RepositoryError) Is(target error) bool {
	t, ok := target.(*RepositoryError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(message, code string) *RepositoryError {
	return &RepositoryError{
		Message: message,
		Code:    code,
		Time:    time.Now(),
	}
}

// WrapRepositoryError creates a repository error carrying the driver error as its cause
func WrapRepositoryError(code, message string, cause error) *RepositoryError {
	err := NewRepositoryError(message, code)
	err.Cause = cause
	return err
}
