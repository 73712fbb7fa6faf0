// Package report defines the persisted record of a type-checking run and the
// storage interface that backends implement.
//
// A report is written for every subtype query and tree validation performed
// by the engine when a store is configured. Reports are append-only; the only
// mutation is deletion by the retention pruner.
package report

import (
	"context"
	"fmt"
	"time"
)

// Operation names the kind of check a report describes.
const (
	OperationSubtype  = "subtype"
	OperationValidate = "validate"
)

// Record is a single check outcome.
type Record struct {
	// ID uniquely identifies the record.
	ID string `json:"id"`

	// RunID groups the records produced by one CLI invocation or watch session.
	RunID string `json:"run_id,omitempty"`

	// Operation is OperationSubtype or OperationValidate.
	Operation string `json:"operation"`

	// Grammar is the namespace of the registry the check ran against.
	Grammar string `json:"grammar"`

	// Subject describes what was checked: "A <: B" or a tree file path.
	Subject string `json:"subject"`

	// OK is the boolean result. It is false when Error is set.
	OK bool `json:"ok"`

	// ErrorKind is the error category when the check failed with an error.
	ErrorKind string `json:"error_kind,omitempty"`

	// Error is the error message when the check failed with an error.
	Error string `json:"error,omitempty"`

	// Duration is how long the check took.
	Duration time.Duration `json:"duration"`

	// CreatedAt is when the check finished.
	CreatedAt time.Time `json:"created_at"`
}

// Query filters records. Zero-valued fields match everything.
type Query struct {
	StartTime *time.Time // CreatedAt >= StartTime
	EndTime   *time.Time // CreatedAt <= EndTime
	RunID     string
	Operation string
	Grammar   string
	OK        *bool

	// Limit caps the number of returned records. 0 means the backend default.
	Limit int

	// Offset skips records for pagination.
	Offset int

	// SortOrder is "asc" or "desc" on CreatedAt. Default: "desc".
	SortOrder string
}

// Matches reports whether r satisfies the query filters.
func (q *Query) Matches(r *Record) bool {
	if q == nil {
		return true
	}
	if q.StartTime != nil && r.CreatedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.CreatedAt.After(*q.EndTime) {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.Operation != "" && r.Operation != q.Operation {
		return false
	}
	if q.Grammar != "" && r.Grammar != q.Grammar {
		return false
	}
	if q.OK != nil && r.OK != *q.OK {
		return false
	}
	return true
}

// Ascending reports whether results are ordered oldest first.
func (q *Query) Ascending() bool {
	return q != nil && (q.SortOrder == "asc" || q.SortOrder == "ASC")
}

// Storage persists and retrieves records. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns the records matching the query.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the query.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes the records matching the query and returns how many were removed.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases backend resources.
	Close() error
}

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string // "memory", "sqlite"
	Operation string // "store", "query", "delete", ...
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
