// Package errors provides standardized error handling for the sync and
// notification batch jobs.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Snapshot fetch / decode
	ErrCodeFetchExhausted        ErrorCode = "FETCH_EXHAUSTED"
	ErrCodeSnapshotDecodeFailed  ErrorCode = "SNAPSHOT_DECODE_FAILED"
	ErrCodeSnapshotSchemaInvalid ErrorCode = "SNAPSHOT_SCHEMA_INVALID"

	// Staging / swap
	ErrCodeStagingCreateFailed ErrorCode = "STAGING_CREATE_FAILED"
	ErrCodeRecordLoadFailed    ErrorCode = "RECORD_LOAD_FAILED"
	ErrCodeSwapFailed          ErrorCode = "SWAP_FAILED"

	// Notification pipeline
	ErrCodeLedgerWriteFailed ErrorCode = "LEDGER_WRITE_FAILED"

	// Infrastructure
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewFetchExhaustedError is returned when every fetch strategy failed. The
// next scheduled run is the retry mechanism, so the cycle itself is not
// retried in-process.
func NewFetchExhaustedError(lastStrategy string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFetchExhausted,
		Message:   "All snapshot fetch strategies exhausted",
		Details:   fmt.Sprintf("lastStrategy: %s, error: %s", lastStrategy, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSnapshotDecodeFailedError creates a non-retryable payload decode error.
func NewSnapshotDecodeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotDecodeFailed,
		Message:   "Snapshot payload is not well-formed JSON",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSnapshotSchemaInvalidError creates a non-retryable schema validation error.
func NewSnapshotSchemaInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotSchemaInvalid,
		Message:   "Snapshot payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStagingCreateFailedError creates a retryable staging area error.
func NewStagingCreateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStagingCreateFailed,
		Message:   "Failed to recreate the staging table",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordLoadFailedError creates a per-record staging error. It is counted
// and logged but never aborts the batch.
func NewRecordLoadFailedError(formNumber string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordLoadFailed,
		Message:   "Failed to stage application record",
		Details:   fmt.Sprintf("formNumber: %s, error: %s", formNumber, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSwapFailedError marks a failed rename sequence. Staging data is
// quarantined and an operator alert is raised.
func NewSwapFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSwapFailed,
		Message:   "Atomic table swap failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLedgerWriteFailedError creates a retryable ledger insert error.
func NewLedgerWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLedgerWriteFailed,
		Message:   "Failed to record SMS failure",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("query: %s, error: %s", query, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsCode reports whether err is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == code
}

