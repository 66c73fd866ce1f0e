package model

import (
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeInvalidQuery     = "INVALID_QUERY"
	ErrCodeInvalidTopN      = "INVALID_TOP_N"
	ErrCodeDataNotFound     = "DATA_NOT_FOUND"
	ErrCodeSchema           = "SCHEMA_ERROR"
	ErrCodeCacheDisabled    = "CACHE_DISABLED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidQuery = NewDomainError(ErrCodeInvalidQuery, "Aggregation query is invalid")
	ErrInvalidTopN  = NewDomainError(ErrCodeInvalidTopN, "Top-N size must be a positive integer")
)

// InvalidQueryError wraps ErrInvalidQuery with the offending detail.
func InvalidQueryError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// DataNotFoundError reports that the backing resource of a dataset is absent.
type DataNotFoundError struct {
	Dataset  Dataset
	Location string
	Err      error
}

func (e *DataNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s data not found at %s: %v", e.Dataset, e.Location, e.Err)
	}
	return fmt.Sprintf("%s data not found at %s", e.Dataset, e.Location)
}

func (e *DataNotFoundError) Unwrap() error {
	return e.Err
}

// SchemaError reports a missing column or a value of the wrong type.
// Row is the 1-based data row (header excluded); zero means the header itself.
type SchemaError struct {
	Dataset Dataset
	Column  string
	Row     int
	Reason  string
}

func (e *SchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s schema error: column %q: %s", e.Dataset, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s schema error: row %d, column %q: %s", e.Dataset, e.Row, e.Column, e.Reason)
}

// ReferentialIntegrityError describes a sale whose dish id has no menu entry.
// It is reported as a warning; the row is dropped and the computation proceeds.
type ReferentialIntegrityError struct {
	Row    int `json:"row"`
	DishID int `json:"dishId"`
}

func (e ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("sale row %d references unknown dish %d", e.Row, e.DishID)
}
