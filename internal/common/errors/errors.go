// Package errors provides the standardized error taxonomy for voice sessions.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Malformed input: empty text, missing item number.
	ErrCodeInvalidCommand     ErrorCode = "INVALID_COMMAND"
	ErrCodeMissingItemNumber  ErrorCode = "MISSING_ITEM_NUMBER"
	ErrCodeUnrecognizedSpeech ErrorCode = "UNRECOGNIZED_SPEECH"

	// Out-of-range references.
	ErrCodeItemOutOfRange ErrorCode = "ITEM_OUT_OF_RANGE"
	ErrCodeNavigationEnd  ErrorCode = "NAVIGATION_BOUNDARY"

	// Empty result sets.
	ErrCodeNoProducts ErrorCode = "NO_PRODUCTS"
	ErrCodeCartEmpty  ErrorCode = "CART_EMPTY"

	// Collaborator failures.
	ErrCodeCatalogUnavailable     ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeCatalogTimeout         ErrorCode = "CATALOG_TIMEOUT"
	ErrCodeCatalogInvalidRecord   ErrorCode = "CATALOG_INVALID_RECORD"
	ErrCodeCartPersistenceFailed  ErrorCode = "CART_PERSISTENCE_FAILED"
	ErrCodeCacheUnavailable       ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeDatabaseConnectionFail ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeSearchIndexNotFound    ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidCommandError creates a non-retryable malformed input error.
func NewInvalidCommandError(details string) *StandardError {
	return newError(ErrCodeInvalidCommand, "Command could not be understood", details, false, nil)
}

// NewMissingItemNumberError is raised when an item reference is required but absent.
func NewMissingItemNumberError(action string) *StandardError {
	return newError(ErrCodeMissingItemNumber, "Item number required", fmt.Sprintf("action: %s", action), false, nil)
}

// NewUnrecognizedSpeechError signals a listen timeout or empty transcription.
func NewUnrecognizedSpeechError() *StandardError {
	return newError(ErrCodeUnrecognizedSpeech, "Speech was not recognized", "", true, nil)
}

// NewItemOutOfRangeError reports an item reference outside 1..total.
func NewItemOutOfRangeError(item, total int) *StandardError {
	return newError(ErrCodeItemOutOfRange, "Item number out of range",
		fmt.Sprintf("item: %d, total: %d", item, total), false, nil).
		WithMetadata("item", item).
		WithMetadata("total", total)
}

// NewNavigationBoundaryError reports next/previous at the edge of the list.
func NewNavigationBoundaryError(direction string) *StandardError {
	return newError(ErrCodeNavigationEnd, "Navigation boundary reached", fmt.Sprintf("direction: %s", direction), false, nil)
}

// NewNoProductsError reports an empty result set.
func NewNoProductsError(query string) *StandardError {
	return newError(ErrCodeNoProducts, "No products available", fmt.Sprintf("query: %s", query), false, nil)
}

// NewCartEmptyError reports an operation that needs a non-empty cart.
func NewCartEmptyError(action string) *StandardError {
	return newError(ErrCodeCartEmpty, "Cart is empty", fmt.Sprintf("action: %s", action), false, nil)
}

// NewCatalogUnavailableError wraps a failing product source.
func NewCatalogUnavailableError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogUnavailable, fmt.Sprintf("Product source '%s' unavailable", source), errString(err), true, err)
}

// NewCatalogTimeoutError reports a product source exceeding its deadline.
func NewCatalogTimeoutError(source string, timeout time.Duration) *StandardError {
	return newError(ErrCodeCatalogTimeout, fmt.Sprintf("Product source '%s' timeout", source),
		fmt.Sprintf("search exceeded %s", timeout), true, nil)
}

// NewCatalogInvalidRecordError reports a product record rejected by schema validation.
func NewCatalogInvalidRecordError(details string) *StandardError {
	return newError(ErrCodeCatalogInvalidRecord, "Product record failed validation", details, false, nil)
}

// NewCartPersistenceFailedError wraps a cart store failure.
func NewCartPersistenceFailedError(op string, err error) *StandardError {
	return newError(ErrCodeCartPersistenceFailed, "Cart persistence failed",
		fmt.Sprintf("op: %s, error: %s", op, errString(err)), true, err)
}

// NewCacheUnavailableError wraps a redis cache failure.
func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Result cache unavailable", errString(err), true, err)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFail, "Database connection error", errString(err), true, err)
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return newError(ErrCodeSearchIndexNotFound, "Elasticsearch index not found", fmt.Sprintf("indexName: %s", indexName), false, nil)
}

// NewSessionNotFoundError reports an unknown session id.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Session not found", fmt.Sprintf("sessionId: %s", sessionID), false, nil)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errString(err), false, err)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Classification Helpers
// ==========================

// GetErrorCategory groups codes for metrics labels.
func GetErrorCategory(code ErrorCode) string {
	s := string(code)
	switch {
	case strings.HasPrefix(s, "CATALOG_"), strings.Contains(s, "INDEX"):
		return "catalog"
	case strings.HasPrefix(s, "CART_"):
		return "cart"
	case strings.Contains(s, "DATABASE"), strings.Contains(s, "CACHE"):
		return "storage"
	case code == ErrCodeItemOutOfRange, code == ErrCodeNavigationEnd, code == ErrCodeNoProducts:
		return "navigation"
	case code == ErrCodeInvalidCommand, code == ErrCodeMissingItemNumber, code == ErrCodeUnrecognizedSpeech:
		return "input"
	default:
		return "internal"
	}
}

// IsRetryable reports whether the user should be invited to try again.
func IsRetryable(err error) bool {
	if se, ok := AsStandardError(err); ok {
		return se.Retryable
	}
	return false
}

// AsStandardError unwraps err looking for a *StandardError.
func AsStandardError(err error) (*StandardError, bool) {
	for err != nil {
		if se, ok := err.(*StandardError); ok {
			return se, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
