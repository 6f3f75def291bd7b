package errors

import (
	"context"
	"time"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// ErrorHandler turns any failure into a sentence that can be spoken back.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err, logs it and returns the spoken message plus the
// normalized error.
func (h *ErrorHandler) Handle(ctx context.Context, sessionID string, err error) (string, *StandardError) {
	stdErr := h.normalizeError(ctx, err)
	h.logError(sessionID, stdErr)
	return UserMessage(stdErr), stdErr
}

func (h *ErrorHandler) normalizeError(ctx context.Context, err error) *StandardError {
	if se, ok := AsStandardError(err); ok {
		return se
	}
	if ctx != nil && ctx.Err() == context.DeadlineExceeded {
		return NewCatalogTimeoutError("unknown", 0)
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   errString(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func (h *ErrorHandler) logError(sessionID string, stdErr *StandardError) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"sessionId":     sessionID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if stdErr.Code == ErrCodeInternal {
		h.logger.Error("command failed", fields)
		return
	}
	h.logger.Warn("command failed", fields)
}

// UserMessage maps an error code to a spoken-friendly sentence. Raw codes and
// stack traces never reach the user.
func UserMessage(err *StandardError) string {
	if err == nil {
		return ""
	}
	switch err.Code {
	case ErrCodeInvalidCommand, ErrCodeUnrecognizedSpeech:
		return "Sorry, I didn't catch that. Please say it again, or say help to hear what I can do."
	case ErrCodeMissingItemNumber:
		return "Please tell me the item number, for example: item 2."
	case ErrCodeItemOutOfRange:
		return "That item number is not available. Please choose a number from the current results."
	case ErrCodeNoProducts:
		return "No products available. Please search for something first."
	case ErrCodeCartEmpty:
		return "Your cart is empty. Add some items first."
	case ErrCodeCatalogUnavailable, ErrCodeCatalogTimeout, ErrCodeSearchIndexNotFound:
		return "Sorry, I couldn't reach the stores right now. Please try your search again in a moment."
	case ErrCodeCartPersistenceFailed, ErrCodeCacheUnavailable, ErrCodeDatabaseConnectionFail:
		return "Your cart was updated, but I couldn't save it. It will be kept for this session."
	default:
		if err.Retryable {
			return "Sorry, something went wrong. Please try again."
		}
		return "Sorry, something went wrong while handling that. Please try a different command."
	}
}
