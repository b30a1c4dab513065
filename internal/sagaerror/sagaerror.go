package sagaerror

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	// ErrDuplicateTransaction marks an idempotency violation: this participant
	// already processed the (order, transaction) pair. Non-retryable.
	ErrDuplicateTransaction ErrorCode = "DUPLICATE_TRANSACTION"
	// ErrValidation marks a payload or referenced-entity problem. Non-retryable.
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	// ErrNotFound marks a missing local record. Fatal on the forward path,
	// tolerated during compensation.
	ErrNotFound ErrorCode = "NOT_FOUND"
	// ErrTransport marks an unreachable store or message channel. The only
	// class of error allowed past the dispatch boundary.
	ErrTransport ErrorCode = "TRANSPORT_FAILURE"
)

type SagaError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e SagaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code ErrorCode, message string, details interface{}) SagaError {
	if details != nil {
		logrus.Error(details)
	}
	return SagaError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Is reports whether err carries the given error code.
func Is(err error, code ErrorCode) bool {
	var sagaErr SagaError
	if errors.As(err, &sagaErr) {
		return sagaErr.Code == code
	}
	return false
}

// Message returns the human-readable message of err, suitable for an
// envelope history entry.
func Message(err error) string {
	var sagaErr SagaError
	if errors.As(err, &sagaErr) {
		return sagaErr.Message
	}
	return err.Error()
}
