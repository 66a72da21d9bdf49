package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so cloned sentinels still compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	// Collaborator failures.
	ErrNetworkFailure  = New("NETWORK_FAILURE", http.StatusBadGateway, "upstream request did not complete")
	ErrServerRejection = New("SERVER_REJECTION", http.StatusBadGateway, "upstream rejected the request")
	ErrDataShape       = New("DATA_SHAPE_ERROR", http.StatusBadGateway, "unexpected upstream response shape")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Rejection builds a SERVER_REJECTION error. Upstream client errors (4xx) keep
// their status so callers can distinguish not-found or conflict answers; server
// errors collapse into 502.
func Rejection(upstreamStatus int, detail string) *Error {
	status := http.StatusBadGateway
	if upstreamStatus >= 400 && upstreamStatus < 500 {
		status = upstreamStatus
	}
	message := detail
	if message == "" {
		message = fmt.Sprintf("%s (status %d)", ErrServerRejection.Message, upstreamStatus)
	}
	return &Error{Code: ErrServerRejection.Code, Status: status, Message: message}
}

// IsCollaboratorFailure reports whether err belongs to the upstream taxonomy.
func IsCollaboratorFailure(err error) bool {
	return errors.Is(err, ErrNetworkFailure) || errors.Is(err, ErrServerRejection) || errors.Is(err, ErrDataShape)
}
