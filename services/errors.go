package services

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindInvalidRequest      ErrorKind = "InvalidRequest"
	KindUpstreamUnavailable ErrorKind = "UpstreamUnavailable"
	KindUpstreamError       ErrorKind = "UpstreamError"
	KindModelNotFound       ErrorKind = "ModelNotFound"
	KindInternalError       ErrorKind = "InternalError"
)

const internalErrorMessage = "Internal Server Error"

// RelayError is the single error type that leaves the relay boundary.
// Message is safe to show to the user, Err keeps the underlying cause.
type RelayError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *RelayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

func NewInvalidRequest(message string) *RelayError {
	return &RelayError{Kind: KindInvalidRequest, Status: http.StatusBadRequest, Message: message}
}

func NewInternalError(err error) *RelayError {
	return &RelayError{Kind: KindInternalError, Status: http.StatusInternalServerError, Message: internalErrorMessage, Err: err}
}

// AsRelayError converts any error into a *RelayError, treating unknown
// errors as internal faults.
func AsRelayError(err error) *RelayError {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr
	}
	return NewInternalError(err)
}
