// Package errors defines the storefront client's error taxonomy.
//
// Transport failures surface as ConnectivityError, non-2xx responses as
// ApplicationError, and misuse of a failed Result as InvalidStateError.
// CLIError carries an exit code and recovery suggestion for the command layer.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ConnectivityMessage is shown to users when the backend cannot be reached.
const ConnectivityMessage = "Unable to connect to the server. Please check your internet connection."

// UnknownErrorMessage is used when a failed response carries no recognizable error body.
const UnknownErrorMessage = "Unknown error"

// ConnectivityError reports that every attempt to reach the backend failed at
// the transport level. Error never includes the underlying transport error.
type ConnectivityError struct {
	URL      string
	Attempts int
	Cause    error
}

// NewConnectivityError wraps the last transport failure of a retry sequence.
func NewConnectivityError(url string, attempts int, cause error) *ConnectivityError {
	return &ConnectivityError{URL: url, Attempts: attempts, Cause: cause}
}

// Error implements the error interface.
func (e *ConnectivityError) Error() string {
	return ConnectivityMessage
}

// Unwrap exposes the transport error for logging and errors.Is checks.
func (e *ConnectivityError) Unwrap() error {
	return e.Cause
}

// ApplicationError reports a response that was delivered with a non-2xx status.
type ApplicationError struct {
	StatusCode int
	Messages   []string
}

// NewApplicationError builds an ApplicationError. An empty message list is
// replaced with UnknownErrorMessage.
func NewApplicationError(statusCode int, messages []string) *ApplicationError {
	if len(messages) == 0 {
		messages = []string{UnknownErrorMessage}
	}
	return &ApplicationError{StatusCode: statusCode, Messages: messages}
}

// Error joins the normalized messages with newlines.
func (e *ApplicationError) Error() string {
	return strings.Join(e.Messages, "\n")
}

// InvalidStateError reports access to the success value of a failed Result.
type InvalidStateError struct {
	Cause error
}

// Error implements the error interface.
func (e *InvalidStateError) Error() string {
	if e.Cause == nil {
		return "cannot get the value of a failed result"
	}
	return fmt.Sprintf("cannot get the value of a failed result: %v", e.Cause)
}

// Unwrap returns the failure the Result was holding.
func (e *InvalidStateError) Unwrap() error {
	return e.Cause
}

// IsConnectivity reports whether err is or wraps a ConnectivityError.
func IsConnectivity(err error) bool {
	var connErr *ConnectivityError
	return stderrors.As(err, &connErr)
}

// Messages flattens err into user-facing messages. ApplicationErrors keep
// their normalized list; anything else becomes a single message.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var appErr *ApplicationError
	if stderrors.As(err, &appErr) {
		return append([]string(nil), appErr.Messages...)
	}
	var connErr *ConnectivityError
	if stderrors.As(err, &connErr) {
		return []string{ConnectivityMessage}
	}
	return []string{err.Error()}
}
