package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Process exit codes used by the CLI.
const (
	ExitGeneral     = 1
	ExitUsage       = 2
	ExitUnavailable = 3
)

// ErrorCode classifies a CLIError for JSON output and scripting.
type ErrorCode string

const (
	ErrCodeServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeOperationFailed      ErrorCode = "OPERATION_FAILED"
	ErrCodeUsage                ErrorCode = "USAGE_ERROR"
)

// CLIError is an error ready to be shown to a CLI user, with an exit code
// and an optional recovery suggestion.
type CLIError struct {
	Code       ErrorCode
	Message    string
	Details    string
	Suggestion string
	ExitCode   int
	Cause      error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	if e.Suggestion != "" {
		b.WriteString("\n\nSuggestion: ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

// Unwrap returns the client error the CLIError was built from, if any.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewServiceUnavailableError reports that the storefront API at endpoint
// could not be reached.
func NewServiceUnavailableError(endpoint string) *CLIError {
	return &CLIError{
		Code:       ErrCodeServiceUnavailable,
		Message:    ConnectivityMessage,
		Details:    fmt.Sprintf("Endpoint: %s", endpoint),
		Suggestion: "Verify the storefront API is running and STOREFRONT_API_BASE_URL points at it.",
		ExitCode:   ExitUnavailable,
	}
}

// NewAuthenticationError reports a rejected or missing access token.
func NewAuthenticationError(details string) *CLIError {
	return &CLIError{
		Code:       ErrCodeAuthenticationFailed,
		Message:    "Authentication failed",
		Details:    details,
		Suggestion: "Pass a valid token with --token or STOREFRONT_AUTH_ACCESS_TOKEN.",
		ExitCode:   ExitGeneral,
	}
}

// NewValidationError reports invalid input or configuration.
func NewValidationError(message, suggestion string) *CLIError {
	return &CLIError{
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		Details:    message,
		Suggestion: suggestion,
		ExitCode:   ExitUsage,
	}
}

// NewOperationError reports an operation the backend rejected.
func NewOperationError(message, suggestion string) *CLIError {
	return &CLIError{
		Code:       ErrCodeOperationFailed,
		Message:    "Operation failed",
		Details:    message,
		Suggestion: suggestion,
		ExitCode:   ExitGeneral,
	}
}

// NewUsageError reports incorrect command usage.
func NewUsageError(message string) *CLIError {
	return &CLIError{
		Code:       ErrCodeUsage,
		Message:    "Incorrect usage",
		Details:    message,
		Suggestion: "Run with --help for usage information.",
		ExitCode:   ExitUsage,
	}
}

// FromClientError maps a client-layer failure onto a CLIError. Connectivity
// failures become exit code 3, 401 and 403 responses become authentication
// errors, and everything else an operation error carrying the backend messages.
func FromClientError(endpoint string, err error) *CLIError {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}

	var out *CLIError
	var appErr *ApplicationError
	switch {
	case IsConnectivity(err):
		out = NewServiceUnavailableError(endpoint)
	case stderrors.As(err, &appErr) &&
		(appErr.StatusCode == http.StatusUnauthorized || appErr.StatusCode == http.StatusForbidden):
		out = NewAuthenticationError(strings.Join(appErr.Messages, "; "))
	default:
		out = NewOperationError(strings.Join(Messages(err), "; "), "")
	}
	out.Cause = err
	return out
}
