// Package result provides the two outcome conventions used by the resource
// clients: Result for queries and CommandResult for mutations.
package result

import (
	stderrors "errors"

	apierrors "github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"
)

// Result is a success value or a failure error, never both.
type Result[T any] struct {
	value   T
	err     error
	success bool
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, success: true}
}

// Fail wraps a failure. A nil err is replaced so the failure variant always
// carries an error.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = apierrors.NewApplicationError(0, nil)
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether the result holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.success
}

// IsFailure reports whether the result holds an error.
func (r Result[T]) IsFailure() bool {
	return !r.success
}

// Data returns the success value, or an InvalidStateError when called on a failure.
func (r Result[T]) Data() (T, error) {
	if !r.success {
		var zero T
		return zero, &apierrors.InvalidStateError{Cause: r.err}
	}
	return r.value, nil
}

// MustData returns the success value and panics on a failure.
func (r Result[T]) MustData() T {
	v, err := r.Data()
	if err != nil {
		panic(err)
	}
	return v
}

// Value returns the success value or the zero value.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// StatusCode returns the HTTP status carried by an application failure, or -1.
func (r Result[T]) StatusCode() int {
	var appErr *apierrors.ApplicationError
	if r.err != nil && stderrors.As(r.err, &appErr) && appErr.StatusCode > 0 {
		return appErr.StatusCode
	}
	return -1
}

// Messages returns the user-facing failure messages, or nil on success.
func (r Result[T]) Messages() []string {
	return apierrors.Messages(r.err)
}
