package result

import apierrors "github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"

// CommandResult is the outcome of a mutating operation.
type CommandResult struct {
	Succeeded bool     `json:"succeeded"`
	Errors    []string `json:"errors"`

	cause error
}

// Succeeded returns a successful CommandResult with an empty error list.
func Succeeded() CommandResult {
	return CommandResult{Succeeded: true, Errors: []string{}}
}

// Failed returns a failed CommandResult carrying errs.
func Failed(errs ...string) CommandResult {
	if len(errs) == 0 {
		errs = []string{apierrors.UnknownErrorMessage}
	}
	return CommandResult{Succeeded: false, Errors: errs}
}

// FailedFrom converts err into a failed CommandResult that keeps err as its cause.
func FailedFrom(err error) CommandResult {
	res := Failed(apierrors.Messages(err)...)
	res.cause = err
	return res
}

// Cause returns the error a FailedFrom result was built from, or nil.
func (r CommandResult) Cause() error {
	return r.cause
}
