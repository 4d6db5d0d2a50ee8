package result

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"
)

func TestOk(t *testing.T) {
	r := Ok(42)

	assert.True(t, r.IsSuccess())
	assert.False(t, r.IsFailure())
	v, err := r.Data()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 42, r.MustData())
	assert.Nil(t, r.Err())
	assert.Nil(t, r.Messages())
	assert.Equal(t, -1, r.StatusCode())
}

func TestFail_DataReturnsInvalidState(t *testing.T) {
	cause := apierrors.NewApplicationError(404, []string{"Game not found"})
	r := Fail[string](cause)

	assert.True(t, r.IsFailure())
	v, err := r.Data()
	assert.Empty(t, v)

	var stateErr *apierrors.InvalidStateError
	require.True(t, stderrors.As(err, &stateErr))
	assert.Same(t, cause, stateErr.Cause)
	assert.Equal(t, 404, r.StatusCode())
	assert.Equal(t, []string{"Game not found"}, r.Messages())
	assert.Empty(t, r.Value())
}

func TestFail_MustDataPanics(t *testing.T) {
	r := Fail[int](io.EOF)
	assert.Panics(t, func() { r.MustData() })
	assert.Equal(t, -1, r.StatusCode())
}

func TestFail_NilErrorStillFails(t *testing.T) {
	r := Fail[int](nil)
	assert.True(t, r.IsFailure())
	assert.Error(t, r.Err())
}

func TestCommandResult(t *testing.T) {
	ok := Succeeded()
	assert.True(t, ok.Succeeded)
	assert.NotNil(t, ok.Errors)
	assert.Empty(t, ok.Errors)

	failed := Failed("a", "b")
	assert.False(t, failed.Succeeded)
	assert.Equal(t, []string{"a", "b"}, failed.Errors)

	assert.Equal(t, []string{apierrors.UnknownErrorMessage}, Failed().Errors)
	assert.Equal(t, []string{apierrors.ConnectivityMessage}, FailedFrom(apierrors.NewConnectivityError("u", 3, io.EOF)).Errors)
}

func TestCommandResult_Cause(t *testing.T) {
	assert.Nil(t, Succeeded().Cause())
	assert.Nil(t, Failed("a").Cause())

	cause := apierrors.NewConnectivityError("u", 3, io.EOF)
	res := FailedFrom(cause)
	assert.Same(t, cause, res.Cause())
	assert.True(t, apierrors.IsConnectivity(res.Cause()))
}
