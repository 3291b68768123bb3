package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	cases := []struct {
		err    *Error
		kind   *Kind
		status int
	}{
		{BadRequest("x"), KindBadRequest, http.StatusBadRequest},
		{Unauthorized("x"), KindUnauthorized, http.StatusUnauthorized},
		{NotFound("x"), KindNotFound, http.StatusNotFound},
		{Conflict("x"), KindConflict, http.StatusConflict},
		{Internal("x"), KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.True(t, Is(tc.err, tc.kind))
		assert.Equal(t, tc.status, tc.err.Status())
		assert.NotNil(t, tc.err.Errors)
		assert.Empty(t, tc.err.Errors)
	}
	assert.False(t, Is(BadRequest("x"), KindConflict))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("signing failed")
	err := fmt.Errorf("login: %w", Wrap(KindInternal, "token failure", cause))

	assert.True(t, errors.Is(err, cause))
	assert.True(t, Is(err, KindInternal))

	ae := From(err)
	require.NotNil(t, ae)
	assert.Equal(t, "token failure", ae.Message)
}

func TestFromUnknown(t *testing.T) {
	ae := From(errors.New("db exploded"))
	assert.Equal(t, http.StatusInternalServerError, ae.Status())
	assert.Equal(t, "internal server error", ae.Message)
	assert.Nil(t, From(nil))
}
