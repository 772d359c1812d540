package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_UnwrapsToCause(t *testing.T) {
	cause := errors.New("row not found")
	appErr := ErrNotFound(cause)

	assert.True(t, Is(appErr, cause))
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode)
	assert.Equal(t, CodeNotFound, appErr.Code)
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(ErrInvalidCredentials)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidCredentials, appErr.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestDomainErrors_HTTPCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrNotAuthenticated, http.StatusUnauthorized},
		{ErrUnauthorized, http.StatusForbidden},
		{ErrEmailAlreadyExists, http.StatusConflict},
		{ErrInvalidRequestedRole, http.StatusBadRequest},
		{ErrPendingRequestExists, http.StatusConflict},
		{ErrRequestNotPending, http.StatusConflict},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.HTTPCode, "%s", tc.err.Code)
	}
}

func TestMarshalJSON_HidesCauseAndHTTPCode(t *testing.T) {
	appErr := InternalError(errors.New("pq: connection refused"))

	body, err := json.Marshal(appErr)
	require.NoError(t, err)

	assert.NotContains(t, string(body), "connection refused")
	assert.NotContains(t, string(body), "500")
	assert.Contains(t, string(body), string(CodeInternalError))
}
