package apierror

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	t.Parallel()

	t.Run("formats code and message", func(t *testing.T) {
		err := Unauthorized("invalid password")
		require.Equal(t, "UNAUTHORIZED: invalid password", err.Error())
		require.Equal(t, http.StatusUnauthorized, err.HTTPStatus)
	})

	t.Run("includes details when present", func(t *testing.T) {
		err := BadRequest("invalid JSON body", "username")
		require.Equal(t, "BAD_REQUEST: invalid JSON body (username)", err.Error())
	})

	t.Run("nil error renders empty", func(t *testing.T) {
		var err *APIError
		require.Empty(t, err.Error())
	})

	t.Run("expired token is a 401", func(t *testing.T) {
		err := TokenExpired("Access token expired, please refresh")
		require.Equal(t, CodeTokenExpired, err.Code)
		require.Equal(t, http.StatusUnauthorized, err.HTTPStatus)
	})
}
