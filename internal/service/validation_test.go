package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go-session-auth/internal/model"
)

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        model.Credentials
		wantField string
	}{
		{name: "valid", in: model.Credentials{Username: "ann", Password: "secret1"}},
		{name: "minimum lengths", in: model.Credentials{Username: "abc", Password: "123456"}},
		{name: "multibyte username counts characters", in: model.Credentials{Username: "żółw", Password: "secret1"}},
		{name: "username too short", in: model.Credentials{Username: "ab", Password: "secret1"}, wantField: "username"},
		{name: "empty username", in: model.Credentials{Password: "secret1"}, wantField: "username"},
		{name: "password too short", in: model.Credentials{Username: "ann", Password: "12345"}, wantField: "password"},
		{name: "password too long for bcrypt", in: model.Credentials{Username: "ann", Password: strings.Repeat("a", 73)}, wantField: "password"},
		{name: "username checked first", in: model.Credentials{Username: "a", Password: "b"}, wantField: "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.in)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, model.ErrValidation)
			var vErr *model.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestValidateCredentials_Messages(t *testing.T) {
	t.Parallel()

	err := ValidateCredentials(model.Credentials{Username: "ab", Password: "secret1"})
	require.EqualError(t, err, "Username must be at least 3 characters long")

	err = ValidateCredentials(model.Credentials{Username: "ann", Password: "abc"})
	require.EqualError(t, err, "Password must be at least 6 characters long")
}
