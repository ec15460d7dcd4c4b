package service

import (
	"fmt"
	"unicode/utf8"

	"go-session-auth/internal/model"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
	MaxPasswordBytes = 72
)

// ValidateCredentials applies the input rules shared by registration and
// login. It never touches the store or the hasher.
func ValidateCredentials(in model.Credentials) error {
	if err := validateUsername(in.Username); err != nil {
		return err
	}
	return validatePassword(in.Password)
}

func validateUsername(username string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return model.NewValidationError("username",
			fmt.Sprintf("Username must be at least %d characters long", MinUsernameLength))
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return model.NewValidationError("password",
			fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		return model.NewValidationError("password",
			fmt.Sprintf("Password must be at most %d bytes long", MaxPasswordBytes))
	}
	return nil
}
