package middlewares

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const minPasswordLength = 8

var validate = validator.New()

func CorrectEmailChecker(email string) bool {
	return validate.Var(email, "email") == nil
}

func CheckCredentials(email, password string) error {
	if email == "" || password == "" {
		return ErrEmptyField
	}

	if !CorrectEmailChecker(email) {
		return ErrInvalidEmail
	}

	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: minimum %d characters required", ErrPasswordTooShort, minPasswordLength)
	}

	return nil
}
