package middlewares

import "errors"

var (
	ErrEmptyField       = errors.New("all fields must be filled")
	ErrInvalidEmail     = errors.New("email is invalid")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)
