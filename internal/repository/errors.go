package repository

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrContainerNotFound   = errors.New("container not found")
	ErrCreatureNotFound    = errors.New("creature not found")
	ErrTokenNotFound       = errors.New("refresh token not found")
	ErrNotDebit            = errors.New("transaction is not a debit")
)
