package services

import (
	"errors"

	"coinlings/internal/repository"
)

// Error categories. Handlers turn them into 400, 404 and 400.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
)

// Error is a client-facing failure. Kind is one of the categories above.
type Error struct {
	Kind    error
	Msg     string
	Details map[string]string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Is lets a copy carrying Details match the declared sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Msg == e.Msg
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrInvalidKind   = newError(ErrInvalidInput, "kind must be credit or debit")
	ErrInvalidAmount = newError(ErrInvalidInput, "amount must be a positive number")
	ErrEmptyName     = newError(ErrInvalidInput, "name must not be empty")
	ErrInvalidRarity = newError(ErrInvalidInput, "rarity must be common, rare or legendary")
	ErrWorthItCredit = newError(ErrInvalidInput, "worth_it applies to debits only")
	ErrSameContainer = newError(ErrNotFound, "source and target must be different containers")

	ErrUserNotFound        = newError(ErrNotFound, "user not found")
	ErrTransactionNotFound = newError(ErrNotFound, "transaction not found")
	ErrContainerNotFound   = newError(ErrNotFound, "container not found")
	ErrCreatureNotFound    = newError(ErrNotFound, "creature not found")

	ErrCapacityMismatch  = newError(ErrPreconditionFailed, "containers must have the same capacity")
	ErrInvalidCapacity   = newError(ErrPreconditionFailed, "invalid capacity for merging")
	ErrMaxCapacity       = newError(ErrPreconditionFailed, "already at maximum capacity")
	ErrNotFull           = newError(ErrPreconditionFailed, "both containers must be full before merging")
	ErrContainerNotEmpty = newError(ErrPreconditionFailed, "container must be empty before it is deleted")
	ErrContainerFull     = newError(ErrPreconditionFailed, "container is full")
	ErrPopulationLimit   = newError(ErrPreconditionFailed, "population limit reached")
)

// ErrCapacityViolation means a planned write would overfill a container. It is a bug, not client input.
var ErrCapacityViolation = errors.New("capacity invariant violated")

// auth
var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUserAlreadyExists         = errors.New("user already exists")
	ErrInvalidRefreshToken       = errors.New("invalid refresh token")
	ErrFailedToGenerateTokens    = errors.New("failed to generate tokens")
	ErrFailedToStoreRefreshToken = errors.New("failed to store refresh token")
)

// translate maps storage not-found errors onto service errors.
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrTransactionNotFound):
		return ErrTransactionNotFound
	case errors.Is(err, repository.ErrContainerNotFound):
		return ErrContainerNotFound
	case errors.Is(err, repository.ErrCreatureNotFound):
		return ErrCreatureNotFound
	case errors.Is(err, repository.ErrNotDebit):
		return ErrWorthItCredit
	}
	return err
}
