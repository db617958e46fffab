package usecase

import (
	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrForbidden             = crerr.New("forbidden")
	ErrConflict              = crerr.New("conflict")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
	ErrMatchClosed           = crerr.New("match already decided")
	ErrDeadlinePassed        = crerr.New("prediction deadline passed")
	ErrInvalidCredentials    = crerr.New("invalid email or password")
	ErrNotVerified           = crerr.New("email not verified")
	ErrInvalidToken          = crerr.New("invalid or expired token")
)

// invalidInput keeps the domain error in the chain and classifies it as ErrInvalidInput.
func invalidInput(err error) error {
	return crerr.Mark(err, ErrInvalidInput)
}
