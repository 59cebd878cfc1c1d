package auth

import "errors"

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrDuplicateUser      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("user not found")
	ErrWrongAnswer        = errors.New("wrong security answer")
	ErrWrongPassword      = errors.New("wrong password")
	ErrSecretTooLong      = errors.New("password or answer is too long")

	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid or expired token")
)
