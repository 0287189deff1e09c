package services

import "errors"

var (
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalid         = errors.New("invalid input")
	ErrEmailTaken      = errors.New("email already registered")
	ErrUnknownEmail    = errors.New("email does not exist")
	ErrWrongPassword   = errors.New("password incorrect")
	ErrTitleTaken      = errors.New("a post with this title already exists")
)
