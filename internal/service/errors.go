package service

import "errors"

var (
	ErrJokeFetch       = errors.New("joke source unavailable")
	ErrJokeInvalidData = errors.New("joke source returned invalid data")
	ErrJokeNotFound    = errors.New("no jokes found for this mode")
	ErrInvalidMode     = errors.New("invalid joke mode")
	ErrInvalidTab      = errors.New("invalid tab")
)
