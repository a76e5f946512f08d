package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUpstream        = errors.New("upstream unavailable")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrCatalog         = errors.New("catalog unavailable")
)
